package agora

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/jonboulle/clockwork"
	"github.com/nasermirzaei89/agora/auth"
	"github.com/nasermirzaei89/agora/contents"
	"github.com/nasermirzaei89/agora/database/sqlite3"
	"github.com/nasermirzaei89/agora/discuss"
	"github.com/nasermirzaei89/agora/metrics"
	"github.com/nasermirzaei89/agora/ranking"
	"github.com/nasermirzaei89/agora/server"
	"github.com/nasermirzaei89/agora/votes"
	"github.com/nasermirzaei89/agora/web"
	"github.com/nasermirzaei89/env"
)

type App struct {
	server  *server.Server
	handler *web.Handler
	db      *sql.DB
}

func NewApp(ctx context.Context) (*App, error) {
	db, err := sqlite3.NewDB(ctx, env.GetString("DB_DSN", sqlite3.DefaultDSN))
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	err = sqlite3.MigrateUp(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	clock := clockwork.NewRealClock()
	reg := metrics.NewRegistry()

	store := sqlite3.NewStore(db)
	sessionRepo := sqlite3.NewSessionRepository(db)

	authSvc := auth.NewService(sessionRepo, clock)
	votesSvc := votes.NewService(store.Votes())
	contentsSvc := contents.NewService(store.Posts())
	discussSvc := discuss.NewService(store.Comments(), votesSvc)
	engine := ranking.NewEngine(store, clock, metrics.NewRankingMetrics(reg))

	sessionKey, err := sessionKeyFromEnv()
	if err != nil {
		return nil, err
	}

	cookieStore := sessions.NewCookieStore(sessionKey)
	cookieStore.Options.HttpOnly = true
	cookieStore.Options.Secure = env.GetBool("TLS_ENABLED", false)

	feedDefaultLimit, err := intFromEnv("FEED_DEFAULT_LIMIT", contents.DefaultFeedLimit)
	if err != nil {
		return nil, err
	}

	opts := web.Options{
		AuthService:      authSvc,
		Engine:           engine,
		ContentsService:  contentsSvc,
		DiscussService:   discussSvc,
		VotesService:     votesSvc,
		CookieStore:      cookieStore,
		SessionName:      env.GetString("SESSION_NAME", "agora"),
		HTTPMetrics:      metrics.NewHTTPMetrics(reg),
		FeedDefaultLimit: feedDefaultLimit,
	}

	if env.GetBool("METRICS_ENABLED", true) {
		opts.MetricsHandler = metrics.Handler(reg)
	}

	app := &App{
		server:  newServer(),
		handler: web.NewHandler(opts),
		db:      db,
	}

	return app, nil
}

func (app *App) Run(ctx context.Context) error {
	// Handle SIGINT (CTRL+C) and SIGTERM gracefully.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer func() {
		if app.db != nil {
			err := app.db.Close()
			if err != nil {
				slog.ErrorContext(ctx, "failed to close database", "error", err)
			}
		}
	}()

	err := app.server.Run(ctx, app.handler)
	if err != nil {
		return fmt.Errorf("failed to run server: %w", err)
	}

	return nil
}

func newServer() *server.Server {
	server := &server.Server{
		Port: env.GetString("PORT", server.DefaultPort),
		Host: env.GetString("HOST", ""),
		TLS: server.ServerTLS{
			Enabled: env.GetBool("TLS_ENABLED", false),
			Mode:    env.GetString("TLS_MODE", server.DefaultTLSMode),
			AutoCert: &server.ServerTLSAutoCert{
				CacheDir: env.GetString("TLS_AUTOCERT_CACHE_DIR", "./cert-cache"),
				Domains:  env.GetStringSlice("TLS_AUTOCERT_DOMAINS", []string{}),
				Email:    env.GetString("TLS_AUTOCERT_EMAIL", ""),
			},
			CertFile: env.GetString("TLS_CERT_FILE", ""),
			KeyFile:  env.GetString("TLS_KEY_FILE", ""),
		},
	}

	return server
}

// sessionKeyFromEnv decodes SESSION_KEY (base64). Without one, a random key is used and
// cookies do not survive a restart.
func sessionKeyFromEnv() ([]byte, error) {
	encoded := env.GetString("SESSION_KEY", "")
	if encoded == "" {
		slog.Warn("SESSION_KEY is not set, using a random key")

		return securecookie.GenerateRandomKey(32), nil
	}

	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode SESSION_KEY: %w", err)
	}

	return key, nil
}

func intFromEnv(name string, fallback int) (int, error) {
	raw := env.GetString(name, "")
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	return value, nil
}

func GetLogLevelFromEnv() slog.Level {
	levelStr := env.GetString("LOG_LEVEL", "info")
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		slog.Warn("unknown log level, defaulting to info", "level", levelStr)

		return slog.LevelInfo
	}
}
