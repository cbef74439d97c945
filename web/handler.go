package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/sessions"
	"github.com/nasermirzaei89/agora/auth"
	"github.com/nasermirzaei89/agora/contents"
	"github.com/nasermirzaei89/agora/discuss"
	"github.com/nasermirzaei89/agora/metrics"
	"github.com/nasermirzaei89/agora/ranking"
	"github.com/nasermirzaei89/agora/votes"
)

// maxBodyBytes bounds request bodies. Content is capped well below this.
const maxBodyBytes = 1 << 20

type Handler struct {
	mux              *http.ServeMux
	handler          http.Handler
	authSvc          *auth.Service
	engine           *ranking.Engine
	contentsSvc      *contents.Service
	discussSvc       *discuss.Service
	votesSvc         *votes.Service
	cookieStore      *sessions.CookieStore
	sessionName      string
	httpMetrics      *metrics.HTTPMetrics
	metricsHandler   http.Handler
	feedDefaultLimit int
}

var _ http.Handler = (*Handler)(nil)

// Options wires a Handler. MetricsHandler is mounted at /metrics when set.
type Options struct {
	AuthService      *auth.Service
	Engine           *ranking.Engine
	ContentsService  *contents.Service
	DiscussService   *discuss.Service
	VotesService     *votes.Service
	CookieStore      *sessions.CookieStore
	SessionName      string
	HTTPMetrics      *metrics.HTTPMetrics
	MetricsHandler   http.Handler
	FeedDefaultLimit int
}

func NewHandler(opts Options) *Handler {
	h := &Handler{
		mux:              &http.ServeMux{},
		handler:          nil,
		authSvc:          opts.AuthService,
		engine:           opts.Engine,
		contentsSvc:      opts.ContentsService,
		discussSvc:       opts.DiscussService,
		votesSvc:         opts.VotesService,
		cookieStore:      opts.CookieStore,
		sessionName:      opts.SessionName,
		httpMetrics:      opts.HTTPMetrics,
		metricsHandler:   opts.MetricsHandler,
		feedDefaultLimit: contents.ClampLimit(opts.FeedDefaultLimit, contents.DefaultFeedLimit),
	}

	h.registerRoutes()

	h.handler = h.authMiddleware(h.mux)
	h.handler = recoverMiddleware(h.handler)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}

func (h *Handler) handle(pattern string, handler http.Handler) {
	if h.httpMetrics != nil {
		handler = h.httpMetrics.Wrap(pattern, handler)
	}

	h.mux.Handle(pattern, handler)
}

func (h *Handler) registerRoutes() {
	h.handle("GET /healthz", h.HandleHealth())

	h.handle("GET /feeds/{feed}", h.HandleListFeed())

	h.handle("POST /posts", h.HandleCreatePost())
	h.handle("GET /posts/{postId}", h.HandleGetPost())
	h.handle("DELETE /posts/{postId}", h.HandleRemovePost())
	h.handle("GET /posts/{postId}/comments", h.HandleCommentTree())
	h.handle("POST /posts/{postId}/comments", h.HandleCreateComment())
	h.handle("GET /comments/{commentId}", h.HandleGetComment())
	h.handle("DELETE /comments/{commentId}", h.HandleRemoveComment())

	h.handle("POST /targets/{kind}/{targetId}/vote", h.HandleVote())

	h.handle("GET /authors/{authorId}/reputation", h.HandleGetReputation())

	if h.metricsHandler != nil {
		h.mux.Handle("GET /metrics", h.metricsHandler)
	}
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func(ctx context.Context) {
			if err := recover(); err != nil {
				slog.ErrorContext(
					ctx,
					"recovered from panic",
					"error",
					err,
					"stack",
					string(debug.Stack()),
				)

				respondMessage(w, http.StatusInternalServerError, "internal error occurred")
			}
		}(r.Context())

		next.ServeHTTP(w, r)
	})
}

func (h *Handler) HandleHealth() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(errorResponse{Error: message})
}

type badRequestError struct {
	message string
}

func (err badRequestError) Error() string {
	return err.message
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		return &badRequestError{message: "invalid request body: " + err.Error()}
	}

	return nil
}

// respondError maps domain errors to status codes. Unknown errors are logged and hidden.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		badRequestErr       *badRequestError
		invalidDirectionErr *votes.InvalidDirectionError
		invalidKindErr      *votes.InvalidTargetKindError
		invalidContentErr   *ranking.InvalidContentError
		invalidReplyErr     *ranking.InvalidReplyError
		invalidFeedErr      *contents.InvalidFeedError
		notAuthorErr        *ranking.NotAuthorError
		postNotFoundErr     *contents.PostNotFoundError
		commentNotFoundErr  *discuss.CommentNotFoundError
	)

	switch {
	case errors.As(err, &badRequestErr),
		errors.As(err, &invalidDirectionErr),
		errors.As(err, &invalidKindErr),
		errors.As(err, &invalidContentErr),
		errors.As(err, &invalidReplyErr),
		errors.As(err, &invalidFeedErr):
		respondMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ranking.ErrAnonymousActor):
		respondMessage(w, http.StatusUnauthorized, "authentication required")
	case errors.As(err, &notAuthorErr):
		respondMessage(w, http.StatusForbidden, "only the author may do that")
	case errors.As(err, &postNotFoundErr):
		respondMessage(w, http.StatusNotFound, "post not found")
	case errors.As(err, &commentNotFoundErr):
		respondMessage(w, http.StatusNotFound, "comment not found")
	case errors.Is(err, ranking.ErrTooManyConflicts):
		w.Header().Set("Retry-After", "1")
		respondMessage(w, http.StatusServiceUnavailable, "too many concurrent changes, try again")
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		respondMessage(w, http.StatusInternalServerError, "internal error occurred")
	}
}
