package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/nasermirzaei89/agora/auth"
	authcontext "github.com/nasermirzaei89/agora/auth/context"
)

// authMiddleware resolves the request subject from a bearer session id or the session cookie.
// Requests without a live session continue as anonymous.
func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID, fromHeader := bearerToken(r)

		if !fromHeader {
			var sessionValueNotFoundError *SessionValueNotFoundError

			var err error

			sessionID, err = h.getSessionValue(r, sessionIDKey)
			if err != nil && !errors.As(err, &sessionValueNotFoundError) {
				slog.WarnContext(r.Context(), "error on getting session value", "key", sessionIDKey, "error", err)
			}
		}

		if sessionID == "" {
			next.ServeHTTP(w, r)

			return
		}

		session, err := h.authSvc.GetSession(r.Context(), sessionID)
		if err != nil {
			var (
				sessionNotFoundError *auth.SessionNotFoundError
				sessionExpiredError  *auth.SessionExpiredError
			)

			if !errors.As(err, &sessionNotFoundError) && !errors.As(err, &sessionExpiredError) {
				slog.ErrorContext(r.Context(), "error on getting session", "error", err)
				respondError(w, r, err)

				return
			}

			if !fromHeader {
				err = h.deleteSessionValue(w, r, sessionIDKey)
				if err != nil {
					slog.ErrorContext(r.Context(), "error on deleting session value", "key", sessionIDKey, "error", err)
				}
			}

			next.ServeHTTP(w, r)

			return
		}

		ctx := authcontext.WithSessionID(r.Context(), session.ID)
		ctx = authcontext.WithSubject(ctx, session.UserID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func isAuthenticated(r *http.Request) bool {
	return authcontext.GetSubject(r.Context()) != authcontext.Anonymous
}

// currentVoterID is the subject for per-voter decorations, empty for guests.
func currentVoterID(r *http.Request) string {
	if !isAuthenticated(r) {
		return ""
	}

	return authcontext.GetSubject(r.Context())
}
