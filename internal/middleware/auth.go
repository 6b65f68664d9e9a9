package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/auth"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=middleware_test
type sessionChecker interface {
	GetSession(ctx context.Context, token string) (*auth.Session, error)
}

type AuthMiddlewareHandler struct {
	sessionChecker       sessionChecker
	allowedPaths         map[string]bool
	allowedPathsPrefixes []string
	libraryPathsPrefixes []string
}

func NewAuthMiddlewareHandler(sessionChecker sessionChecker) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		sessionChecker: sessionChecker,
		allowedPaths: map[string]bool{
			"/":        true,
			"/version": true,

			// login-logout:
			"/a/login":           true,
			"/a/logout":          true,
			"/trainees/login":    true,
			"/trainees/register": true,
		},
		allowedPathsPrefixes: []string{
			"/media/",
		},
		libraryPathsPrefixes: []string{
			"/exercises",
			"/recipes",
			"/markdown",
		},
	}
}

func (h *AuthMiddlewareHandler) pathIsAlwaysAllowed(path string) bool {
	if h.allowedPaths[path] {
		return true
	}
	for _, prefix := range h.allowedPathsPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// canAccess: the trainer sees everything, trainees see their own /trainees/{id}/...
// routes and can read the exercise and recipe libraries. Daily plans are written by the trainer only.
func (h *AuthMiddlewareHandler) canAccess(session *auth.Session, r *http.Request) bool {
	if session.IsTrainer() {
		return true
	}
	if session.Role != auth.RoleTrainee {
		return false
	}

	if id, ok := traineeIDFromPath(r.URL.Path); ok {
		if isPlanPath(r.URL.Path) && r.Method != http.MethodGet {
			return false
		}
		return id == session.TraineeID
	}

	if r.Method != http.MethodGet && !strings.HasPrefix(r.URL.Path, "/markdown") {
		return false
	}
	for _, prefix := range h.libraryPathsPrefixes {
		if r.URL.Path == prefix || strings.HasPrefix(r.URL.Path, prefix+"/") {
			return true
		}
	}
	return false
}

func traineeIDFromPath(path string) (int, bool) {
	rest, ok := strings.CutPrefix(path, "/trainees/")
	if !ok {
		return 0, false
	}
	idPart, _, _ := strings.Cut(rest, "/")
	id, err := strconv.Atoi(idPart)
	if err != nil {
		return 0, false
	}
	return id, true
}

func isPlanPath(path string) bool {
	rest, _ := strings.CutPrefix(path, "/trainees/")
	_, sub, _ := strings.Cut(rest, "/")
	return sub == "plans" || strings.HasPrefix(sub, "plans/")
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.pathIsAlwaysAllowed(r.URL.Path) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			authToken := r.Header.Get(auth.TokenHeader)
			if authToken == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			session, err := h.sessionChecker.GetSession(ctx, authToken)
			if err != nil {
				if errors.Is(err, auth.ErrSessionNotFound) {
					log.Tracef("[invalid token] [auth middleware] unauthorized => %s", r.URL.Path)
					span.SetStatus(codes.Error, "not-logged")
				} else {
					log.Errorf("[failed login check] => %s: %s", r.URL.Path, err)
					span.SetStatus(codes.Error, "check-logged-err")
					span.RecordError(err)
				}
				http.Error(w, "no can do", http.StatusUnauthorized)
				return
			}

			span.SetAttributes(attribute.String("session.role", string(session.Role)))
			if !h.canAccess(session, r) {
				log.Tracef("[forbidden] [auth middleware] %s trainee %d => %s %s", session.Role, session.TraineeID, r.Method, r.URL.Path)
				http.Error(w, "forbidden", http.StatusForbidden)
				span.SetStatus(codes.Error, "forbidden")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.ContextWithSession(r.Context(), session)))
		})
	}
}
