package misc

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/auth"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/middleware"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/telemetry/metrics"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/telemetry/tracing"
	"github.com/SoroushGhorbanimehr/tigo-app/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type LoginResponse struct {
	Token     string    `json:"token"`
	Role      auth.Role `json:"role"`
	TraineeID int       `json:"traineeId,omitempty"`
}

type Handler struct {
	versionInfo string
	authService *auth.Service
	metrics     *metrics.Manager
}

func NewHandler(
	versionInfo string,
	authService *auth.Service,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		versionInfo: versionInfo,
		authService: authService,
		metrics:     metricsManager,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	loginAllowedPerMin int,
) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")

	loginSubrouter := mainRouter.PathPrefix("/a").Subrouter()
	loginSubrouter.
		HandleFunc("/login", handler.handleLogin).
		Methods("POST", "OPTIONS").Name("login")
	loginSubrouter.
		HandleFunc("/logout", handler.handleLogout).
		Methods("GET", "OPTIONS").Name("logout")

	// rate limit the /login and /logout endpoints to prevent abuse
	loginSubrouter.Use(middleware.RateLimit(rateLimiter, "login", loginAllowedPerMin, handler.metrics))
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

// ReadCredentials accepts both JSON and form encoded login requests.
func ReadCredentials(r *http.Request) (auth.Credentials, error) {
	var creds auth.Credentials
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			return creds, err
		}
		return creds, nil
	}

	if err := r.ParseForm(); err != nil {
		return creds, err
	}
	return auth.Credentials{
		Username: r.Form.Get("username"),
		Password: r.Form.Get("password"),
	}, nil
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	creds, err := ReadCredentials(r)
	if err != nil {
		log.Errorf("login, read credentials: %s", err)
		http.Error(w, "login failed", http.StatusBadRequest)
		return
	}

	if creds.Username == "" {
		http.Error(w, "error, username empty", http.StatusBadRequest)
		return
	}
	if creds.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return
	}

	token, err := handler.authService.LoginTrainer(ctx, creds, time.Now())
	if err != nil {
		if errors.Is(err, auth.ErrWrongCredentials) {
			handler.metrics.CounterLogins.WithLabelValues(string(auth.RoleTrainer), "wrong_credentials").Inc()
			http.Error(w, "error, wrong credentials", http.StatusBadRequest)
			return
		}
		log.Errorf("login failed, generate token error: %s", err)
		http.Error(w, "generate token error", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterLogins.WithLabelValues(string(auth.RoleTrainer), "success").Inc()
	log.Trace("new login success")

	WriteLoginResponse(w, LoginResponse{Token: token, Role: auth.RoleTrainer})
}

func WriteLoginResponse(w http.ResponseWriter, resp LoginResponse) {
	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal login response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.logout")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	authToken := r.Header.Get(auth.TokenHeader)
	if authToken == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	loggedOut, err := handler.authService.Logout(ctx, authToken)
	if err != nil {
		log.Errorf("[failed logout] => %s: %s", r.URL.Path, err)
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	if !loggedOut {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	log.Debugln("logout success")
	pkg.WriteTextResponseOK(w, "logged-out")
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}
