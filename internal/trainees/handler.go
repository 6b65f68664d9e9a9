package trainees

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/auth"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/middleware"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/misc"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/telemetry/metrics"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/telemetry/tracing"
	"github.com/SoroushGhorbanimehr/tigo-app/pkg"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=trainees_test
type sessionStarter interface {
	StartSession(ctx context.Context, role auth.Role, traineeID int, createdAt time.Time) (string, error)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Handler struct {
	service  *Service
	sessions sessionStarter
	metrics  *metrics.Manager
}

func NewHandler(service *Service, sessions sessionStarter, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
		metrics:  metricsManager,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	loginAllowedPerMin int,
) {
	mainRouter.HandleFunc("/trainees", handler.HandleList).Methods("GET", "OPTIONS").Name("list-trainees")
	mainRouter.HandleFunc("/trainees/{id:[0-9]+}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-trainee")

	// public, so rate limited
	rateLimit := middleware.RateLimit(rateLimiter, "trainee-login", loginAllowedPerMin, handler.metrics)
	mainRouter.Handle("/trainees/register", rateLimit(http.HandlerFunc(handler.HandleRegister))).Methods("POST", "OPTIONS").Name("register-trainee")
	mainRouter.Handle("/trainees/login", rateLimit(http.HandlerFunc(handler.HandleLogin))).Methods("POST", "OPTIONS").Name("login-trainee")
}

func (handler *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.trainees.register")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("register trainee, unmarshal json params: %s", err)
		http.Error(w, "register failed", http.StatusBadRequest)
		return
	}

	trainee, err := handler.service.Register(ctx, req)
	if err != nil {
		var validationErrs validation.Errors
		switch {
		case errors.As(err, &validationErrs):
			http.Error(w, "error, "+validationErrs.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrEmailTaken):
			http.Error(w, "error, email already registered", http.StatusConflict)
		default:
			log.Errorf("failed to register trainee [%s]: %s", req.Email, err)
			http.Error(w, "error, failed to register trainee", http.StatusInternalServerError)
		}
		return
	}

	handler.metrics.CounterTraineesRegistered.Inc()
	log.Debugf("new trainee registered: %d", trainee.ID)

	traineeJson, err := json.Marshal(trainee)
	if err != nil {
		log.Errorf("failed to marshal trainee: %s", err)
		http.Error(w, "error, failed to register trainee", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, traineeJson, http.StatusCreated)
}

func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.trainees.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("trainee login, unmarshal json params: %s", err)
		http.Error(w, "login failed", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "error, email or password empty", http.StatusBadRequest)
		return
	}

	trainee, err := handler.service.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrWrongCredentials) {
			handler.metrics.CounterLogins.WithLabelValues(string(auth.RoleTrainee), "wrong_credentials").Inc()
			http.Error(w, "error, wrong credentials", http.StatusBadRequest)
			return
		}
		log.Errorf("trainee login failed: %s", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	token, err := handler.sessions.StartSession(ctx, auth.RoleTrainee, trainee.ID, time.Now())
	if err != nil {
		log.Errorf("trainee login failed, start session: %s", err)
		http.Error(w, "generate token error", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterLogins.WithLabelValues(string(auth.RoleTrainee), "success").Inc()
	misc.WriteLoginResponse(w, misc.LoginResponse{
		Token:     token,
		Role:      auth.RoleTrainee,
		TraineeID: trainee.ID,
	})
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.trainees.list")
	defer span.End()

	trainees, err := handler.service.List(ctx)
	if err != nil {
		log.Errorf("failed to list trainees: %s", err)
		http.Error(w, "failed to get trainees", http.StatusInternalServerError)
		return
	}

	traineesJson, err := json.Marshal(trainees)
	if err != nil {
		log.Errorf("failed to marshal trainees: %s", err)
		http.Error(w, "failed to get trainees", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, traineesJson, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.trainees.get")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	trainee, err := handler.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTraineeNotFound) {
			http.Error(w, "trainee not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get trainee %d: %s", id, err)
		http.Error(w, "failed to get trainee", http.StatusInternalServerError)
		return
	}

	traineeJson, err := json.Marshal(trainee)
	if err != nil {
		log.Errorf("failed to marshal trainee: %s", err)
		http.Error(w, "failed to get trainee", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, traineeJson, http.StatusOK)
}
