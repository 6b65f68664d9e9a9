package exercises

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/library"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/markdown"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/media"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/telemetry/metrics"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/telemetry/tracing"
	"github.com/SoroushGhorbanimehr/tigo-app/pkg"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type exerciseView struct {
	*Exercise
	DescriptionHTML string `json:"descriptionHtml"`
}

type uploadedVideoResponse struct {
	VideoURL string `json:"videoUrl"`
}

type Handler struct {
	service *Service
	metrics *metrics.Manager
}

func NewHandler(service *Service, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service: service,
		metrics: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	exercisesRouter := mainRouter.PathPrefix("/exercises").Subrouter()
	exercisesRouter.HandleFunc("", handler.HandleList).Methods("GET", "OPTIONS").Name("list-exercises")
	exercisesRouter.HandleFunc("", handler.HandleCreate).Methods("POST").Name("create-exercise")
	exercisesRouter.HandleFunc("/{id:[0-9]+}", handler.HandleUpdate).Methods("PATCH", "OPTIONS").Name("update-exercise")
	exercisesRouter.HandleFunc("/{id:[0-9]+}/video", handler.HandleUploadVideo).Methods("POST", "OPTIONS").Name("upload-exercise-video")
	exercisesRouter.HandleFunc("/{slug}", handler.HandleGet).Methods("GET").Name("get-exercise")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.list")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	exercises, err := handler.service.List(ctx)
	if err != nil {
		log.Errorf("failed to list exercises: %s", err)
		http.Error(w, "failed to get exercises", http.StatusInternalServerError)
		return
	}

	writeJSON(w, exercises, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.get")
	defer span.End()

	slug := mux.Vars(r)["slug"]
	exercise, err := handler.service.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			http.Error(w, "exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get exercise [%s]: %s", slug, err)
		http.Error(w, "failed to get exercise", http.StatusInternalServerError)
		return
	}

	view := exerciseView{Exercise: exercise}
	if exercise.Description != nil {
		view.DescriptionHTML = markdown.Render(*exercise.Description)
		handler.metrics.CounterMarkdownRenders.Inc()
	}

	writeJSON(w, view, http.StatusOK)
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.create")
	defer span.End()

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("create exercise, unmarshal json params: %s", err)
		http.Error(w, "error, invalid exercise", http.StatusBadRequest)
		return
	}

	exercise, err := handler.service.Create(ctx, req)
	if err != nil {
		writeServiceError(w, err, "create exercise")
		return
	}

	log.Debugf("new exercise added: %d [%s]", exercise.ID, exercise.Slug)
	writeJSON(w, exercise, http.StatusCreated)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.update")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "PATCH, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	var patch Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Errorf("update exercise, unmarshal json params: %s", err)
		http.Error(w, "error, invalid exercise patch", http.StatusBadRequest)
		return
	}

	exercise, err := handler.service.Update(ctx, id, patch)
	if err != nil {
		writeServiceError(w, err, "update exercise")
		return
	}

	writeJSON(w, exercise, http.StatusOK)
}

func (handler *Handler) HandleUploadVideo(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.upload_video")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, media.MaxUploadSize)
	file, header, err := r.FormFile("video")
	if err != nil {
		log.Errorf("upload video, get file from form: %s", err)
		http.Error(w, "upload video failed, file missing or too big", http.StatusBadRequest)
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Errorf("upload video, close file: %s", err)
		}
	}()

	log.Debugf("upload video, filename: %s, size: %d", header.Filename, header.Size)

	videoURL, err := handler.service.UploadVideo(ctx, id, header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrExerciseNotFound):
			http.Error(w, "upload video failed, exercise not found", http.StatusNotFound)
		case errors.Is(err, ErrVideoURLNotSaved):
			log.Errorf("upload video for exercise %d: %s", id, err)
			http.Error(w, ErrVideoURLNotSaved.Error(), http.StatusInternalServerError)
		default:
			log.Errorf("upload video for exercise %d: %s", id, err)
			http.Error(w, "upload video failed", http.StatusInternalServerError)
		}
		return
	}

	handler.metrics.CounterUploads.WithLabelValues("exercise_video").Inc()
	handler.metrics.HistogramUploadSize.Observe(float64(header.Size))

	writeJSON(w, uploadedVideoResponse{VideoURL: videoURL}, http.StatusCreated)
}

func writeServiceError(w http.ResponseWriter, err error, action string) {
	var validationErrs validation.Errors
	switch {
	case errors.As(err, &validationErrs):
		http.Error(w, "error, "+validationErrs.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrExerciseNotFound):
		http.Error(w, "exercise not found", http.StatusNotFound)
	case errors.Is(err, library.ErrSlugTaken):
		http.Error(w, "error, slug already taken", http.StatusConflict)
	default:
		log.Errorf("%s: %s", action, err)
		http.Error(w, "error, failed to "+action, http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	respJson, err := json.Marshal(v)
	if err != nil {
		log.Errorf("failed to marshal exercises response: %s", err)
		http.Error(w, "error, marshal response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, status)
}
