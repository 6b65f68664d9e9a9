package tracking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/media"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/prefs"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/progress"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/telemetry/metrics"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/telemetry/tracing"
	"github.com/SoroushGhorbanimehr/tigo-app/pkg"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// settingsRequest carries the goal in the display unit, not in kg.
type settingsRequest struct {
	DisplayUnit string   `json:"displayUnit"`
	GoalWeight  *float64 `json:"goalWeight"`
}

type settingsResponse struct {
	prefs.ProgressSettings
	GoalWeight *float64 `json:"goalWeight,omitempty"`
}

func newSettingsResponse(settings prefs.ProgressSettings) settingsResponse {
	resp := settingsResponse{ProgressSettings: settings}
	if settings.GoalWeightKg != nil {
		g := progress.FromKg(*settings.GoalWeightKg, settings.DisplayUnit)
		resp.GoalWeight = &g
	}
	return resp
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
	progressRouter := mainRouter.PathPrefix("/trainees/{id:[0-9]+}/progress").Subrouter()
	progressRouter.HandleFunc("/entries", handler.HandleListEntries).Methods("GET", "OPTIONS").Name("list-progress-entries")
	progressRouter.HandleFunc("/entries", handler.HandleAddEntry).Methods("POST").Name("add-progress-entry")
	progressRouter.HandleFunc("/entries/{entryId:[0-9]+}", handler.HandleDeleteEntry).Methods("DELETE", "OPTIONS").Name("delete-progress-entry")
	progressRouter.HandleFunc("/summary", handler.HandleSummary).Methods("GET", "OPTIONS").Name("progress-summary")
	progressRouter.HandleFunc("/settings", handler.HandleGetSettings).Methods("GET", "OPTIONS").Name("get-progress-settings")
	progressRouter.HandleFunc("/settings", handler.HandleSaveSettings).Methods("PUT").Name("save-progress-settings")
	progressRouter.HandleFunc("/photos", handler.HandleListPhotos).Methods("GET", "OPTIONS").Name("list-progress-photos")
	progressRouter.HandleFunc("/photos", handler.HandleUploadPhotos).Methods("POST").Name("upload-progress-photos")
	progressRouter.HandleFunc("/photos", handler.HandleDeletePhoto).Methods("DELETE").Name("delete-progress-photo")
}

func traineeID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, trainee id NaN", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// displayUnits reads ?unit= and ?lengthUnit=. Empty values are passed on as empty.
func displayUnits(r *http.Request) (progress.WeightUnit, progress.LengthUnit, error) {
	var (
		weightUnit progress.WeightUnit
		lengthUnit progress.LengthUnit
		err        error
	)
	if u := r.URL.Query().Get("unit"); u != "" {
		if weightUnit, err = progress.ParseWeightUnit(u); err != nil {
			return "", "", err
		}
	}
	if u := r.URL.Query().Get("lengthUnit"); u != "" {
		if lengthUnit, err = progress.ParseLengthUnit(u); err != nil {
			return "", "", err
		}
	}
	return weightUnit, lengthUnit, nil
}

func (handler *Handler) HandleListEntries(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracking.list_entries")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	id, ok := traineeID(w, r)
	if !ok {
		return
	}

	var kind Kind
	if k := r.URL.Query().Get("kind"); k != "" {
		var err error
		if kind, err = ParseKind(k); err != nil {
			http.Error(w, "error, unknown kind", http.StatusBadRequest)
			return
		}
	}
	weightUnit, lengthUnit, err := displayUnits(r)
	if err != nil {
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		return
	}
	if weightUnit == "" {
		settings, err := handler.service.Settings(ctx, id)
		if err != nil {
			log.Errorf("list entries, load settings for trainee %d: %s", id, err)
		}
		weightUnit = settings.DisplayUnit
	}
	if lengthUnit == "" {
		lengthUnit = progress.Centimeters
	}

	entries, err := handler.service.ListEntries(ctx, id, kind)
	if err != nil {
		log.Errorf("failed to list progress entries for trainee %d: %s", id, err)
		http.Error(w, "failed to get progress entries", http.StatusInternalServerError)
		return
	}

	views := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, e.View(weightUnit, lengthUnit))
	}
	writeJSON(w, views, http.StatusOK)
}

func (handler *Handler) HandleAddEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracking.add_entry")
	defer span.End()

	id, ok := traineeID(w, r)
	if !ok {
		return
	}

	var req EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("add progress entry, unmarshal json params: %s", err)
		http.Error(w, "error, invalid progress entry", http.StatusBadRequest)
		return
	}

	entry, err := handler.service.AddEntry(ctx, id, req)
	if err != nil {
		var validationErrs validation.Errors
		switch {
		case errors.As(err, &validationErrs):
			http.Error(w, "error, "+validationErrs.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrUnknownKind):
			http.Error(w, "error, unknown entry kind", http.StatusBadRequest)
		case errors.Is(err, ErrUnknownTrainee):
			http.Error(w, "trainee not found", http.StatusNotFound)
		default:
			log.Errorf("add progress entry for trainee %d: %s", id, err)
			http.Error(w, "error, failed to add progress entry", http.StatusInternalServerError)
		}
		return
	}

	handler.metrics.CounterProgressEntries.WithLabelValues(string(entry.Kind)).Inc()
	log.Debugf("progress entry added: trainee %d, %s, id %d", id, entry.Kind, entry.ID)
	writeJSON(w, entry, http.StatusCreated)
}

func (handler *Handler) HandleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracking.delete_entry")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "DELETE, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	id, ok := traineeID(w, r)
	if !ok {
		return
	}
	entryID, err := strconv.Atoi(mux.Vars(r)["entryId"])
	if err != nil {
		http.Error(w, "error, entry id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.service.DeleteEntry(ctx, id, entryID); err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			http.Error(w, "progress entry not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete progress entry %d: %s", entryID, err)
		http.Error(w, "error, failed to delete progress entry", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracking.summary")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	id, ok := traineeID(w, r)
	if !ok {
		return
	}
	weightUnit, lengthUnit, err := displayUnits(r)
	if err != nil {
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		return
	}

	summary, err := handler.service.Summary(ctx, id, weightUnit, lengthUnit)
	if err != nil {
		log.Errorf("progress summary for trainee %d: %s", id, err)
		http.Error(w, "error, failed to build progress summary", http.StatusInternalServerError)
		return
	}

	writeJSON(w, summary, http.StatusOK)
}

func (handler *Handler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracking.get_settings")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, PUT, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	id, ok := traineeID(w, r)
	if !ok {
		return
	}

	settings, err := handler.service.Settings(ctx, id)
	if err != nil {
		log.Errorf("load progress settings for trainee %d: %s", id, err)
		http.Error(w, "error, failed to load settings", http.StatusInternalServerError)
		return
	}

	writeJSON(w, newSettingsResponse(settings), http.StatusOK)
}

func (handler *Handler) HandleSaveSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracking.save_settings")
	defer span.End()

	id, ok := traineeID(w, r)
	if !ok {
		return
	}

	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("save progress settings, unmarshal json params: %s", err)
		http.Error(w, "error, invalid settings", http.StatusBadRequest)
		return
	}

	unit, err := progress.ParseWeightUnit(req.DisplayUnit)
	if err != nil {
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		return
	}
	settings := prefs.ProgressSettings{DisplayUnit: unit}
	if req.GoalWeight != nil {
		if *req.GoalWeight <= 0 {
			http.Error(w, "error, goal weight must be positive", http.StatusBadRequest)
			return
		}
		goalKg := progress.ToKg(*req.GoalWeight, unit)
		settings.GoalWeightKg = &goalKg
	}

	if err := handler.service.SaveSettings(ctx, id, settings); err != nil {
		log.Errorf("save progress settings for trainee %d: %s", id, err)
		http.Error(w, "error, failed to save settings", http.StatusInternalServerError)
		return
	}

	writeJSON(w, newSettingsResponse(settings), http.StatusOK)
}

func (handler *Handler) HandleListPhotos(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracking.list_photos")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, POST, DELETE, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	id, ok := traineeID(w, r)
	if !ok {
		return
	}

	photos, err := handler.service.ListPhotos(ctx, id)
	if err != nil {
		log.Errorf("list progress photos for trainee %d: %s", id, err)
		http.Error(w, "error, failed to list photos", http.StatusInternalServerError)
		return
	}

	writeJSON(w, photos, http.StatusOK)
}

func (handler *Handler) HandleUploadPhotos(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracking.upload_photos")
	defer span.End()

	id, ok := traineeID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, media.MaxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		log.Errorf("upload progress photos, parse multipart form: %s", err)
		http.Error(w, "upload failed, bad form or files too big", http.StatusBadRequest)
		return
	}

	uploaded, err := handler.service.UploadPhotos(ctx, id, r.MultipartForm.File["files"])
	for _, obj := range uploaded {
		handler.metrics.CounterUploads.WithLabelValues("progress_photo").Inc()
		handler.metrics.HistogramUploadSize.Observe(float64(obj.Size))
	}
	if err != nil {
		if errors.Is(err, ErrNoFilesToUpload) {
			http.Error(w, "error, no files to upload", http.StatusBadRequest)
			return
		}
		log.Errorf("upload progress photos for trainee %d: %s", id, err)
		http.Error(w, "error, failed to upload photos", http.StatusInternalServerError)
		return
	}

	writeJSON(w, uploaded, http.StatusCreated)
}

func (handler *Handler) HandleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracking.delete_photo")
	defer span.End()

	id, ok := traineeID(w, r)
	if !ok {
		return
	}

	key := r.URL.Query().Get("path")
	if err := handler.service.DeletePhoto(ctx, id, key); err != nil {
		switch {
		case errors.Is(err, ErrInvalidPhotoPath):
			http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		case errors.Is(err, media.ErrObjectNotFound):
			http.Error(w, "photo not found", http.StatusNotFound)
		default:
			log.Errorf("delete progress photo [%s]: %s", key, err)
			http.Error(w, "error, failed to delete photo", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	respJson, err := json.Marshal(v)
	if err != nil {
		log.Errorf("failed to marshal progress response: %s", err)
		http.Error(w, "error, marshal response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, status)
}
