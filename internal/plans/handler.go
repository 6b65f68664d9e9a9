package plans

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/auth"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/markdown"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/telemetry/metrics"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/telemetry/tracing"
	"github.com/SoroushGhorbanimehr/tigo-app/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type planRequest struct {
	CoachNote string `json:"coachNote"`
	Program   string `json:"program"`
	Meal      string `json:"meal"`
}

type noteRequest struct {
	Note string `json:"note"`
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
	traineeRouter := mainRouter.PathPrefix("/trainees/{id:[0-9]+}").Subrouter()
	traineeRouter.HandleFunc("/plans/{date}", handler.HandleGetPlan).Methods("GET", "OPTIONS").Name("get-daily-plan")
	traineeRouter.HandleFunc("/plans/{date}", handler.HandleUpsertPlan).Methods("PUT").Name("upsert-daily-plan")
	traineeRouter.HandleFunc("/notes", handler.HandleLoadNotes).Methods("GET", "OPTIONS").Name("load-notes")
	traineeRouter.HandleFunc("/notes/{date}", handler.HandleSaveNote).Methods("PUT", "OPTIONS").Name("save-note")
}

func traineeID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, trainee id NaN", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (handler *Handler) HandleGetPlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.get")
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

	plan, err := handler.service.GetDailyPlan(ctx, id, mux.Vars(r)["date"])
	if err != nil {
		writeServiceError(w, err, "get daily plan")
		return
	}

	handler.metrics.CounterMarkdownRenders.Add(3)
	writeJSON(w, NewPlanView(*plan), http.StatusOK)
}

// HandleUpsertPlan is for the coach only, trainees read their plans.
func (handler *Handler) HandleUpsertPlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.upsert")
	defer span.End()

	if !auth.SessionFromContext(ctx).IsTrainer() {
		http.Error(w, "only the trainer can change plans", http.StatusForbidden)
		return
	}

	id, ok := traineeID(w, r)
	if !ok {
		return
	}

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("upsert daily plan, unmarshal json params: %s", err)
		http.Error(w, "error, invalid plan", http.StatusBadRequest)
		return
	}

	plan, err := handler.service.UpsertDailyPlan(ctx, DailyPlan{
		TraineeID: id,
		Date:      mux.Vars(r)["date"],
		CoachNote: req.CoachNote,
		Program:   req.Program,
		Meal:      req.Meal,
	})
	if err != nil {
		writeServiceError(w, err, "save daily plan")
		return
	}

	log.Debugf("daily plan saved: trainee %d, %s", plan.TraineeID, plan.Date)
	handler.metrics.CounterMarkdownRenders.Add(3)
	writeJSON(w, NewPlanView(*plan), http.StatusOK)
}

func (handler *Handler) HandleLoadNotes(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.load_notes")
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

	notes, err := handler.service.LoadNotes(ctx, id)
	if err != nil {
		writeServiceError(w, err, "load notes")
		return
	}

	// ?html=true adds the rendered notes next to the raw map
	if r.URL.Query().Get("html") != "true" {
		writeJSON(w, notes, http.StatusOK)
		return
	}

	rendered := make(map[string]NoteView, len(notes))
	for date, note := range notes {
		rendered[date] = NoteView{Date: date, Note: note, NoteHTML: markdown.Render(note)}
	}
	handler.metrics.CounterMarkdownRenders.Add(float64(len(notes)))
	writeJSON(w, rendered, http.StatusOK)
}

func (handler *Handler) HandleSaveNote(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.save_note")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "PUT, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	id, ok := traineeID(w, r)
	if !ok {
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("save note, unmarshal json params: %s", err)
		http.Error(w, "error, invalid note", http.StatusBadRequest)
		return
	}

	date := mux.Vars(r)["date"]
	if err := handler.service.SaveNote(ctx, id, date, req.Note); err != nil {
		writeServiceError(w, err, "save note")
		return
	}

	handler.metrics.CounterMarkdownRenders.Inc()
	writeJSON(w, NoteView{Date: date, Note: req.Note, NoteHTML: markdown.Render(req.Note)}, http.StatusOK)
}

func writeServiceError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, ErrInvalidDate):
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrUnknownTrainee):
		http.Error(w, "trainee not found", http.StatusNotFound)
	default:
		log.Errorf("%s: %s", action, err)
		http.Error(w, "error, failed to "+action, http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	respJson, err := json.Marshal(v)
	if err != nil {
		log.Errorf("failed to marshal plans response: %s", err)
		http.Error(w, "error, marshal response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, status)
}
