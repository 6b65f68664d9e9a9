package library

import (
	"encoding/json"
	"net/http"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/markdown"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/telemetry/metrics"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/telemetry/tracing"
	"github.com/SoroushGhorbanimehr/tigo-app/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const maxMarkdownSize = 1 << 20

type renderRequest struct {
	Markdown string `json:"markdown"`
}

type renderResponse struct {
	HTML string `json:"html"`
}

// MarkdownHandler previews Markdown the same way stored descriptions and
// notes are rendered.
type MarkdownHandler struct {
	metrics *metrics.Manager
}

func NewMarkdownHandler(metricsManager *metrics.Manager) *MarkdownHandler {
	return &MarkdownHandler{
		metrics: metricsManager,
	}
}

func (handler *MarkdownHandler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/markdown/render", handler.HandleRender).Methods("POST", "OPTIONS").Name("render-markdown")
}

func (handler *MarkdownHandler) HandleRender(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.markdown.render")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var req renderRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMarkdownSize)).Decode(&req); err != nil {
		log.Errorf("render markdown, unmarshal json params: %s", err)
		http.Error(w, "error, invalid markdown request", http.StatusBadRequest)
		return
	}

	handler.metrics.CounterMarkdownRenders.Inc()

	respJson, err := json.Marshal(renderResponse{HTML: markdown.Render(req.Markdown)})
	if err != nil {
		log.Errorf("render markdown, marshal response: %s", err)
		http.Error(w, "error, render markdown", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}
