package media

import (
	"errors"
	"mime"
	"net/http"
	"path"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/telemetry/tracing"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// FileHandler serves objects kept by a DiskStore under GET /media/{key}.
type FileHandler struct {
	store *DiskStore
}

func NewFileHandler(store *DiskStore) *FileHandler {
	return &FileHandler{
		store: store,
	}
}

func (handler *FileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.media.get")
	defer span.End()

	key := mux.Vars(r)["key"]
	span.SetAttributes(attribute.String("object.key", key))

	f, err := handler.store.Open(key)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidKey):
			http.Error(w, "invalid path", http.StatusBadRequest)
		case errors.Is(err, ErrObjectNotFound):
			http.Error(w, "not found", http.StatusNotFound)
		default:
			log.Errorf("media: open %s: %s", key, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		log.Errorf("media: stat %s: %s", key, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", cacheControl)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if !IsInlineMedia(key) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": path.Base(key)}))
	}
	http.ServeContent(w, r, path.Base(key), stat.ModTime(), f)
}
