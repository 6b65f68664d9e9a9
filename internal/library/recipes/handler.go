package recipes

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

type recipeResponse struct {
	*Recipe
	DescriptionHTML string `json:"descriptionHtml"`
}

type uploadedImageResponse struct {
	ImageURL string `json:"imageUrl"`
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
	recipesRouter := mainRouter.PathPrefix("/recipes").Subrouter()
	recipesRouter.HandleFunc("", handler.HandleList).Methods("GET", "OPTIONS").Name("list-recipes")
	recipesRouter.HandleFunc("", handler.HandleCreate).Methods("POST").Name("create-recipe")
	recipesRouter.HandleFunc("/{id:[0-9]+}", handler.HandleUpdate).Methods("PATCH", "OPTIONS").Name("update-recipe")
	recipesRouter.HandleFunc("/{id:[0-9]+}", handler.HandleDelete).Methods("DELETE").Name("delete-recipe")
	recipesRouter.HandleFunc("/{id:[0-9]+}/image", handler.HandleUploadImage).Methods("POST", "OPTIONS").Name("upload-recipe-image")
	recipesRouter.HandleFunc("/{id:[0-9]+}/album", handler.HandleListAlbum).Methods("GET", "OPTIONS").Name("list-recipe-album")
	recipesRouter.HandleFunc("/{id:[0-9]+}/album", handler.HandleUploadAlbum).Methods("POST").Name("upload-recipe-album")
	recipesRouter.HandleFunc("/{id:[0-9]+}/album", handler.HandleDeleteAlbumImage).Methods("DELETE").Name("delete-recipe-album-image")
	recipesRouter.HandleFunc("/{slug}/view", handler.HandleView).Methods("GET").Name("view-recipe")
	recipesRouter.HandleFunc("/{slug}", handler.HandleGet).Methods("GET").Name("get-recipe")
}

func recipeID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.recipes.list")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	recipes, err := handler.service.List(ctx)
	if err != nil {
		log.Errorf("failed to list recipes: %s", err)
		http.Error(w, "failed to get recipes", http.StatusInternalServerError)
		return
	}

	writeJSON(w, recipes, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.recipes.get")
	defer span.End()

	recipe, err := handler.service.GetBySlug(ctx, mux.Vars(r)["slug"])
	if err != nil {
		writeServiceError(w, err, "get recipe")
		return
	}

	resp := recipeResponse{Recipe: recipe}
	if recipe.Description != nil {
		resp.DescriptionHTML = markdown.Render(*recipe.Description)
		handler.metrics.CounterMarkdownRenders.Inc()
	}

	writeJSON(w, resp, http.StatusOK)
}

func (handler *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.recipes.view")
	defer span.End()

	view, err := handler.service.View(ctx, mux.Vars(r)["slug"])
	if err != nil {
		writeServiceError(w, err, "view recipe")
		return
	}
	if view.Description != nil {
		handler.metrics.CounterMarkdownRenders.Inc()
	}

	writeJSON(w, view, http.StatusOK)
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.recipes.create")
	defer span.End()

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("create recipe, unmarshal json params: %s", err)
		http.Error(w, "error, invalid recipe", http.StatusBadRequest)
		return
	}

	recipe, err := handler.service.Create(ctx, req)
	if err != nil {
		writeServiceError(w, err, "create recipe")
		return
	}

	log.Debugf("new recipe added: %d [%s]", recipe.ID, recipe.Slug)
	writeJSON(w, recipe, http.StatusCreated)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.recipes.update")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "PATCH, DELETE, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	id, ok := recipeID(w, r)
	if !ok {
		return
	}

	var patch Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Errorf("update recipe, unmarshal json params: %s", err)
		http.Error(w, "error, invalid recipe patch", http.StatusBadRequest)
		return
	}

	recipe, err := handler.service.Update(ctx, id, patch)
	if err != nil {
		writeServiceError(w, err, "update recipe")
		return
	}

	writeJSON(w, recipe, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.recipes.delete")
	defer span.End()

	id, ok := recipeID(w, r)
	if !ok {
		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		writeServiceError(w, err, "delete recipe")
		return
	}

	log.Debugf("recipe deleted: %d", id)
	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.recipes.upload_image")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	id, ok := recipeID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, media.MaxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		log.Errorf("upload recipe image, parse multipart form: %s", err)
		http.Error(w, "upload image failed, bad form or file too big", http.StatusBadRequest)
		return
	}
	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		http.Error(w, "upload image failed, image missing", http.StatusBadRequest)
		return
	}

	imageURL, err := handler.service.UploadImage(ctx, id, files[0])
	if err != nil {
		if errors.Is(err, ErrImageURLNotSaved) {
			log.Errorf("upload image for recipe %d: %s", id, err)
			http.Error(w, ErrImageURLNotSaved.Error(), http.StatusInternalServerError)
			return
		}
		writeServiceError(w, err, "upload image")
		return
	}

	handler.metrics.CounterUploads.WithLabelValues("recipe_image").Inc()
	handler.metrics.HistogramUploadSize.Observe(float64(files[0].Size))

	writeJSON(w, uploadedImageResponse{ImageURL: imageURL}, http.StatusCreated)
}

func (handler *Handler) HandleListAlbum(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.recipes.list_album")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, POST, DELETE, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	id, ok := recipeID(w, r)
	if !ok {
		return
	}

	album, err := handler.service.ListAlbum(ctx, id)
	if err != nil {
		writeServiceError(w, err, "list album")
		return
	}

	writeJSON(w, album, http.StatusOK)
}

func (handler *Handler) HandleUploadAlbum(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.recipes.upload_album")
	defer span.End()

	id, ok := recipeID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, media.MaxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		log.Errorf("upload album, parse multipart form: %s", err)
		http.Error(w, "upload album failed, bad form or files too big", http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["files"]
	uploaded, err := handler.service.UploadAlbumImages(ctx, id, files)
	for _, obj := range uploaded {
		handler.metrics.CounterUploads.WithLabelValues("recipe_album").Inc()
		handler.metrics.HistogramUploadSize.Observe(float64(obj.Size))
	}
	if err != nil {
		if errors.Is(err, ErrNoFilesToUpload) {
			http.Error(w, "error, no files to upload", http.StatusBadRequest)
			return
		}
		writeServiceError(w, err, "upload album")
		return
	}

	writeJSON(w, uploaded, http.StatusCreated)
}

func (handler *Handler) HandleDeleteAlbumImage(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.recipes.delete_album_image")
	defer span.End()

	id, ok := recipeID(w, r)
	if !ok {
		return
	}

	key := r.URL.Query().Get("path")
	if err := handler.service.DeleteAlbumImage(ctx, id, key); err != nil {
		switch {
		case errors.Is(err, ErrInvalidAlbumPath):
			http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		case errors.Is(err, media.ErrObjectNotFound):
			http.Error(w, "image not found", http.StatusNotFound)
		default:
			log.Errorf("delete album image [%s]: %s", key, err)
			http.Error(w, "error, failed to delete image", http.StatusInternalServerError)
		}
		return
	}

	log.Debugf("album image deleted: %s", key)
	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, err error, action string) {
	var validationErrs validation.Errors
	switch {
	case errors.As(err, &validationErrs):
		http.Error(w, "error, "+validationErrs.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrRecipeNotFound):
		http.Error(w, "recipe not found", http.StatusNotFound)
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
		log.Errorf("failed to marshal recipes response: %s", err)
		http.Error(w, "error, marshal response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, status)
}
