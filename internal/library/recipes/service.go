package recipes

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/library"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/markdown"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/media"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	log "github.com/sirupsen/logrus"
)

var (
	ErrImageURLNotSaved = errors.New("image uploaded to storage, but saving image url failed")
	ErrInvalidAlbumPath = errors.New("invalid image path for recipe")
	ErrNoFilesToUpload  = errors.New("no files to upload")
)

const (
	slugFallbackPrefix = "rcp"
	albumListLimit     = 100
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=recipes_test
type recipesRepo interface {
	List(ctx context.Context) ([]Recipe, error)
	Get(ctx context.Context, id int) (*Recipe, error)
	GetBySlug(ctx context.Context, slug string) (*Recipe, error)
	Add(ctx context.Context, recipe *Recipe) (*Recipe, error)
	Update(ctx context.Context, id int, patch Patch) (*Recipe, error)
	SetImageURL(ctx context.Context, id int, url string) error
	Delete(ctx context.Context, id int) error
}

type Service struct {
	repo  recipesRepo
	store media.Store
	now   func() time.Time
}

func NewService(repo recipesRepo, store media.Store) *Service {
	return &Service{
		repo:  repo,
		store: store,
		now:   time.Now,
	}
}

func albumPrefix(recipeID int) string {
	return fmt.Sprintf("recipes/%d/album", recipeID)
}

func (s *Service) List(ctx context.Context) ([]Recipe, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*Recipe, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Recipe, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	recipe := &Recipe{
		Title:       req.Title,
		Slug:        library.SlugOr(req.Title, slugFallbackPrefix, s.now()),
		Description: optional(req.Description),
	}

	added, err := s.repo.Add(ctx, recipe)
	if errors.Is(err, library.ErrSlugTaken) {
		log.Debugf("recipe slug [%s] taken, retrying", recipe.Slug)
		recipe.Slug = library.RetrySlug(recipe.Slug)
		added, err = s.repo.Add(ctx, recipe)
	}
	if err != nil {
		return nil, err
	}

	return added, nil
}

func (s *Service) Update(ctx context.Context, id int, patch Patch) (*Recipe, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if patch.Slug != nil {
		slug := library.Slugify(*patch.Slug)
		if slug == "" {
			return nil, validation.Errors{"slug": errors.New("slug must contain letters or digits")}
		}
		patch.Slug = &slug
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// UploadImage stores the cover image under recipes/{id}/ and saves its public
// URL on the recipe.
func (s *Service) UploadImage(ctx context.Context, id int, fileHeader *multipart.FileHeader) (string, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return "", err
	}

	obj, err := media.SaveUpload(ctx, s.store, fmt.Sprintf("recipes/%d", id), fileHeader)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}

	if err := s.repo.SetImageURL(ctx, id, obj.URL); err != nil {
		return "", fmt.Errorf("%w: %w", ErrImageURLNotSaved, err)
	}

	return obj.URL, nil
}

func (s *Service) ListAlbum(ctx context.Context, id int) ([]media.Object, error) {
	return s.store.List(ctx, albumPrefix(id), albumListLimit)
}

// UploadAlbumImages stores every file in order. It stops at the first failure
// and returns what was stored so far along with the error.
func (s *Service) UploadAlbumImages(ctx context.Context, id int, files []*multipart.FileHeader) ([]media.Object, error) {
	if len(files) == 0 {
		return nil, ErrNoFilesToUpload
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}

	uploaded := make([]media.Object, 0, len(files))
	for _, fileHeader := range files {
		obj, err := media.SaveUpload(ctx, s.store, albumPrefix(id), fileHeader)
		if err != nil {
			return uploaded, fmt.Errorf("store album image [%s]: %w", fileHeader.Filename, err)
		}
		uploaded = append(uploaded, obj)
	}

	return uploaded, nil
}

// DeleteAlbumImage removes one album image. Keys outside the recipe's album
// are rejected.
func (s *Service) DeleteAlbumImage(ctx context.Context, id int, key string) error {
	if !strings.HasPrefix(key, albumPrefix(id)+"/") || media.ValidateKey(key) != nil {
		return ErrInvalidAlbumPath
	}
	return s.store.Delete(ctx, key)
}

// View renders the recipe page: the description as HTML and split into
// sections, inline image URLs and the album.
func (s *Service) View(ctx context.Context, slug string) (*View, error) {
	recipe, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	view := &View{
		Recipe: *recipe,
		Images: []string{},
	}
	if recipe.Description != nil {
		description := *recipe.Description
		sections := markdown.Sections(description)
		view.DescriptionHTML = markdown.Render(description)
		view.Sections = Sections{
			Ingredients: markdown.Render(sections.Ingredients),
			Steps:       markdown.Render(sections.Steps),
			Rest:        markdown.Render(sections.Rest),
		}
		if urls := markdown.ImageURLs(description); len(urls) > 0 {
			view.Images = urls
		}
	}

	album, err := s.ListAlbum(ctx, recipe.ID)
	if err != nil {
		log.Errorf("recipe view [%s], list album: %s", slug, err)
		album = []media.Object{}
	}
	view.Album = album

	return view, nil
}
