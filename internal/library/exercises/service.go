package exercises

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/library"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/media"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	log "github.com/sirupsen/logrus"
)

// ErrVideoURLNotSaved means the object store has the file but the exercise row
// does not point at it.
var ErrVideoURLNotSaved = errors.New("video uploaded to storage, but saving video url failed")

const (
	slugFallbackPrefix = "ex"
	defaultVideoExt    = ".mp4"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=exercises_test
type exercisesRepo interface {
	List(ctx context.Context) ([]Exercise, error)
	Get(ctx context.Context, id int) (*Exercise, error)
	GetBySlug(ctx context.Context, slug string) (*Exercise, error)
	Add(ctx context.Context, exercise *Exercise) (*Exercise, error)
	Update(ctx context.Context, id int, patch Patch) (*Exercise, error)
	SetVideoURL(ctx context.Context, id int, url string) error
}

type Service struct {
	repo  exercisesRepo
	store media.Store
	now   func() time.Time
}

func NewService(repo exercisesRepo, store media.Store) *Service {
	return &Service{
		repo:  repo,
		store: store,
		now:   time.Now,
	}
}

func (s *Service) List(ctx context.Context) ([]Exercise, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*Exercise, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// Create derives the slug from the title and retries once with a random
// suffix when the slug is already used.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Exercise, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exercise := &Exercise{
		Title:       req.Title,
		Slug:        library.SlugOr(req.Title, slugFallbackPrefix, s.now()),
		MuscleGroup: optional(req.MuscleGroup),
		Equipment:   optional(req.Equipment),
		Description: optional(req.Description),
	}

	added, err := s.repo.Add(ctx, exercise)
	if errors.Is(err, library.ErrSlugTaken) {
		log.Debugf("exercise slug [%s] taken, retrying", exercise.Slug)
		exercise.Slug = library.RetrySlug(exercise.Slug)
		added, err = s.repo.Add(ctx, exercise)
	}
	if err != nil {
		return nil, err
	}

	return added, nil
}

func (s *Service) Update(ctx context.Context, id int, patch Patch) (*Exercise, error) {
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

// UploadVideo stores the video under exercises/{id}/ and saves its public URL
// on the exercise.
func (s *Service) UploadVideo(
	ctx context.Context,
	id int,
	filename string,
	contentType string,
	size int64,
	file io.Reader,
) (string, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return "", err
	}

	if !media.IsVideo(filename) {
		filename += defaultVideoExt
	}

	obj, err := s.store.Put(
		ctx,
		media.NewKey(fmt.Sprintf("exercises/%d", id), filename),
		file,
		size,
		media.ContentType(contentType, filename),
	)
	if err != nil {
		return "", fmt.Errorf("store video: %w", err)
	}

	if err := s.repo.SetVideoURL(ctx, id, obj.URL); err != nil {
		return "", fmt.Errorf("%w: %w", ErrVideoURLNotSaved, err)
	}

	return obj.URL, nil
}
