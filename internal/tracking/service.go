package tracking

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"sort"
	"strings"
	"time"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/media"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/prefs"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/progress"
)

const photosListLimit = 200

var (
	ErrInvalidPhotoPath = errors.New("invalid photo path for trainee")
	ErrNoFilesToUpload  = errors.New("no files to upload")
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=tracking_test
type entriesRepo interface {
	Add(ctx context.Context, entry Entry) (*Entry, error)
	List(ctx context.Context, traineeID int, kind Kind) ([]Entry, error)
	Delete(ctx context.Context, traineeID, id int) error
}

// StrengthBest is the best estimated one rep max seen for one exercise.
type StrengthBest struct {
	Exercise     string    `json:"exercise"`
	Estimated1RM float64   `json:"estimated1rm"`
	Weight       float64   `json:"weight"`
	Reps         int       `json:"reps"`
	RecordedAt   time.Time `json:"recordedAt"`
}

// Summary is the progress dashboard for one trainee, in display units.
type Summary struct {
	WeightUnit   progress.WeightUnit         `json:"weightUnit"`
	LengthUnit   progress.LengthUnit         `json:"lengthUnit"`
	Weight       progress.Summary            `json:"weight"`
	Measurements map[string]progress.Summary `json:"measurements"`
	Strength     []StrengthBest              `json:"strength"`
}

type Service struct {
	repo  entriesRepo
	prefs prefs.Repository
	store media.Store
	now   func() time.Time
}

func NewService(repo entriesRepo, prefsRepo prefs.Repository, store media.Store) *Service {
	return &Service{
		repo:  repo,
		prefs: prefsRepo,
		store: store,
		now:   time.Now,
	}
}

func photosPrefix(traineeID int) string {
	return fmt.Sprintf("progress/%d", traineeID)
}

func (s *Service) AddEntry(ctx context.Context, traineeID int, req EntryRequest) (*Entry, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Add(ctx, req.ToEntry(traineeID, s.now()))
}

func (s *Service) ListEntries(ctx context.Context, traineeID int, kind Kind) ([]Entry, error) {
	return s.repo.List(ctx, traineeID, kind)
}

func (s *Service) DeleteEntry(ctx context.Context, traineeID, id int) error {
	return s.repo.Delete(ctx, traineeID, id)
}

func (s *Service) Settings(ctx context.Context, traineeID int) (prefs.ProgressSettings, error) {
	return prefs.LoadProgressSettings(ctx, s.prefs, traineeID)
}

func (s *Service) SaveSettings(ctx context.Context, traineeID int, settings prefs.ProgressSettings) error {
	return prefs.SaveProgressSettings(ctx, s.prefs, traineeID, settings)
}

// Summary composes weight, per site measurement and strength statistics.
// An empty weightUnit falls back to the trainee's display unit setting.
func (s *Service) Summary(
	ctx context.Context,
	traineeID int,
	weightUnit progress.WeightUnit,
	lengthUnit progress.LengthUnit,
) (*Summary, error) {
	settings, err := s.Settings(ctx, traineeID)
	if err != nil {
		return nil, fmt.Errorf("load progress settings: %w", err)
	}
	if weightUnit == "" {
		weightUnit = settings.DisplayUnit
	}
	if lengthUnit == "" {
		lengthUnit = progress.Centimeters
	}

	entries, err := s.repo.List(ctx, traineeID, "")
	if err != nil {
		return nil, err
	}

	return Summarize(entries, settings.GoalWeightKg, weightUnit, lengthUnit, s.now()), nil
}

// Summarize builds the dashboard from canonical entries. goalKg may be nil.
func Summarize(
	entries []Entry,
	goalKg *float64,
	weightUnit progress.WeightUnit,
	lengthUnit progress.LengthUnit,
	now time.Time,
) *Summary {
	var weights []progress.Sample
	sites := map[string][]progress.Sample{}
	best := map[string]StrengthBest{}

	for _, e := range entries {
		switch e.Kind {
		case KindWeight:
			weights = append(weights, e.Sample())
		case KindMeasurement:
			sites[e.Site] = append(sites[e.Site], e.Sample())
		case KindStrength:
			key := strings.ToLower(e.Exercise)
			e1rm := progress.Epley1RM(e.Value, e.Reps)
			if current, ok := best[key]; !ok || e1rm > current.Estimated1RM {
				best[key] = StrengthBest{
					Exercise:     e.Exercise,
					Estimated1RM: e1rm,
					Weight:       e.Value,
					Reps:         e.Reps,
					RecordedAt:   e.RecordedAt,
				}
			}
		}
	}

	toWeight := func(kg float64) float64 { return progress.FromKg(kg, weightUnit) }
	toLength := func(cm float64) float64 { return progress.FromCm(cm, lengthUnit) }

	summary := &Summary{
		WeightUnit:   weightUnit,
		LengthUnit:   lengthUnit,
		Weight:       progress.Summarize(weights, goalKg, now).Map(toWeight),
		Measurements: make(map[string]progress.Summary, len(sites)),
		Strength:     make([]StrengthBest, 0, len(best)),
	}
	for site, samples := range sites {
		summary.Measurements[site] = progress.Summarize(samples, nil, now).Map(toLength)
	}
	for _, b := range best {
		b.Estimated1RM = toWeight(b.Estimated1RM)
		b.Weight = toWeight(b.Weight)
		summary.Strength = append(summary.Strength, b)
	}
	sort.Slice(summary.Strength, func(i, j int) bool {
		return summary.Strength[i].Exercise < summary.Strength[j].Exercise
	})

	return summary
}

func (s *Service) ListPhotos(ctx context.Context, traineeID int) ([]media.Object, error) {
	return s.store.List(ctx, photosPrefix(traineeID), photosListLimit)
}

func (s *Service) UploadPhotos(ctx context.Context, traineeID int, files []*multipart.FileHeader) ([]media.Object, error) {
	if len(files) == 0 {
		return nil, ErrNoFilesToUpload
	}

	uploaded := make([]media.Object, 0, len(files))
	for _, fileHeader := range files {
		obj, err := media.SaveUpload(ctx, s.store, photosPrefix(traineeID), fileHeader)
		if err != nil {
			return uploaded, fmt.Errorf("store progress photo [%s]: %w", fileHeader.Filename, err)
		}
		uploaded = append(uploaded, obj)
	}

	return uploaded, nil
}

func (s *Service) DeletePhoto(ctx context.Context, traineeID int, key string) error {
	if !strings.HasPrefix(key, photosPrefix(traineeID)+"/") || media.ValidateKey(key) != nil {
		return ErrInvalidPhotoPath
	}
	return s.store.Delete(ctx, key)
}
