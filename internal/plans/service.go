package plans

import (
	"context"
	"errors"
	"time"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=plans_test
type plansRepo interface {
	GetDailyPlan(ctx context.Context, traineeID int, date time.Time) (*DailyPlan, error)
	UpsertDailyPlan(ctx context.Context, plan DailyPlan, date time.Time) (*DailyPlan, error)
	LoadNotes(ctx context.Context, traineeID int) (map[string]string, error)
	SaveNote(ctx context.Context, traineeID int, date time.Time, note string) error
}

type Service struct {
	repo plansRepo
}

func NewService(repo plansRepo) *Service {
	return &Service{
		repo: repo,
	}
}

// GetDailyPlan never reports a missing plan, the trainee just gets an empty day.
func (s *Service) GetDailyPlan(ctx context.Context, traineeID int, date string) (*DailyPlan, error) {
	d, err := ParseDate(date)
	if err != nil {
		return nil, err
	}

	plan, err := s.repo.GetDailyPlan(ctx, traineeID, d)
	if errors.Is(err, ErrPlanNotFound) {
		return &DailyPlan{TraineeID: traineeID, Date: d.Format(DateLayout)}, nil
	}
	if err != nil {
		return nil, err
	}

	return plan, nil
}

func (s *Service) UpsertDailyPlan(ctx context.Context, plan DailyPlan) (*DailyPlan, error) {
	d, err := ParseDate(plan.Date)
	if err != nil {
		return nil, err
	}
	return s.repo.UpsertDailyPlan(ctx, plan, d)
}

func (s *Service) LoadNotes(ctx context.Context, traineeID int) (map[string]string, error) {
	return s.repo.LoadNotes(ctx, traineeID)
}

func (s *Service) SaveNote(ctx context.Context, traineeID int, date, note string) error {
	d, err := ParseDate(date)
	if err != nil {
		return err
	}
	return s.repo.SaveNote(ctx, traineeID, d, note)
}
