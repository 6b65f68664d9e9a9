package trainees

import (
	"context"
	"errors"

	"github.com/SoroushGhorbanimehr/tigo-app/pkg"
)

var ErrWrongCredentials = errors.New("wrong credentials")

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=trainees_test
type traineesRepo interface {
	Add(ctx context.Context, trainee *Trainee) (*Trainee, error)
	Get(ctx context.Context, id int) (*Trainee, error)
	GetByEmail(ctx context.Context, email string) (*Trainee, error)
	List(ctx context.Context) ([]Trainee, error)
}

type Service struct {
	repo traineesRepo
}

func NewService(repo traineesRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Trainee, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := pkg.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	return s.repo.Add(ctx, &Trainee{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: hash,
	})
}

func (s *Service) List(ctx context.Context) ([]Trainee, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int) (*Trainee, error) {
	return s.repo.Get(ctx, id)
}

// Authenticate returns ErrWrongCredentials both for unknown emails and bad passwords.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Trainee, error) {
	trainee, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrTraineeNotFound) {
			return nil, ErrWrongCredentials
		}
		return nil, err
	}
	if !pkg.CheckPasswordHash(password, trainee.PasswordHash) {
		return nil, ErrWrongCredentials
	}
	return trainee, nil
}
