package trainees

import (
	"regexp"
	"strings"
	"time"

	"github.com/SoroushGhorbanimehr/tigo-app/pkg"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type Trainee struct {
	ID           int       `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *RegisterRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = NormalizeEmail(r.Email)
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Required, validation.Length(1, 120)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), validation.Match(emailRe)),
		validation.Field(&r.Password, validation.Required, validation.Length(6, pkg.MaxPasswordLength)),
	)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
