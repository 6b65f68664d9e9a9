package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/SoroushGhorbanimehr/tigo-app/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	TokenHeader      = "X-TIGO-TOKEN"
	sessionKeyPrefix = "tigo-session||"
	tokensSetKey     = "tigo-sessions"
	tokenLength      = 35
)

var (
	ErrWrongCredentials = errors.New("wrong credentials")
	ErrSessionNotFound  = errors.New("session not found")
)

type Role string

const (
	RoleTrainer Role = "trainer"
	RoleTrainee Role = "trainee"
)

type Trainer struct {
	Username     string
	PasswordHash string
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Session struct {
	Token     string    `json:"-"`
	Role      Role      `json:"role"`
	TraineeID int       `json:"traineeId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Session) IsTrainer() bool {
	return s != nil && s.Role == RoleTrainer
}

type Service struct {
	trainer     *Trainer
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewAuthService(
	trainer *Trainer,
	ttl time.Duration,
	redisClient *redis.Client,
) *Service {
	return &Service{
		trainer:        trainer,
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

// LoginTrainer checks the coach credentials and opens a trainer session.
func (as *Service) LoginTrainer(ctx context.Context, creds Credentials, createdAt time.Time) (string, error) {
	if as.trainer == nil || as.trainer.PasswordHash == "" {
		return "", ErrWrongCredentials
	}
	if creds.Username != as.trainer.Username {
		log.Tracef("[username] failed login attempt for user: %s", creds.Username)
		return "", ErrWrongCredentials
	}
	if !pkg.CheckPasswordHash(creds.Password, as.trainer.PasswordHash) {
		log.Tracef("[password] failed login attempt for user: %s", creds.Username)
		return "", ErrWrongCredentials
	}
	return as.StartSession(ctx, RoleTrainer, 0, createdAt)
}

// StartSession stores a new session and returns its token. Trainee credentials are
// checked by the caller.
func (as *Service) StartSession(ctx context.Context, role Role, traineeID int, createdAt time.Time) (string, error) {
	token, err := as.RandStringFunc(tokenLength)
	if err != nil {
		return "", err
	}

	sessionKey := sessionKeyPrefix + token
	cmdSet := as.redisClient.HSet(ctx, sessionKey,
		"createdAt", createdAt.Unix(),
		"role", string(role),
		"traineeId", traineeID,
	)
	if err := cmdSet.Err(); err != nil {
		return "", err
	}

	// add token to list of sessions
	cmdSAdd := as.redisClient.SAdd(ctx, tokensSetKey, token)
	if err := cmdSAdd.Err(); err != nil {
		return "", err
	}

	return token, nil
}

func (as *Service) Logout(ctx context.Context, token string) (bool, error) {
	sessionKey := sessionKeyPrefix + token
	cmdDel := as.redisClient.Del(ctx, sessionKey)
	if err := cmdDel.Err(); err != nil {
		return false, err
	}

	// remove token from the list of sessions
	cmdSRem := as.redisClient.SRem(ctx, tokensSetKey, token)
	if err := cmdSRem.Err(); err != nil {
		return false, err
	}

	return cmdDel.Val() > 0, nil
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old.
// Returns the number of removed sessions.
func (as *Service) ScanAndClean(ctx context.Context) int {
	cmd := as.redisClient.SMembers(ctx, tokensSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("!!! auth service, scan and clean, get sessions: %s", err)
		return 0
	}

	sessionTokens := cmd.Val()
	if len(sessionTokens) == 0 {
		log.Debugln("=> auth service, scan and clean abort, no sessions")
		return 0
	}

	log.Debugf("=> auth service, scan and clean [%d sessions] start ...", len(sessionTokens))
	var toRemove []string
	for _, token := range sessionTokens {
		session, err := readSession(ctx, as.redisClient, token)
		if err != nil {
			if errors.Is(err, ErrSessionNotFound) {
				toRemove = append(toRemove, token)
				continue
			}
			log.Errorf("=> auth service, scan and clean token %s: %s", token, err)
			continue
		}

		if time.Since(session.CreatedAt) > as.ttl {
			log.Debugf("=>\twill clean the session with token: %s", token)
			toRemove = append(toRemove, token)
		}
	}

	removed := 0
	for _, token := range toRemove {
		if _, err := as.Logout(ctx, token); err != nil {
			log.Errorf("=> auth service, clean token %s: %s", token, err)
			continue
		}
		removed++
	}

	return removed
}

func readSession(ctx context.Context, rdb *redis.Client, token string) (*Session, error) {
	cmd := rdb.HGetAll(ctx, sessionKeyPrefix+token)
	if err := cmd.Err(); err != nil {
		return nil, err
	}

	fields := cmd.Val()
	if len(fields) == 0 {
		return nil, ErrSessionNotFound
	}

	createdAtUnix, err := strconv.ParseInt(fields["createdAt"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("session created at: %w", err)
	}
	traineeID, err := strconv.Atoi(fields["traineeId"])
	if err != nil {
		return nil, fmt.Errorf("session trainee id: %w", err)
	}

	return &Session{
		Token:     token,
		Role:      Role(fields["role"]),
		TraineeID: traineeID,
		CreatedAt: time.Unix(createdAtUnix, 0),
	}, nil
}
