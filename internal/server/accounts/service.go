// Package accounts implements registration, login and profile management on
// top of an in-memory account store.
package accounts

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/csvdrop/internal/common"
	"github.com/dmitrijs2005/csvdrop/internal/logging"
	"github.com/dmitrijs2005/csvdrop/internal/server/auth"
	"github.com/dmitrijs2005/csvdrop/internal/server/config"
	"github.com/jellydator/validation"
	"golang.org/x/crypto/bcrypt"
)

// maxPasswordLen is the bcrypt input limit.
const maxPasswordLen = 72

var (
	hashPassword = func(password []byte) ([]byte, error) {
		return bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	}
	comparePassword = bcrypt.CompareHashAndPassword
)

type RegisterInput struct {
	UserName string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.UserName, validation.Required),
		validation.Field(&in.Password, validation.Required, validation.Length(1, maxPasswordLen)),
		validation.Field(&in.Role, validation.Required),
	)
}

type LoginInput struct {
	UserName string `json:"username"`
	Password string `json:"password"`
}

func (in LoginInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.UserName, validation.Required),
		validation.Field(&in.Password, validation.Required),
	)
}

// ProfileUpdate lists the fields to overwrite. Empty fields are left alone.
type ProfileUpdate struct {
	UserName string `json:"username"`
	Role     string `json:"role"`
}

type Service struct {
	repo         Repository
	logger       logging.Logger
	jwtSecret    []byte
	sessionTTL   time.Duration
	allowedRoles []string
	dummyHash    []byte
}

func NewService(repo Repository, cfg *config.Config, l logging.Logger) *Service {
	s := &Service{
		repo:         repo,
		logger:       l.With("module", "accounts"),
		jwtSecret:    []byte(cfg.SecretKey),
		sessionTTL:   cfg.SessionTTL,
		allowedRoles: cfg.AllowedRoles,
	}
	// Compared against when the username is unknown so that both login
	// failures cost one bcrypt comparison.
	s.dummyHash, _ = hashPassword(common.GenerateRandByteArray(16))
	return s
}

// Register creates an account and logs it in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.UserName = strings.TrimSpace(in.UserName)
	in.Role = normalizeRole(in.Role)
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	hash, err := hashPassword([]byte(in.Password))
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: password is too long", common.ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: hashing password: %v", common.ErrInternal, err)
	}

	account, err := s.repo.Create(ctx, &Account{
		UserName:     in.UserName,
		PasswordHash: hash,
		Role:         in.Role,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "account registered", "account_id", account.ID, "role", account.Role)

	return s.startSession(ctx, account.ID)
}

// Login checks the password and issues a new token, superseding any
// previous one.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.UserName = strings.TrimSpace(in.UserName)
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", common.ErrAuth)
	}

	account, err := s.repo.GetByUserName(ctx, in.UserName)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			_ = comparePassword(s.dummyHash, []byte(in.Password))
			return nil, fmt.Errorf("%w: invalid credentials", common.ErrAuth)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	if err := comparePassword(account.PasswordHash, []byte(in.Password)); err != nil {
		s.logger.Warn(ctx, "login failed", "account_id", account.ID)
		return nil, fmt.Errorf("%w: invalid credentials", common.ErrAuth)
	}

	return s.startSession(ctx, account.ID)
}

// GetProfile resolves a live token to the account's profile.
func (s *Service) GetProfile(ctx context.Context, token string) (*Profile, error) {
	account, err := s.authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	return account.profile(), nil
}

// UpdateProfile overwrites the supplied fields on the token's account.
func (s *Service) UpdateProfile(ctx context.Context, token string, upd ProfileUpdate) (*Profile, error) {
	account, err := s.authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	upd.UserName = strings.TrimSpace(upd.UserName)
	upd.Role = normalizeRole(upd.Role)
	if upd.Role != "" {
		if err := s.checkRole(upd.Role); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, account.ID, func(a *Account) error {
		if !s.tokenMatches(a, token) {
			return fmt.Errorf("%w: session superseded", common.ErrAuth)
		}
		if upd.UserName != "" {
			a.UserName = upd.UserName
		}
		if upd.Role != "" {
			a.Role = upd.Role
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "profile updated", "account_id", updated.ID, "role", updated.Role)

	return updated.profile(), nil
}

// Logout invalidates the token.
func (s *Service) Logout(ctx context.Context, token string) error {
	account, err := s.authenticate(ctx, token)
	if err != nil {
		return err
	}

	_, err = s.repo.Update(ctx, account.ID, func(a *Account) error {
		if !s.tokenMatches(a, token) {
			return fmt.Errorf("%w: session superseded", common.ErrAuth)
		}
		a.SessionToken = ""
		a.SessionExpires = time.Time{}
		return nil
	})
	return err
}

func (s *Service) startSession(ctx context.Context, accountID string) (*Session, error) {
	token, err := auth.GenerateToken(accountID, s.jwtSecret, s.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: generating token: %v", common.ErrInternal, err)
	}

	account, err := s.repo.Update(ctx, accountID, func(a *Account) error {
		a.SessionToken = token
		a.SessionExpires = time.Now().Add(s.sessionTTL)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, UserName: account.UserName, Role: account.Role}, nil
}

func (s *Service) authenticate(ctx context.Context, token string) (*Account, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: not logged in", common.ErrAuth)
	}

	accountID, err := auth.GetAccountIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrAuth, err)
	}

	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: not logged in", common.ErrAuth)
	}

	if !s.tokenMatches(account, token) {
		return nil, fmt.Errorf("%w: session superseded", common.ErrAuth)
	}

	return account, nil
}

func (s *Service) tokenMatches(a *Account, token string) bool {
	if a.SessionToken == "" || time.Now().After(a.SessionExpires) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a.SessionToken), []byte(token)) == 1
}

func (s *Service) checkRole(role string) error {
	if len(s.allowedRoles) == 0 || slices.Contains(s.allowedRoles, role) {
		return nil
	}
	return fmt.Errorf("%w: role %q is not allowed", common.ErrValidation, role)
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
