package service

import (
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/entity"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/logging"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/repository"
)

var (
	ErrEmailTaken       = fmt.Errorf("%w: account already exists", ErrValidation)
	ErrEmailInvalid     = fmt.Errorf("%w: invalid email address", ErrValidation)
	ErrPasswordMismatch = fmt.Errorf("%w: passwords do not match", ErrValidation)
	ErrBadCredentials   = fmt.Errorf("%w: invalid email or password", ErrAccessDenied)
)

var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

type AuthService interface {
	Register(name, email, password, confirm string) error
	Login(email, password string) (*entity.User, error)
}

type authService struct {
	users  repository.UserRepository
	logger logging.Logger
}

func NewAuthService(users repository.UserRepository, logger logging.Logger) AuthService {
	return &authService{users: users, logger: logger}
}

func (a *authService) Register(name, email, password, confirm string) error {
	if name == "" || email == "" || password == "" {
		return ErrValidation
	}
	if !emailPattern.MatchString(email) {
		return ErrEmailInvalid
	}
	if password != confirm {
		return ErrPasswordMismatch
	}

	taken, err := a.users.EmailTaken(email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if taken {
		return ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     "user",
	}
	if err := a.users.Create(user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	a.logger.Logf("registered user %d (%s)", user.ID, user.Email)
	return nil
}

func (a *authService) Login(email, password string) (*entity.User, error) {
	user, err := a.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}
	return user, nil
}
