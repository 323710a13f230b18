package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/game-event-planner/internal/credential"
	"github.com/yukikurage/game-event-planner/internal/models"
	"github.com/yukikurage/game-event-planner/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken        = errors.New("username already exists")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	validate *validator.Validate

	// decoy is verified against when the username is unknown, so a miss
	// costs as much as a wrong password.
	decoyOnce sync.Once
	decoy     string
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		validate: newValidator(),
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string `json:"username" validate:"required,trimmed,username_len"`
	Password string `json:"password" validate:"required,password_len"`
}

// Register validates the input and creates a new user with a hashed
// credential. The username is stored exactly as given, so surrounding
// whitespace is rejected rather than stripped.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	verr, err := validateStruct(s.validate, input)
	if err != nil {
		return nil, fmt.Errorf("failed to validate registration: %w", err)
	}
	if verr != nil {
		return nil, verr
	}

	if taken, err := s.usernameTaken(ctx, input.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrUsernameTaken
	}

	hashed, err := credential.Hash(input.Password)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username: input.Username,
		Password: hashed,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration for the same name.
		if taken, lookupErr := s.usernameTaken(ctx, input.Username); lookupErr == nil && taken {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *AuthService) usernameTaken(ctx context.Context, username string) (bool, error) {
	_, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check username: %w", err)
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and returns the authenticated user. Unknown
// usernames and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.burnVerify(input.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	ok, err := credential.Verify(input.Password, user.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify credential for user %d: %w", user.ID, err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *AuthService) burnVerify(password string) {
	s.decoyOnce.Do(func() {
		s.decoy, _ = credential.Hash("decoy-password")
	})
	if s.decoy != "" {
		_, _ = credential.Verify(password, s.decoy)
	}
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
