package service

import (
	"context"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is the lifetime of issued access tokens.
const TokenTTL = 7 * 24 * time.Hour

// AuthResult is returned on successful signup or login.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// UserService registers and authenticates users and manages admin flags.
type UserService struct {
	userRepo   repository.UserRepository
	validator  *validation.Validator
	jwtSecret  string
	bcryptCost int
}

func NewUserService(userRepo repository.UserRepository, validator *validation.Validator, jwtSecret string) *UserService {
	return &UserService{
		userRepo:   userRepo,
		validator:  validator,
		jwtSecret:  jwtSecret,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// WithBcryptCost overrides the hashing cost. Tests use bcrypt.MinCost.
func (s *UserService) WithBcryptCost(cost int) *UserService {
	s.bcryptCost = cost
	return s
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, err := middleware.IssueToken(s.jwtSecret, user.ID, user.Username, TokenTTL)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Register creates an account and returns a token for it.
func (s *UserService) Register(ctx context.Context, form validation.SignupForm) (*AuthResult, error) {
	if err := s.validator.ValidateSignup(&form); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), s.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: form.Username,
		Email:    form.Email,
		Password: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Authenticate checks credentials and returns a token.
func (s *UserService) Authenticate(ctx context.Context, form validation.LoginForm) (*AuthResult, error) {
	if err := s.validator.ValidateLogin(&form); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(ctx, form.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(form.Password)); cmpErr != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return s.issue(user)
}

// IsAdmin reports whether userID has the admin flag.
func (s *UserService) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.IsAdmin, nil
}

// SetAdmin grants or revokes the admin flag by username.
func (s *UserService) SetAdmin(ctx context.Context, username string, isAdmin bool) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.SetAdmin(ctx, user.ID, isAdmin); err != nil {
		return nil, err
	}
	user.IsAdmin = isAdmin
	return user, nil
}

// ListAdmins returns every user with the admin flag.
func (s *UserService) ListAdmins(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListAdmins(ctx)
}

// DeleteUser removes a user and everything they authored.
func (s *UserService) DeleteUser(ctx context.Context, username string) error {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, user.ID)
}
