package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"account_service/internal/model"
	"account_service/internal/repository"
	"account_service/internal/utils"
	"account_service/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

// SignupInput is the raw signup request before validation
type SignupInput struct {
	Username    string
	Email       string
	Password    string
	PhoneNumber string
}

// LoginResult is what a successful login returns to the caller. The
// password hash is never part of it.
type LoginResult struct {
	Token       string `json:"token"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	PhoneNumber string `json:"phoneNumber"`
	UserID      string `json:"userId"`
}

// UserService provides account lifecycle operations
type UserService interface {
	Signup(ctx context.Context, in SignupInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	GetAllUsers(ctx context.Context) ([]model.User, error)
	GetSelf(ctx context.Context, userID string) (*model.User, error)
	DeleteByID(ctx context.Context, userID string) error
	Logout(ctx context.Context, userID string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
}

type userService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
	mailer   Mailer
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, mailer Mailer) UserService {
	return &userService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
		mailer:   mailer,
	}
}

// Signup validates the input, hashes the password, and creates the
// account. The caller must log in separately; no token is issued here.
func (s *userService) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	username, err := validation.Username(in.Username)
	if err != nil {
		return nil, err
	}
	email, err := validation.Email(in.Email)
	if err != nil {
		return nil, err
	}
	if err := validation.Password(in.Password); err != nil {
		return nil, err
	}
	phone, err := validation.PhoneNumber(in.PhoneNumber)
	if err != nil {
		return nil, err
	}

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		PhoneNumber:  phone,
		Role:         model.RoleUser,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique constraints catch races the FindByEmail check missed
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}

	return user, nil
}

// Login authenticates a user and returns a JWT token with their public
// profile fields. A wrong password is rejected before any token is
// issued.
func (s *userService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials // User not found
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials // Password mismatch
	}

	token, err := s.jwtUtil.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResult{
		Token:       token,
		Email:       user.Email,
		Role:        user.Role,
		PhoneNumber: user.PhoneNumber,
		UserID:      user.ID,
	}, nil
}

// GetAllUsers returns every account with the password hash projected out
func (s *userService) GetAllUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetSelf returns the account for an authenticated user's ID
func (s *userService) GetSelf(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// DeleteByID permanently removes an account
func (s *userService) DeleteByID(ctx context.Context, userID string) error {
	if err := s.userRepo.DeleteByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// Logout records the logout. Tokens are self-contained and not tracked
// server-side, so there is nothing to revoke.
func (s *userService) Logout(_ context.Context, userID string) error {
	log.Printf("INFO: User with ID %s has logged out.", userID)
	return nil
}

// RequestPasswordReset generates a reset token, persists it on the
// account, and hands it to the mailer.
func (s *userService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	token, expiry, err := utils.GenerateResetToken()
	if err != nil {
		return err
	}

	if err := s.userRepo.SetResetToken(ctx, user.ID, token, expiry); err != nil {
		return fmt.Errorf("failed to persist reset token: %w", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, token); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// ResetPassword replaces the password of the account holding an
// unexpired reset token and consumes the token. A second call with the
// same token fails.
func (s *userService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if err := validation.Password(newPassword); err != nil {
		return err
	}

	user, err := s.userRepo.FindByResetToken(ctx, resetToken)
	if err != nil {
		return fmt.Errorf("error finding user by reset token: %w", err)
	}
	if user == nil {
		// Expired and never-existed tokens are indistinguishable here
		return ErrInvalidResetToken
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// UpdatePassword clears the reset token in the same statement
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
