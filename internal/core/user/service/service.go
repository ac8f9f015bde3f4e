package userapp

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"yatube/internal/core/apperr"
	userEntity "yatube/internal/core/user"
	userPort "yatube/internal/ports/user"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer       = "yatube"
	minPasswordLength = 8
	requiredMessage   = "This field is required."
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// UserService handles sign-up, login and account removal.
type UserService struct {
	UserRepository userPort.UserRepository
	Logger         *zap.Logger

	jwtKey   []byte
	tokenTTL time.Duration
	validate *validator.Validate
}

func NewUserService(repo userPort.UserRepository, jwtKey []byte, tokenTTL time.Duration, logger *zap.Logger) *UserService {
	return &UserService{
		UserRepository: repo,
		Logger:         logger,
		jwtKey:         jwtKey,
		tokenTTL:       tokenTTL,
		validate:       validator.New(),
	}
}

// LoginUser checks the password and issues a signed token.
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*userPort.LoginResponse, error) {
	user, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.Logger.Info("Rejected login", zap.String("username", username))
		return nil, apperr.ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	token, err := s.generateJWT(user, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	return &userPort.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
	}, nil
}

func (s *UserService) generateJWT(user *userEntity.User, expiresAt time.Time) (string, error) {
	claims := &jwt.StandardClaims{
		Subject:   user.ID.String(),
		Issuer:    tokenIssuer,
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtKey)
}

// ParseToken validates a token issued by LoginUser and returns its user id.
func (s *UserService) ParseToken(tokenString string) (uuid.UUID, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtKey, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, apperr.ErrUnauthenticated
	}
	if claims.Issuer != tokenIssuer {
		return uuid.Nil, apperr.ErrUnauthenticated
	}
	id, err := uuid.FromString(claims.Subject)
	if err != nil {
		return uuid.Nil, apperr.ErrUnauthenticated
	}
	return id, nil
}

// RegisterUser creates an account from the sign-up form.
func (s *UserService) RegisterUser(ctx context.Context, in userPort.SignupInput) (*userPort.UserDTO, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	v := &apperr.ValidationError{}
	if in.Username == "" {
		v.Add("username", requiredMessage)
	} else if len(in.Username) > 150 || !usernamePattern.MatchString(in.Username) {
		v.Add("username", "Enter a valid username.")
	}
	if in.Email == "" {
		v.Add("email", requiredMessage)
	} else if s.validate.Var(in.Email, "email") != nil {
		v.Add("email", "Enter a valid email address.")
	}
	if len(in.Password) < minPasswordLength {
		v.Add("password", fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLength))
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	existing, err := s.UserRepository.FindByUsernameOrEmail(ctx, in.Username, in.Email)
	switch {
	case err == nil && existing != nil:
		if existing.Username == in.Username {
			return nil, apperr.Invalid("username", "A user with that username already exists.")
		}
		return nil, apperr.Invalid("email", "A user with that email already exists.")
	case err != nil && !errors.Is(err, apperr.ErrNotFound):
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &userEntity.User{
		ID:        uuid.Must(uuid.NewV4()),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Username:  in.Username,
		Email:     in.Email,
		Password:  string(hashedPassword),
	}

	u, err := s.UserRepository.Create(ctx, user)
	if err != nil {
		// lost a race with a concurrent sign-up
		if errors.Is(err, apperr.ErrConflict) {
			return nil, apperr.Invalid("username", "A user with that username already exists.")
		}
		return nil, err
	}

	s.Logger.Info("Registered user", zap.String("username", u.Username))
	return userPort.NewUserDTO(u), nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*userPort.UserDTO, error) {
	u, err := s.UserRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return userPort.NewUserDTO(u), nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*userPort.UserDTO, error) {
	u, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return userPort.NewUserDTO(u), nil
}

// DeleteUser removes the account with everything it owns.
func (s *UserService) DeleteUser(ctx context.Context, username string) error {
	u, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := s.UserRepository.Delete(ctx, u.ID); err != nil {
		return err
	}
	s.Logger.Info("Deleted user", zap.String("username", username))
	return nil
}
