package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"classpick/internal/model"
	"classpick/internal/repository"
	"classpick/pkg/apierror"
)

type AuthService struct {
	users      *repository.UserRepository
	jwtSecret  []byte
	tokenTTL   time.Duration
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(jwtSecret string, tokenTTL time.Duration, users *repository.UserRepository) (*AuthService, error) {
	if strings.TrimSpace(jwtSecret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}

	return &AuthService{
		users:      users,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}, nil
}

// Register creates the account and returns its first access token.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (string, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return "", apierror.New(apierror.KindValidation, "username, email and password are required", "", http.StatusBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	account := model.Account{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		Class:        strings.TrimSpace(req.Class),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, account); err != nil {
		return "", err
	}

	return s.issueToken(account)
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (string, error) {
	account, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		return "", model.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", model.ErrInvalidCredentials
	}

	return s.issueToken(account)
}

func (s *AuthService) ValidateToken(tokenString string) (*model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("validate token: %w", model.ErrUnauthorized)
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("validate token claims: %w", model.ErrUnauthorized)
	}

	claims := &model.AuthClaims{}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.Username, _ = claimsMap["username"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	if claims.UserID == "" {
		return nil, fmt.Errorf("validate token subject: %w", model.ErrUnauthorized)
	}

	return claims, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (model.User, error) {
	account, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}

	return account.Public(), nil
}

// Apply turns the user into a candidate. Applying twice is a conflict.
func (s *AuthService) Apply(ctx context.Context, userID string) (model.User, error) {
	account, err := s.users.Update(ctx, userID, func(a *model.Account) error {
		if a.Candidate {
			return model.ErrAlreadyCandidate
		}
		a.Candidate = true
		a.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return model.User{}, err
	}

	return account.Public(), nil
}

func (s *AuthService) issueToken(account model.Account) (string, error) {
	now := s.now().UTC()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":       account.ID,
		"username":  account.Username,
		"email":     account.Email,
		"class":     account.Class,
		"candidate": account.Candidate,
		"voted":     account.Voted,
		"jti":       uuid.NewString(),
		"iat":       now.Unix(),
		"exp":       now.Add(s.tokenTTL).Unix(),
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
