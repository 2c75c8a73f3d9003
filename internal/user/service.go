package user

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/thesrcielos/PokeMemory/internal/apperrors"
	"golang.org/x/crypto/bcrypt"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const (
	maxUsernameLength = 30
	minPasswordLength = 6
)

var ErrInvalidCredentials = apperrors.NewAppError(http.StatusUnauthorized, "invalid email or password", nil)

// AccountListener is told about every account that signup commits.
type AccountListener interface {
	AccountCreated(ctx context.Context, u User)
}

type UserService struct {
	repo       UserRepository
	tokens     *TokenIssuer
	bcryptCost int
	listeners  []AccountListener
}

func NewUserService(repo UserRepository, tokens *TokenIssuer, bcryptCost int, listeners ...AccountListener) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{repo: repo, tokens: tokens, bcryptCost: bcryptCost, listeners: listeners}
}

func (r *SignupRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	if r.Username == "" {
		return apperrors.NewAppError(http.StatusBadRequest, "username is required", nil)
	}
	if len(r.Username) > maxUsernameLength {
		return apperrors.NewAppError(http.StatusBadRequest, "username must not exceed 30 characters", nil)
	}
	if !emailRegex.MatchString(r.Email) {
		return apperrors.NewAppError(http.StatusBadRequest, "invalid email format", nil)
	}
	if len(r.Password) < minPasswordLength {
		return apperrors.NewAppError(http.StatusBadRequest, "password must be at least 6 characters", nil)
	}
	return nil
}

// Signup registers a new account and returns it with a session token.
func (s *UserService) Signup(ctx context.Context, req SignupRequest) (*User, string, error) {
	if err := req.Validate(); err != nil {
		return nil, "", err
	}

	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", apperrors.NewAppError(http.StatusConflict, "email already registered", nil)
	}

	exists, err = s.repo.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", apperrors.NewAppError(http.StatusConflict, "username already exists", nil)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, "", apperrors.NewAppError(http.StatusInternalServerError, "error hashing password", err)
	}

	newUser := &User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
	}
	if err := s.repo.CreateUser(ctx, newUser); err != nil {
		return nil, "", err
	}
	for _, l := range s.listeners {
		l.AccountCreated(ctx, *newUser)
	}

	token, err := s.tokens.GenerateJWT(newUser)
	if err != nil {
		return nil, "", apperrors.NewAppError(http.StatusInternalServerError, "error creating jwt token", err)
	}
	return newUser, token, nil
}

// Login authenticates by email. Unknown email and wrong password are
// reported the same way.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, "", ErrInvalidCredentials
	}

	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if apperrors.Status(err) == http.StatusNotFound {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", apperrors.NewAppError(http.StatusInternalServerError, "error checking password", err)
	}

	token, err := s.tokens.GenerateJWT(u)
	if err != nil {
		return nil, "", apperrors.NewAppError(http.StatusInternalServerError, "error creating jwt token", err)
	}
	return u, token, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*User, error) {
	return s.repo.GetUser(ctx, id)
}
