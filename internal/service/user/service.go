package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/logging"
	tokenrepo "storefront/internal/repository/token"
	userrepo "storefront/internal/repository/user"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// cartMerger folds a guest cart into a user's cart on sign-in.
type cartMerger interface {
	MergeGuest(ctx context.Context, guestSessionID, userID string) (*domain.Cart, error)
}

// Service handles registration, login and the admin user console.
type Service struct {
	repo        userrepo.Repository
	tokens      *tokenManager
	carts       cartMerger
	logger      *zap.Logger
	accessTTL   time.Duration
	refreshTTL  time.Duration
	passwordMin int
}

// New creates a Service with sane defaults. carts may be nil, in which case
// guest carts are left alone on login.
func New(repo userrepo.Repository, tokens tokenrepo.Repository, carts cartMerger, logger *zap.Logger) *Service {
	return &Service{
		repo:        repo,
		tokens:      newTokenManager(tokens),
		carts:       carts,
		logger:      logging.OrNop(logger).Named("user_service"),
		accessTTL:   48 * time.Hour,
		refreshTTL:  30 * 24 * time.Hour,
		passwordMin: 8,
	}
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminInput is accepted by the admin create and update endpoints. An empty
// Password on update keeps the current hash.
type AdminInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Session is the result of a successful login or registration.
type Session struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

// Register creates a regular user and signs them in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	u, err := s.create(ctx, AdminInput{
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
		Role:     domain.RoleUser,
	})
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, u)
}

// Login validates credentials and returns issued tokens plus the user. When
// guestSessionID is set, the guest cart is merged into the user's cart; a
// failed merge is logged and does not fail the login.
func (s *Service) Login(ctx context.Context, email, password, guestSessionID string) (*Session, error) {
	password = strings.TrimSpace(password)
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if guestSessionID = strings.TrimSpace(guestSessionID); guestSessionID != "" && s.carts != nil {
		if _, err := s.carts.MergeGuest(ctx, guestSessionID, u.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("merge guest cart",
				zap.String("user_id", u.ID),
				zap.String("guest_session_id", guestSessionID),
				zap.Error(err),
			)
		}
	}
	return s.issue(ctx, u)
}

// Logout revokes the access token. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// LookupByToken returns the user bound to a valid access token.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.User, error) {
	userID, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return nil, ErrInvalidToken
	}
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}

// AccessTTLSeconds exposes the access token lifetime in seconds.
func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}

func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in AdminInput) (*domain.User, error) {
	if strings.TrimSpace(in.Role) == "" {
		in.Role = domain.RoleUser
	}
	return s.create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id string, in AdminInput) (*domain.User, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next := *current
	if v := strings.TrimSpace(in.Username); v != "" {
		next.Username = v
	}
	if v := strings.TrimSpace(in.Email); v != "" {
		email, err := normalizeEmail(v)
		if err != nil {
			return nil, err
		}
		next.Email = email
	}
	if v := strings.TrimSpace(in.Role); v != "" {
		if err := validateRole(v); err != nil {
			return nil, err
		}
		next.Role = v
	}
	if strings.TrimSpace(in.Password) != "" {
		hash, err := s.hash(in.Password)
		if err != nil {
			return nil, err
		}
		next.PasswordHash = hash
	}
	return s.repo.Update(ctx, next)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) create(ctx context.Context, in AdminInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, domain.Invalid("username required")
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := validateRole(in.Role); err != nil {
		return nil, err
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.Create(ctx, domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		return nil, fmt.Errorf("email %s: %w", email, domain.ErrAlreadyExists)
	}
	return u, err
}

func (s *Service) hash(password string) (string, error) {
	password = strings.TrimSpace(password)
	if err := validatePassword(password, s.passwordMin); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (s *Service) issue(ctx context.Context, u *domain.User) (*Session, error) {
	access, err := s.tokens.Issue(ctx, u.ID, kindAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.Issue(ctx, u.ID, kindRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, AccessToken: access, RefreshToken: refresh}, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.TrimSpace(strings.ToLower(raw))
	if email == "" {
		return "", domain.Invalid("email required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", domain.Invalid("email is not valid")
	}
	return email, nil
}

func validateRole(role string) error {
	switch role {
	case domain.RoleUser, domain.RoleAdmin:
		return nil
	}
	return domain.Invalid(fmt.Sprintf("unknown role %q", role))
}

func validatePassword(p string, min int) error {
	trimmed := strings.TrimSpace(p)
	if len(trimmed) < min {
		return domain.Invalid(fmt.Sprintf("password must be at least %d characters", min))
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range trimmed {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return domain.Invalid("password must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number")
	}
	return nil
}
