package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/splax/accounts/internal/auth"
	"github.com/splax/accounts/internal/cache"
	"github.com/splax/accounts/internal/domain"
	"github.com/splax/accounts/internal/repository"
)

var (
	// ErrEmailTaken indicates the email already belongs to an account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers unknown emails and wrong passwords
	// alike, so responses never reveal which check failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotFound indicates a user id no longer resolves to an account.
	ErrNotFound = errors.New("user not found")
)

// Service orchestrates account workflows against the authoritative user
// store and the best-effort profile cache.
type Service struct {
	users      repository.UserRepository
	profiles   cache.ProfileCache
	tokens     *auth.TokenIssuer
	logger     *slog.Logger
	bcryptCost int
}

// New constructs a Service.
func New(users repository.UserRepository, profiles cache.ProfileCache, tokens *auth.TokenIssuer, logger *slog.Logger, bcryptCost int) Service {
	return Service{users: users, profiles: profiles, tokens: tokens, logger: logger, bcryptCost: bcryptCost}
}

// UpdateParams carries the fields of a partial update. Nil fields are left
// untouched.
type UpdateParams struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
}

// Register creates a new account with a hashed password.
func (s Service) Register(ctx context.Context, first, last, email, password string) (*domain.User, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		FirstName:    strings.TrimSpace(first),
		LastName:     strings.TrimSpace(last),
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login authenticates credentials and returns a signed session token with
// the subject set to the email and the user id embedded as a claim.
func (s Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", err
	}
	s.logger.Info("user logged in", "user_id", user.ID)
	return token, nil
}

// Update applies the non-nil fields to the user. The id comes from a
// validated token but is still only a claim, so the user is re-read first;
// ErrNotFound means the account no longer exists. The cache write-through
// is best effort: on failure the entry is dropped so reads fall back to
// the store instead of serving stale fields.
func (s Service) Update(ctx context.Context, userID string, params UpdateParams) (*domain.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if params.FirstName != nil {
		user.FirstName = strings.TrimSpace(*params.FirstName)
	}
	if params.LastName != nil {
		user.LastName = strings.TrimSpace(*params.LastName)
	}
	if params.Email != nil {
		user.Email = strings.TrimSpace(*params.Email)
	}
	if params.Password != nil {
		hash, err := auth.HashPassword(*params.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	if err := s.profiles.Set(ctx, user.ID, user.Profile()); err != nil {
		s.logger.Warn("profile cache write failed", "user_id", user.ID, "error", err)
		_ = s.profiles.Delete(ctx, user.ID)
	}
	s.logger.Info("user updated", "user_id", user.ID)
	return user, nil
}

// Profile returns the public projection for the user, serving from the
// cache on a hit and falling back to the authoritative store otherwise.
// Cache errors are treated like misses and never fail the request.
func (s Service) Profile(ctx context.Context, userID string) (domain.Profile, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("profile cache read failed", "user_id", userID, "error", err)
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Profile{}, ErrNotFound
		}
		return domain.Profile{}, err
	}
	profile = user.Profile()
	if err := s.profiles.Set(ctx, userID, profile); err != nil {
		s.logger.Warn("profile cache backfill failed", "user_id", userID, "error", err)
	}
	return profile, nil
}
