package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"useraccounts/internal/cache"
	apperrors "useraccounts/internal/errors"
	"useraccounts/internal/logger"
	"useraccounts/internal/model"
	"useraccounts/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// Pagination defaults. Missing, zero, negative or out-of-range values fall
// back to these instead of being rejected.
const (
	DefaultListLimit   = 10
	DefaultSearchLimit = 20
	DefaultPage        = 1
)

// PasswordHasher produces and checks password digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenIssuer mints signed identity tokens.
type TokenIssuer interface {
	IssueToken(email string) (string, error)
}

// CreateUserInput is a signup payload. Optional profile fields may be nil.
type CreateUserInput struct {
	Name          *string
	UserName      string
	Email         string
	Password      string
	ProfilePhoto  *string
	Bio           *string
	Address       *string
	Qualification *string
	Skills        *string
	Gender        *string
}

// UserService exposes domain operations.
type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (token string, user *model.User, err error)
	Authenticate(ctx context.Context, email, password string) (token string, user *model.User, err error)
	GetByEmail(ctx context.Context, email string) ([]model.User, error)
	GetByUserName(ctx context.Context, userName string) ([]model.User, error)
	GetByID(ctx context.Context, id string) ([]model.User, error)
	List(ctx context.Context, limit, page int) ([]model.User, error)
	Search(ctx context.Context, query string, limit, page int) ([]model.User, error)
	Update(ctx context.Context, email string, fields map[string]any) (*model.User, error)
	Delete(ctx context.Context, email string) (uuid.UUID, error)
}

type userService struct {
	repo         repository.UserRepository
	hasher       PasswordHasher
	tokens       TokenIssuer
	cache        *cache.Client
	log          *logger.Logger
	storeTimeout time.Duration
}

// NewUserService builds a UserService. Every operation's store calls share a
// deadline of storeTimeout; zero disables it.
func NewUserService(
	repo repository.UserRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	cache *cache.Client,
	log *logger.Logger,
	storeTimeout time.Duration,
) UserService {
	return &userService{
		repo:         repo,
		hasher:       hasher,
		tokens:       tokens,
		cache:        cache,
		log:          log,
		storeTimeout: storeTimeout,
	}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id.String())
}

func (s *userService) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

// Create hashes the password, inserts the user unless the email is taken and
// returns a token for the new account.
func (s *userService) Create(ctx context.Context, in CreateUserInput) (string, *model.User, error) {
	if err := validateCreate(in); err != nil {
		return "", nil, err
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return "", nil, err
	}

	user := &model.User{
		Name:           in.Name,
		UserName:       in.UserName,
		Email:          in.Email,
		HashedPassword: digest,
		ProfilePhoto:   in.ProfilePhoto,
		Bio:            in.Bio,
		Address:        in.Address,
		Qualification:  in.Qualification,
		Skills:         in.Skills,
		Gender:         in.Gender,
	}

	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.UserRepository) error {
		_, err := repo.FindOne(ctx, repository.ByEmail(in.Email))
		if err == nil {
			return apperrors.ErrEmailTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check email: %w", err)
		}

		if err := repo.Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// lost a race with a concurrent signup
				s.log.Warn("duplicate email rejected by unique index")
				return apperrors.ErrEmailTaken
			}
			return fmt.Errorf("insert user: %w", err)
		}

		stored, err := repo.FindOne(ctx, repository.ByID(user.ID))
		if err != nil {
			return fmt.Errorf("reload user: %w", err)
		}
		user = stored
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailTaken) {
			return "", nil, err
		}
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.IssueToken(user.Email)
	if err != nil {
		return "", nil, err
	}

	s.log.Info("user created", "user_id", user.ID)
	return token, user, nil
}

// Authenticate checks credentials. An unknown email and a wrong password
// produce the same error.
func (s *userService) Authenticate(ctx context.Context, email, password string) (string, *model.User, error) {
	if email == "" || password == "" {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	user, err := s.repo.FindOne(ctx, repository.ByEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("authenticate: %w", err)
	}

	if !s.hasher.Verify(password, user.HashedPassword) {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.IssueToken(user.Email)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) ([]model.User, error) {
	return s.findAll(ctx, "get by email", repository.ByEmail(email))
}

func (s *userService) GetByUserName(ctx context.Context, userName string) ([]model.User, error) {
	return s.findAll(ctx, "get by user name", repository.ByUserName(userName))
}

// GetByID returns the user with the given identifier, if any. Identifiers
// that are not UUIDs match nothing.
func (s *userService) GetByID(ctx context.Context, id string) ([]model.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return []model.User{}, nil
	}

	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(userID), &cached) {
		return []model.User{cached}, nil
	}

	users, err := s.findAll(ctx, "get by id", repository.ByID(userID))
	if err != nil {
		return nil, err
	}
	if len(users) == 1 {
		s.cache.SetJSON(ctx, s.cacheKey(userID), users[0], userCacheTTL)
	}
	return users, nil
}

// List returns one page of users in store order.
func (s *userService) List(ctx context.Context, limit, page int) ([]model.User, error) {
	limit, offset := pageBounds(limit, page, DefaultListLimit)
	return s.findPage(ctx, "list users", repository.All(), limit, offset)
}

// Search returns one page of users whose name or user name contains query,
// ignoring case.
func (s *userService) Search(ctx context.Context, query string, limit, page int) ([]model.User, error) {
	if query == "" {
		return nil, apperrors.NewValidationError("query", "Search query is required")
	}
	limit, offset := pageBounds(limit, page, DefaultSearchLimit)
	return s.findPage(ctx, "search users", repository.NameOrUserNameContains(query), limit, offset)
}

// Update applies a partial update to the user with the given email and
// returns the re-read record. The mapping is validated before any store
// access, so a rejected mapping never mutates anything.
func (s *userService) Update(ctx context.Context, email string, fields map[string]any) (*model.User, error) {
	if email == "" {
		return nil, apperrors.NewValidationError("email", "is required")
	}
	if _, err := repository.BuildUserUpdate(fields, uuid.Nil); err != nil {
		return nil, err
	}

	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	var updated *model.User
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.UserRepository) error {
		user, err := repo.FindOne(ctx, repository.ByEmail(email))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrUserNotFound
			}
			return fmt.Errorf("lookup user: %w", err)
		}

		stmt, err := repository.BuildUserUpdate(fields, user.ID)
		if err != nil {
			return err
		}
		if _, err := repo.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply update: %w", err)
		}

		updated, err = repo.FindOne(ctx, repository.ByID(user.ID))
		if err != nil {
			return fmt.Errorf("reload user: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(updated.ID))
	s.log.Info("user updated", "user_id", updated.ID, "fields", len(fields))
	return updated, nil
}

// Delete removes the user with the given email and returns its identifier.
func (s *userService) Delete(ctx context.Context, email string) (uuid.UUID, error) {
	if email == "" {
		return uuid.Nil, apperrors.NewValidationError("email", "is required")
	}

	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	var id uuid.UUID
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.UserRepository) error {
		user, err := repo.FindOne(ctx, repository.ByEmail(email))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrUserNotFound
			}
			return fmt.Errorf("lookup user: %w", err)
		}
		if err := repo.Delete(ctx, user.ID); err != nil {
			return fmt.Errorf("delete: %w", err)
		}
		id = user.ID
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return uuid.Nil, err
		}
		return uuid.Nil, fmt.Errorf("delete user: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	s.log.Info("user deleted", "user_id", id)
	return id, nil
}

func (s *userService) findAll(ctx context.Context, op string, where repository.Predicate) ([]model.User, error) {
	return s.findPage(ctx, op, where, repository.NoLimit, 0)
}

func (s *userService) findPage(ctx context.Context, op string, where repository.Predicate, limit, offset int) ([]model.User, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	users, err := s.repo.FindMany(ctx, where, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

func validateCreate(in CreateUserInput) error {
	switch {
	case strings.TrimSpace(in.Email) == "":
		return apperrors.NewValidationError("email", "is required")
	case in.Password == "":
		return apperrors.NewValidationError("password", "is required")
	case strings.TrimSpace(in.UserName) == "":
		return apperrors.NewValidationError("user_name", "is required")
	}
	return nil
}

// pageBounds resolves limit and page into a limit and row offset.
func pageBounds(limit, page, defaultLimit int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if page <= 0 || page-1 > math.MaxInt32/limit {
		page = DefaultPage
	}
	return limit, (page - 1) * limit
}
