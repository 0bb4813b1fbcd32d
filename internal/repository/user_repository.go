package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"useraccounts/internal/model"
)

// NoLimit passed as a limit returns every matching row.
const NoLimit = -1

// listOrder keeps pagination stable across pages.
const listOrder = "`created_at`, `user_id`"

// UserRepository defines persistence operations. It is the only component
// that talks to the store; every value travels as a bound parameter.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindOne(ctx context.Context, where Predicate) (*model.User, error)
	FindMany(ctx context.Context, where Predicate, limit, offset int) ([]model.User, error)
	Exec(ctx context.Context, stmt Statement) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo UserRepository) error) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts user. A duplicate email yields gorm.ErrDuplicatedKey.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindOne returns the first row matching where, or gorm.ErrRecordNotFound.
func (r *userRepository) FindOne(ctx context.Context, where Predicate) (*model.User, error) {
	var user model.User
	if err := r.scoped(ctx, where).Order(listOrder).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindMany returns up to limit rows matching where, skipping offset rows.
func (r *userRepository) FindMany(ctx context.Context, where Predicate, limit, offset int) ([]model.User, error) {
	users := make([]model.User, 0)
	if err := r.scoped(ctx, where).Order(listOrder).Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Exec runs a statement built by this package and reports affected rows.
func (r *userRepository) Exec(ctx context.Context, stmt Statement) (int64, error) {
	res := r.db.WithContext(ctx).Exec(stmt.SQL, stmt.Args...)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// Delete removes the user with the given identifier.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("`user_id` = ?", id).Delete(&model.User{}).Error
}

// WithTransaction executes a function within a database transaction.
func (r *userRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo UserRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &userRepository{db: tx}
		return fn(ctx, txRepo)
	})
}

func (r *userRepository) scoped(ctx context.Context, where Predicate) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.User{})
	if where.clause != "" {
		q = q.Where(where.clause, where.args...)
	}
	return q
}
