package user

import (
	"context"
	"errors"

	"github.com/thesrcielos/PokeMemory/internal/apperrors"
	"gorm.io/gorm"
)

type UserRepository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id uint) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	TopByTrophies(ctx context.Context, n int) ([]User, error)
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) CreateUser(ctx context.Context, u *User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.NewAppError(409, "user already exists", err)
		}
		return apperrors.NewAppError(500, "error creating user", err)
	}
	return nil
}

func (r *GormUserRepository) GetUser(ctx context.Context, id uint) (*User, error) {
	var u User
	result := r.db.WithContext(ctx).First(&u, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewAppError(404, "user not found", result.Error)
	} else if result.Error != nil {
		return nil, apperrors.NewAppError(500, "error getting user", result.Error)
	}
	return &u, nil
}

func (r *GormUserRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&u)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewAppError(404, "user not found", result.Error)
	} else if result.Error != nil {
		return nil, apperrors.NewAppError(500, "error getting user", result.Error)
	}
	return &u, nil
}

func (r *GormUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *GormUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

func (r *GormUserRepository) exists(ctx context.Context, query string, arg string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&User{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, apperrors.NewAppError(500, "error checking user", err)
	}
	return count > 0, nil
}

// TopByTrophies orders by trophies and then by id so ties keep signup order.
func (r *GormUserRepository) TopByTrophies(ctx context.Context, n int) ([]User, error) {
	users := []User{}
	if n <= 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).
		Order("trophies DESC").
		Order("id ASC").
		Limit(n).
		Find(&users).Error
	if err != nil {
		return nil, apperrors.NewAppError(500, "error listing leaderboard", err)
	}
	return users, nil
}
