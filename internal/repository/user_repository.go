package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "staffdir/internal/errors"
	"staffdir/internal/model"
)

// UserRepository defines persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	CountByEmail(ctx context.Context, email string) (int64, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id string, patch model.UserPatch) (int64, error)
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) CountByEmail(ctx context.Context, email string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update applies only the fields present in patch and reports the affected row count.
// An empty patch is rejected without touching the database.
func (r *userRepository) Update(ctx context.Context, id string, patch model.UserPatch) (int64, error) {
	columns, values := patch.Assignments()
	if len(columns) == 0 {
		return 0, apperrors.ErrNoFieldsToUpdate
	}

	set := make([]string, len(columns))
	for i, column := range columns {
		set[i] = "`" + column + "` = ?"
	}
	sql := "UPDATE `users` SET " + strings.Join(set, ", ") + " WHERE `id` = ?"

	res := r.db.WithContext(ctx).Exec(sql, append(values, id)...)
	if res.Error != nil {
		return 0, translate(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{}).Error
}

// translate maps the unique index violation on users.email to the domain error.
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrDuplicateEmail
	}
	return err
}
