package repository

import (
	"context"

	"libraryhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// List returns users ordered by name; a nil role returns every role.
	List(ctx context.Context, role *models.UserRole) ([]models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
	// ExistsWithEmail matches email exactly; excludeID 0 excludes nobody.
	ExistsWithEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	CountByRole(ctx context.Context, role models.UserRole) (int64, error)
}

// userRepository is the GORM implementation of UserRepository.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository in a GORM implementation
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) List(ctx context.Context, role *models.UserRole) ([]models.User, error) {
	var users []models.User
	q := r.db.WithContext(ctx).Order("full_name ASC")
	if role != nil {
		q = q.Where("role = ?", *role)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, translateError("list users", err)
	}
	return users, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	// return nil on error, a zero-value user would look like a hit
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateError("get user", err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.Version = 1
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translateError("create user", err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND version = ?", user.ID, user.Version).
		Updates(map[string]interface{}{
			"full_name":     user.FullName,
			"email":         user.Email,
			"phone_number":  user.Phone,
			"address":       user.Address,
			"role":          user.Role,
			"registered_at": user.RegisteredAt,
			"version":       gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return translateError("update user", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStaleObject
	}
	user.Version++
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return translateError("delete user", result.Error)
	}
	if result.RowsAffected == 0 {
		return translateError("delete user", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *userRepository) ExistsWithEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, translateError("check user email", err)
	}
	return count > 0, nil
}

func (r *userRepository) CountByRole(ctx context.Context, role models.UserRole) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&count).Error; err != nil {
		return 0, translateError("count users", err)
	}
	return count, nil
}
