package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"
)

// UserInput carries the editable user fields. An empty Role means Reader and a
// nil RegisteredAt means now.
type UserInput struct {
	FullName     string
	Email        string
	Phone        *string
	Address      *string
	Role         string
	RegisteredAt *time.Time
	Version      int64
}

type UserService interface {
	List(ctx context.Context, role *models.UserRole) ([]models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, in UserInput) (*models.User, error)
	Update(ctx context.Context, id int64, in UserInput) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	store  repository.Store
	cache  DashboardCache
	logger *slog.Logger
	clock  func() time.Time
}

func NewUserService(store repository.Store, cache DashboardCache, logger *slog.Logger) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{store: store, cache: cache, logger: logger, clock: time.Now}
}

func (s *userService) List(ctx context.Context, role *models.UserRole) ([]models.User, error) {
	return s.store.Users().List(ctx, role)
}

func (s *userService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, fromStoreError("user", id, err)
	}
	return user, nil
}

func (s *userService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	verr, role := validateUser(in)
	if err := s.checkEmail(ctx, verr, in.Email, 0); err != nil {
		return nil, err
	}
	if verr.HasErrors() {
		return nil, verr
	}

	user := &models.User{RegisteredAt: s.clock().UTC()}
	applyUserInput(user, in, role)

	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, fromStoreError("user", 0, err)
	}
	s.logger.Info("user created", "user_id", user.ID, "role", user.Role)
	invalidateDashboard(ctx, s.cache, s.logger)
	return user, nil
}

func (s *userService) Update(ctx context.Context, id int64, in UserInput) (*models.User, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, fromStoreError("user", id, err)
	}

	verr, role := validateUser(in)
	if err := s.checkEmail(ctx, verr, in.Email, id); err != nil {
		return nil, err
	}
	if verr.HasErrors() {
		return nil, verr
	}

	applyUserInput(user, in, role)
	user.Version = in.Version

	if err := s.store.Users().Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrStaleObject) {
			if _, err := s.store.Users().GetByID(ctx, id); err != nil {
				return nil, fromStoreError("user", id, err)
			}
			return nil, &ConflictError{Reason: "user was modified by another request, reload and try again"}
		}
		return nil, fromStoreError("user", id, err)
	}
	s.logger.Info("user updated", "user_id", user.ID, "version", user.Version)
	invalidateDashboard(ctx, s.cache, s.logger)
	return user, nil
}

// Delete refuses users that still have loan records.
func (s *userService) Delete(ctx context.Context, id int64) error {
	if _, err := s.store.Users().GetByID(ctx, id); err != nil {
		return fromStoreError("user", id, err)
	}

	n, err := s.store.Loans().CountByUser(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return &ConflictError{Reason: "user has loan records and cannot be deleted"}
	}

	if err := s.store.Users().Delete(ctx, id); err != nil {
		return fromStoreError("user", id, err)
	}
	s.logger.Info("user deleted", "user_id", id)
	invalidateDashboard(ctx, s.cache, s.logger)
	return nil
}

// checkEmail adds a violation when another user already holds email.
// The match is exact; case is significant.
func (s *userService) checkEmail(ctx context.Context, verr *ValidationError, email string, excludeID int64) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	exists, err := s.store.Users().ExistsWithEmail(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if exists {
		verr.Add("email", msgEmailExists)
	}
	return nil
}

func validateUser(in UserInput) (*ValidationError, models.UserRole) {
	verr := &ValidationError{}
	requireText(verr, "full_name", "Full name", in.FullName, 150)

	email := strings.TrimSpace(in.Email)
	if email == "" {
		verr.Add("email", "Email is required.")
	} else if err := validate.Var(email, "email"); err != nil {
		verr.Add("email", "Email is not a valid e-mail address.")
	}

	if p := trimmed(in.Phone); p != nil {
		if err := validate.Var(*p, "max=30,printascii"); err != nil {
			verr.Add("phone", "Phone number is not valid.")
		}
	}

	role := models.RoleReader
	if in.Role != "" {
		r, ok := models.ParseUserRole(in.Role)
		if !ok {
			verr.Add("role", "Role must be Reader or Librarian.")
		}
		role = r
	}
	return verr, role
}

func applyUserInput(user *models.User, in UserInput, role models.UserRole) {
	user.FullName = strings.TrimSpace(in.FullName)
	user.Email = strings.TrimSpace(in.Email)
	user.Phone = trimmed(in.Phone)
	user.Address = trimmed(in.Address)
	user.Role = role
	if in.RegisteredAt != nil {
		user.RegisteredAt = in.RegisteredAt.UTC()
	}
}
