package service

import (
	"context"
	"log/slog"
	"time"

	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/repository"
)

const recentLoanCount = 5

// DashboardCache stores the last computed summary. Get returns nil, nil on a miss.
type DashboardCache interface {
	Get(ctx context.Context) (*dto.DashboardSummary, error)
	Set(ctx context.Context, summary *dto.DashboardSummary) error
	Invalidate(ctx context.Context) error
}

type DashboardService interface {
	Summary(ctx context.Context) (*dto.DashboardSummary, error)
}

type dashboardService struct {
	store  repository.Store
	cache  DashboardCache
	logger *slog.Logger
	clock  func() time.Time
}

func NewDashboardService(store repository.Store, cache DashboardCache, logger *slog.Logger) DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &dashboardService{store: store, cache: cache, logger: logger, clock: time.Now}
}

func (s *dashboardService) Summary(ctx context.Context) (*dto.DashboardSummary, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			// the cache is optional, fall through to the database
			s.logger.Warn("dashboard cache read failed", "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	summary := &dto.DashboardSummary{GeneratedAt: s.clock().UTC()}
	var err error
	if summary.BookCount, err = s.store.Books().Count(ctx); err != nil {
		return nil, err
	}
	if summary.ReaderCount, err = s.store.Users().CountByRole(ctx, models.RoleReader); err != nil {
		return nil, err
	}
	if summary.LibrarianCount, err = s.store.Users().CountByRole(ctx, models.RoleLibrarian); err != nil {
		return nil, err
	}
	if summary.ActiveLoanCount, err = s.store.Loans().CountActive(ctx); err != nil {
		return nil, err
	}
	recent, err := s.store.Loans().Recent(ctx, recentLoanCount)
	if err != nil {
		return nil, err
	}
	summary.RecentLoans = dto.FromModelsToLoanResponses(recent)

	if s.cache != nil {
		if err := s.cache.Set(ctx, summary); err != nil {
			s.logger.Warn("dashboard cache write failed", "error", err)
		}
	}
	return summary, nil
}

// invalidateDashboard drops the cached summary after a write. Failures are
// logged only, the entry expires on its own.
func invalidateDashboard(ctx context.Context, cache DashboardCache, logger *slog.Logger) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx); err != nil {
		logger.Warn("dashboard cache invalidation failed", "error", err)
	}
}
