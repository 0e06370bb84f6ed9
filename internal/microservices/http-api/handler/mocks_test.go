package handler_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/handler"
	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

// --- HELPER FUNCTIONS FOR POINTERS ---
func stringPtr(s string) *string { return &s }

// --- MOCK SERVICES ---

type MockBookService struct {
	mock.Mock
}

func (m *MockBookService) List(ctx context.Context) ([]models.Book, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookService) Get(ctx context.Context, id int64) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookService) Create(ctx context.Context, in service.BookInput) (*models.Book, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookService) Update(ctx context.Context, id int64, in service.BookInput) (*models.Book, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context, role *models.UserRole) ([]models.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Create(ctx context.Context, in service.UserInput) (*models.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id int64, in service.UserInput) (*models.User, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) CreateLoan(ctx context.Context, in service.CreateLoanInput) (*models.Loan, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Loan), args.Error(1)
}

func (m *MockLoanService) GetLoan(ctx context.Context, id int64) (*models.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Loan), args.Error(1)
}

func (m *MockLoanService) ListLoans(ctx context.Context, status *models.LoanStatus) ([]models.Loan, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]models.Loan), args.Error(1)
}

func (m *MockLoanService) ReturnLoan(ctx context.Context, id int64) (*models.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Loan), args.Error(1)
}

func (m *MockLoanService) DeleteLoan(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLoanService) SweepOverdue(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Summary(ctx context.Context) (*dto.DashboardSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DashboardSummary), args.Error(1)
}

// --- SETUP ---

type mocks struct {
	books     *MockBookService
	users     *MockUserService
	loans     *MockLoanService
	dashboard *MockDashboardService
}

func setupRouter() (*gin.Engine, *mocks) {
	gin.SetMode(gin.TestMode)
	m := &mocks{
		books:     new(MockBookService),
		users:     new(MockUserService),
		loans:     new(MockLoanService),
		dashboard: new(MockDashboardService),
	}
	r := handler.NewRouter(handler.Services{
		Books:     m.books,
		Users:     m.users,
		Loans:     m.loans,
		Dashboard: m.dashboard,
	}, handler.RouterOptions{
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		RequestTimeout: time.Second,
	})
	return r, m
}
