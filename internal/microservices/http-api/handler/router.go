package handler

import (
	"log/slog"
	"net/http"
	"time"

	"libraryhub/internal/microservices/http-api/middleware"
	"libraryhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// Services bundles everything the router serves
type Services struct {
	Books     service.BookService
	Users     service.UserService
	Loans     service.LoanService
	Dashboard service.DashboardService
}

type RouterOptions struct {
	Logger         *slog.Logger
	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	CORSOrigins    []string
}

func NewRouter(svcs Services, opts RouterOptions) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 5 * time.Second
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(opts.Logger))
	r.Use(middleware.CORS(opts.CORSOrigins))
	if opts.RateLimitRPS > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/dashboard", NewDashboardHandler(svcs.Dashboard, opts.RequestTimeout).Summary)
	NewBookHandler(svcs.Books, opts.RequestTimeout).RegisterRoutes(api.Group("/books"))
	NewUserHandler(svcs.Users, opts.RequestTimeout).RegisterRoutes(api.Group("/users"))
	NewLoanHandler(svcs.Loans, opts.RequestTimeout).RegisterRoutes(api.Group("/loans"))

	return r
}
