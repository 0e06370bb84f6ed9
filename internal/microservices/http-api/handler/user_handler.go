package handler

import (
	"context"
	"net/http"
	"time"

	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/models"
	"libraryhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc     service.UserService
	timeout time.Duration
}

func NewUserHandler(svc service.UserService, timeout time.Duration) *UserHandler {
	return &UserHandler{svc: svc, timeout: timeout}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:user_id", h.Get)
	rg.PUT("/:user_id", h.Update)
	rg.DELETE("/:user_id", h.Delete)
}

// List users, optionally only one role
// GET /api/users?role=Reader
func (h *UserHandler) List(c *gin.Context) {
	var role *models.UserRole
	if raw := c.Query("role"); raw != "" {
		r, ok := models.ParseUserRole(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "role must be Reader or Librarian"})
			return
		}
		role = &r
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	users, err := h.svc.List(ctx, role)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.FromModelToUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, dto.UserListResponse{Items: items, Total: len(items)})
}

// GET /api/users/:user_id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "user_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	user, err := h.svc.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToUserResponse(user))
}

// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	user, err := h.svc.Create(ctx, userInput(req, 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToUserResponse(user))
}

// PUT /api/users/:user_id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "user_id")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	user, err := h.svc.Update(ctx, id, userInput(req.CreateUserRequest, req.Version))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToUserResponse(user))
}

// DELETE /api/users/:user_id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "user_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func userInput(req dto.CreateUserRequest, version int64) service.UserInput {
	return service.UserInput{
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		Role:         req.Role,
		RegisteredAt: req.RegisteredAt,
		Version:      version,
	}
}
