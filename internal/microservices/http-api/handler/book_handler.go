package handler

import (
	"context"
	"net/http"
	"time"

	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	svc     service.BookService
	timeout time.Duration
}

func NewBookHandler(svc service.BookService, timeout time.Duration) *BookHandler {
	return &BookHandler{svc: svc, timeout: timeout}
}

func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:book_id", h.Get)
	rg.PUT("/:book_id", h.Update)
	rg.DELETE("/:book_id", h.Delete)
}

// List the catalog ordered by title
// GET /api/books
func (h *BookHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	books, err := h.svc.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.BookResponse, 0, len(books))
	for i := range books {
		items = append(items, dto.FromModelToBookResponse(&books[i]))
	}
	c.JSON(http.StatusOK, dto.BookListResponse{Items: items, Total: len(items)})
}

// GET /api/books/:book_id
func (h *BookHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "book_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	book, err := h.svc.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToBookResponse(book))
}

// POST /api/books
func (h *BookHandler) Create(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	book, err := h.svc.Create(ctx, bookInput(req, 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToBookResponse(book))
}

// PUT /api/books/:book_id
func (h *BookHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "book_id")
	if !ok {
		return
	}

	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	book, err := h.svc.Update(ctx, id, bookInput(req.CreateBookRequest, req.Version))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToBookResponse(book))
}

// DELETE /api/books/:book_id
func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "book_id")
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

func bookInput(req dto.CreateBookRequest, version int64) service.BookInput {
	return service.BookInput{
		Title:           req.Title,
		Author:          req.Author,
		Category:        req.Category,
		ISBN:            req.ISBN,
		TotalCopies:     req.TotalCopies,
		AvailableCopies: req.AvailableCopies,
		CoverURL:        req.CoverURL,
		Description:     req.Description,
		Version:         version,
	}
}
