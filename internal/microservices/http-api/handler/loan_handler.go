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

type LoanHandler struct {
	svc     service.LoanService
	timeout time.Duration
}

func NewLoanHandler(svc service.LoanService, timeout time.Duration) *LoanHandler {
	return &LoanHandler{svc: svc, timeout: timeout}
}

func (h *LoanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.POST("/sweep", h.Sweep)
	rg.GET("/:loan_id", h.Get)
	rg.POST("/:loan_id/return", h.Return)
	rg.DELETE("/:loan_id", h.Delete)
}

// List loans newest first, optionally filtered by status
// GET /api/loans?status=Overdue
func (h *LoanHandler) List(c *gin.Context) {
	var status *models.LoanStatus
	if raw := c.Query("status"); raw != "" {
		s, ok := models.ParseLoanStatus(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be Borrowed, Overdue or Returned"})
			return
		}
		status = &s
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	loans, err := h.svc.ListLoans(ctx, status)
	if err != nil {
		respondError(c, err)
		return
	}

	items := dto.FromModelsToLoanResponses(loans)
	c.JSON(http.StatusOK, dto.LoanListResponse{Items: items, Total: len(items)})
}

// GET /api/loans/:loan_id
func (h *LoanHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "loan_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	loan, err := h.svc.GetLoan(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToLoanResponse(loan))
}

// Create borrows a book for a user
// POST /api/loans
func (h *LoanHandler) Create(c *gin.Context) {
	var req dto.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	loan, err := h.svc.CreateLoan(ctx, service.CreateLoanInput{
		BookID:     req.BookID,
		UserID:     req.UserID,
		BorrowedAt: req.BorrowedAt,
		DueAt:      req.DueAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToLoanResponse(loan))
}

// Return marks a loan returned; repeating it is harmless
// POST /api/loans/:loan_id/return
func (h *LoanHandler) Return(c *gin.Context) {
	id, ok := parseID(c, "loan_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	loan, err := h.svc.ReturnLoan(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToLoanResponse(loan))
}

// DELETE /api/loans/:loan_id
func (h *LoanHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "loan_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if err := h.svc.DeleteLoan(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Sweep flags Borrowed loans past their due date as Overdue
// POST /api/loans/sweep
func (h *LoanHandler) Sweep(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	ids, err := h.svc.SweepOverdue(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	c.JSON(http.StatusOK, dto.SweepResponse{Marked: len(ids), LoanIDs: ids})
}
