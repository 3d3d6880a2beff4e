package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tonvq/ketoan_backend/internal/core/domain"
	portssvc "github.com/tonvq/ketoan_backend/internal/core/ports/services"
	"github.com/tonvq/ketoan_backend/internal/core/services"
	"github.com/tonvq/ketoan_backend/internal/dto"
	"github.com/tonvq/ketoan_backend/internal/middleware"
)

// documentHandler handles HTTP requests for journal documents.
type documentHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newDocumentHandler creates a new documentHandler.
func newDocumentHandler(journalService portssvc.JournalSvcFacade) *documentHandler {
	return &documentHandler{
		journalService: journalService,
	}
}

// isRequestError reports whether a journal service error is the caller's
// fault rather than a server failure.
func isRequestError(err error) bool {
	return errors.Is(err, services.ErrDocumentMinLines) ||
		errors.Is(err, services.ErrLineAmountNotPositive) ||
		errors.Is(err, services.ErrLineNoAccount) ||
		errors.Is(err, services.ErrDateOrder) ||
		errors.Is(err, services.ErrInvalidDocumentType)
}

func (h *documentHandler) createDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.journalService.CreateDocument(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if isRequestError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

func (h *documentHandler) getDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	documentID, err := strconv.ParseInt(c.Param("documentID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID"})
		return
	}

	doc, err := h.journalService.GetDocument(c.Request.Context(), documentID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

func (h *documentHandler) listDocuments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.ListDocumentsParams{
		Search: c.Query("search"),
	}
	if v := c.Query("documentType"); v != "" {
		t := domain.DocumentType(v)
		params.DocumentType = &t
	}
	if v := c.Query("status"); v != "" {
		s := domain.DocumentStatus(v)
		params.Status = &s
	}
	if v := c.Query("fromDate"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fromDate, expected YYYY-MM-DD"})
			return
		}
		params.FromDate = &d
	}
	if v := c.Query("toDate"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid toDate, expected YYYY-MM-DD"})
			return
		}
		params.ToDate = &d
	}
	if v := c.Query("counterpartyID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid counterpartyID"})
			return
		}
		params.CounterpartyID = &id
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 || limit > 200 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		params.Limit = limit
	}
	if v := c.Query("nextToken"); v != "" {
		params.NextToken = &v
	}

	resp, err := h.journalService.ListDocuments(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *documentHandler) updateDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	documentID, err := strconv.ParseInt(c.Param("documentID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID"})
		return
	}

	var req dto.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.journalService.UpdateDocument(c.Request.Context(), documentID, req, userID)
	if err != nil {
		if isRequestError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

func (h *documentHandler) deleteDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	documentID, err := strconv.ParseInt(c.Param("documentID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.journalService.DeleteDocument(c.Request.Context(), documentID, userID); err != nil {
		respondError(c, logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *documentHandler) approveDocument(c *gin.Context) {
	h.lifecycle(c, h.journalService.ApproveDocument)
}

func (h *documentHandler) cancelDocument(c *gin.Context) {
	h.lifecycle(c, h.journalService.CancelDocument)
}

func (h *documentHandler) lifecycle(c *gin.Context, op func(ctx context.Context, documentID int64, userID string) (*domain.JournalDocument, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	documentID, err := strconv.ParseInt(c.Param("documentID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := op(c.Request.Context(), documentID, userID)
	if err != nil {
		if isRequestError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// registerDocumentRoutes registers journal document routes.
func registerDocumentRoutes(group *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newDocumentHandler(journalService)

	documents := group.Group("/documents")
	documents.POST("", h.createDocument)
	documents.GET("", h.listDocuments)
	documents.GET("/:documentID", h.getDocument)
	documents.PUT("/:documentID", h.updateDocument)
	documents.DELETE("/:documentID", h.deleteDocument)
	documents.POST("/:documentID/approve", h.approveDocument)
	documents.POST("/:documentID/cancel", h.cancelDocument)
}
