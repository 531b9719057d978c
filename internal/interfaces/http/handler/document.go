package handler

import (
	"context"

	billingapp "github.com/facturio/backend/internal/application/billing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DocumentHandler handles billing document API endpoints
type DocumentHandler struct {
	BaseHandler
	documentService *billingapp.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documentService *billingapp.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
	}
}

// CancelDocumentRequest represents a request to cancel a document
// @Description Request body for cancelling a document
type CancelDocumentRequest struct {
	Reason string `json:"reason" binding:"max=500" example:"Client withdrew the order"`
}

// Create godoc
// @Summary      Create document
// @Description  Create a new draft quote or invoice with computed totals
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        request body billingapp.CreateDocumentRequest true "Document to create"
// @Success      201 {object} dto.Response{data=billingapp.DocumentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /billing/documents [post]
func (h *DocumentHandler) Create(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var req billingapp.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	document, err := h.documentService.CreateDocument(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, document)
}

// GetByID godoc
// @Summary      Get document by ID
// @Description  Retrieve a document with its lines, totals and outstanding amount
// @Tags         documents
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} dto.Response{data=billingapp.DocumentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /billing/documents/{id} [get]
func (h *DocumentHandler) GetByID(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	document, err := h.documentService.GetDocumentByID(c.Request.Context(), companyID, documentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, document)
}

// List godoc
// @Summary      List documents
// @Description  Retrieve a paginated list of documents with optional filtering
// @Tags         documents
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        search query string false "Search term (number, notes)"
// @Param        kind query string false "Document kind" Enums(QUOTE, INVOICE)
// @Param        status query string false "Document status" Enums(DRAFT, FINALIZED, SENT, ACCEPTED, EXPIRED, PAID, CANCELLED, ARCHIVED)
// @Param        client_id query string false "Client ID" format(uuid)
// @Param        from_date query string false "Issue date lower bound (ISO 8601)" format(date-time)
// @Param        to_date query string false "Issue date upper bound (ISO 8601)" format(date-time)
// @Param        sort query string false "Sort field" default(issue_date)
// @Param        sort_dir query string false "Sort direction" Enums(asc, desc) default(desc)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]billingapp.DocumentResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /billing/documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var filter billingapp.DocumentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	documents, total, err := h.documentService.ListDocuments(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, documents, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update draft document
// @Description  Replace the lines, discount, taxes or notes of a draft document and recompute totals
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Document ID" format(uuid)
// @Param        request body billingapp.UpdateDocumentRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=billingapp.DocumentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /billing/documents/{id} [put]
func (h *DocumentHandler) Update(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	var req billingapp.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	document, err := h.documentService.UpdateDocument(c.Request.Context(), companyID, documentID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, document)
}

// PreviewTotals godoc
// @Summary      Preview document totals
// @Description  Compute the totals a document would have without persisting anything
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        request body billingapp.CreateDocumentRequest true "Document to price"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /billing/documents/preview [post]
func (h *DocumentHandler) PreviewTotals(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var req billingapp.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	totals, err := h.documentService.PreviewTotals(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, totals)
}

// Recompute godoc
// @Summary      Recompute document totals
// @Description  Re-run the totals computation of a draft document against current tax rates
// @Tags         documents
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} dto.Response{data=billingapp.DocumentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /billing/documents/{id}/recompute [post]
func (h *DocumentHandler) Recompute(c *gin.Context) {
	h.transition(c, h.documentService.RecomputeDocument)
}

// Finalize godoc
// @Summary      Finalize document
// @Description  Assign a sequential number, freeze the document and settle open deposits when enabled
// @Tags         documents
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} dto.Response{data=billingapp.FinalizeDocumentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /billing/documents/{id}/finalize [post]
func (h *DocumentHandler) Finalize(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	result, err := h.documentService.FinalizeDocument(c.Request.Context(), companyID, documentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// MarkSent godoc
// @Summary      Mark document as sent
// @Description  Transition a finalized document to SENT
// @Tags         documents
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} dto.Response{data=billingapp.DocumentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /billing/documents/{id}/send [post]
func (h *DocumentHandler) MarkSent(c *gin.Context) {
	h.transition(c, h.documentService.MarkDocumentSent)
}

// Accept godoc
// @Summary      Accept quote
// @Description  Transition a sent quote to ACCEPTED
// @Tags         documents
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} dto.Response{data=billingapp.DocumentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /billing/documents/{id}/accept [post]
func (h *DocumentHandler) Accept(c *gin.Context) {
	h.transition(c, h.documentService.AcceptQuote)
}

// Expire godoc
// @Summary      Expire quote
// @Description  Transition a sent quote to EXPIRED
// @Tags         documents
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} dto.Response{data=billingapp.DocumentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /billing/documents/{id}/expire [post]
func (h *DocumentHandler) Expire(c *gin.Context) {
	h.transition(c, h.documentService.ExpireQuote)
}

// Cancel godoc
// @Summary      Cancel document
// @Description  Cancel a document that has no active allocations
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Document ID" format(uuid)
// @Param        request body CancelDocumentRequest false "Cancellation reason"
// @Success      200 {object} dto.Response{data=billingapp.DocumentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /billing/documents/{id}/cancel [post]
func (h *DocumentHandler) Cancel(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	var req CancelDocumentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	document, err := h.documentService.CancelDocument(c.Request.Context(), companyID, documentID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, document)
}

// Archive godoc
// @Summary      Archive document
// @Description  Archive a terminal document, locking its allocations
// @Tags         documents
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} dto.Response{data=billingapp.DocumentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /billing/documents/{id}/archive [post]
func (h *DocumentHandler) Archive(c *gin.Context) {
	h.transition(c, h.documentService.ArchiveDocument)
}

// transition runs a parameterless document state transition shared by the
// send/accept/expire/archive/recompute endpoints.
func (h *DocumentHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, companyID, id uuid.UUID) (*billingapp.DocumentResponse, error),
) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	document, err := fn(c.Request.Context(), companyID, documentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, document)
}
