package handler

import (
	ledgerapp "github.com/facturio/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditNoteHandler handles credit note API endpoints
type CreditNoteHandler struct {
	BaseHandler
	creditNoteService *ledgerapp.CreditNoteService
	allocationService *ledgerapp.AllocationService
}

// NewCreditNoteHandler creates a new CreditNoteHandler
func NewCreditNoteHandler(
	creditNoteService *ledgerapp.CreditNoteService,
	allocationService *ledgerapp.AllocationService,
) *CreditNoteHandler {
	return &CreditNoteHandler{
		creditNoteService: creditNoteService,
		allocationService: allocationService,
	}
}

// ApplyCreditNoteRequest represents a request to apply a credit note
// @Description Request body for applying a credit note to its invoice
type ApplyCreditNoteRequest struct {
	InvoiceID uuid.UUID       `json:"invoice_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// Create godoc
// @Summary      Issue credit note
// @Description  Issue a full or partial credit note against a finalized invoice
// @Tags         credit-notes
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        request body ledgerapp.CreateCreditNoteRequest true "Credit note to issue"
// @Success      201 {object} dto.Response{data=ledgerapp.CreditNoteResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /ledger/credit-notes [post]
func (h *CreditNoteHandler) Create(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var req ledgerapp.CreateCreditNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	creditNote, err := h.creditNoteService.CreateCreditNote(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, creditNote)
}

// GetByID godoc
// @Summary      Get credit note by ID
// @Description  Retrieve a credit note with its applied amount
// @Tags         credit-notes
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Credit note ID" format(uuid)
// @Success      200 {object} dto.Response{data=ledgerapp.CreditNoteResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /ledger/credit-notes/{id} [get]
func (h *CreditNoteHandler) GetByID(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	creditNoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid credit note ID format")
		return
	}

	creditNote, err := h.creditNoteService.GetCreditNoteByID(c.Request.Context(), companyID, creditNoteID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, creditNote)
}

// List godoc
// @Summary      List credit notes
// @Description  Retrieve a paginated list of credit notes with optional filtering
// @Tags         credit-notes
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        search query string false "Search term (number, notes)"
// @Param        client_id query string false "Client ID" format(uuid)
// @Param        invoice_id query string false "Invoice ID" format(uuid)
// @Param        status query string false "Credit note status" Enums(DRAFT, ISSUED, APPLIED)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]ledgerapp.CreditNoteResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /ledger/credit-notes [get]
func (h *CreditNoteHandler) List(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var filter ledgerapp.CreditNoteListFilter
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

	creditNotes, total, err := h.creditNoteService.ListCreditNotes(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, creditNotes, total, filter.Page, filter.PageSize)
}

// MarkSent godoc
// @Summary      Mark credit note as sent
// @Description  Transition a draft credit note to ISSUED
// @Tags         credit-notes
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Credit note ID" format(uuid)
// @Success      200 {object} dto.Response{data=ledgerapp.CreditNoteResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /ledger/credit-notes/{id}/send [post]
func (h *CreditNoteHandler) MarkSent(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	creditNoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid credit note ID format")
		return
	}

	creditNote, err := h.creditNoteService.MarkCreditNoteSent(c.Request.Context(), companyID, creditNoteID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, creditNote)
}

// Apply godoc
// @Summary      Apply credit note
// @Description  Apply an issued credit note's amount against its invoice's outstanding
// @Tags         credit-notes
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        Idempotency-Key header string false "Idempotency key protecting against double submission"
// @Param        id path string true "Credit note ID" format(uuid)
// @Param        request body ApplyCreditNoteRequest true "Invoice and amount to apply"
// @Success      201 {object} dto.Response{data=ledgerapp.AllocationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /ledger/credit-notes/{id}/apply [post]
func (h *CreditNoteHandler) Apply(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	creditNoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid credit note ID format")
		return
	}

	var req ApplyCreditNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	allocation, err := h.allocationService.ApplyCreditNote(c.Request.Context(), companyID, creditNoteID, req.InvoiceID, req.Amount)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toAllocationView(allocation))
}
