package handler

import (
	ledgerapp "github.com/facturio/backend/internal/application/ledger"
	"github.com/facturio/backend/internal/domain/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationHandler handles allocation API endpoints
type AllocationHandler struct {
	BaseHandler
	allocationService *ledgerapp.AllocationService
}

// NewAllocationHandler creates a new AllocationHandler
func NewAllocationHandler(allocationService *ledgerapp.AllocationService) *AllocationHandler {
	return &AllocationHandler{
		allocationService: allocationService,
	}
}

// AllocateRequest represents a request to apply receipt funds to a document
// @Description Request body for a manual allocation
type AllocateRequest struct {
	ReceiptID  uuid.UUID       `json:"receipt_id" binding:"required"`
	DocumentID uuid.UUID       `json:"document_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
}

// AutoAllocateRequest represents a request to apply a batch of proposals
// @Description Request body for an auto-allocation pass against one document
type AutoAllocateRequest struct {
	DocumentID uuid.UUID                      `json:"document_id" binding:"required"`
	Proposals  []ledgerapp.AllocationProposal `json:"proposals" binding:"required,min=1"`
}

// AutoAllocateDepositsRequest represents a request to settle open deposits
// @Description Request body for settling a client's open deposits against an invoice
type AutoAllocateDepositsRequest struct {
	ClientID   uuid.UUID `json:"client_id" binding:"required"`
	DocumentID uuid.UUID `json:"document_id" binding:"required"`
}

// Allocate godoc
// @Summary      Allocate receipt funds
// @Description  Apply part of a receipt's remaining amount to an open document
// @Tags         allocations
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        Idempotency-Key header string false "Idempotency key protecting against double submission"
// @Param        request body AllocateRequest true "Allocation to apply"
// @Success      201 {object} dto.Response{data=ledgerapp.AllocationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /ledger/allocations [post]
func (h *AllocationHandler) Allocate(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var req AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	allocation, err := h.allocationService.Allocate(c.Request.Context(), companyID, req.ReceiptID, req.DocumentID, req.Amount)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toAllocationView(allocation))
}

// AutoAllocate godoc
// @Summary      Auto-allocate receipts
// @Description  Apply a batch of allocation proposals to one document in a single transaction
// @Tags         allocations
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        Idempotency-Key header string false "Idempotency key protecting against double submission"
// @Param        request body AutoAllocateRequest true "Proposals to apply"
// @Success      200 {object} dto.Response{data=ledgerapp.AutoAllocateResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /ledger/allocations/auto [post]
func (h *AllocationHandler) AutoAllocate(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var req AutoAllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.allocationService.AutoAllocate(c.Request.Context(), companyID, req.DocumentID, req.Proposals)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// AutoAllocateDeposits godoc
// @Summary      Settle open deposits
// @Description  Apply a client's open deposit receipts to an invoice, oldest receipt first
// @Tags         allocations
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        Idempotency-Key header string false "Idempotency key protecting against double submission"
// @Param        request body AutoAllocateDepositsRequest true "Client and target invoice"
// @Success      200 {object} dto.Response{data=ledgerapp.AutoAllocateResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /ledger/allocations/deposits [post]
func (h *AllocationHandler) AutoAllocateDeposits(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var req AutoAllocateDepositsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.allocationService.AutoAllocateDeposits(c.Request.Context(), companyID, req.ClientID, req.DocumentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Reverse godoc
// @Summary      Reverse allocation
// @Description  Undo an allocation, restoring the source's remaining amount and the document's outstanding
// @Tags         allocations
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Allocation ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /ledger/allocations/{id}/reverse [post]
func (h *AllocationHandler) Reverse(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	allocationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid allocation ID format")
		return
	}

	if err := h.allocationService.Reverse(c.Request.Context(), companyID, allocationID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

func toAllocationView(a *ledger.Allocation) *ledgerapp.AllocationResponse {
	return &ledgerapp.AllocationResponse{
		ID:         a.ID,
		CompanyID:  a.CompanyID,
		SourceType: string(a.SourceType),
		SourceID:   a.SourceID,
		DocumentID: a.DocumentID,
		Amount:     a.Amount,
		Reversed:   a.Reversed,
		ReversedAt: a.ReversedAt,
		CreatedAt:  a.CreatedAt,
	}
}
