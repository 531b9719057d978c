package handler

import (
	ledgerapp "github.com/facturio/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReceiptHandler handles receipt ledger API endpoints
type ReceiptHandler struct {
	BaseHandler
	receiptService *ledgerapp.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *ledgerapp.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
	}
}

// Create godoc
// @Summary      Record receipt
// @Description  Record an incoming client payment or deposit
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        Idempotency-Key header string false "Idempotency key protecting against double submission"
// @Param        request body ledgerapp.CreateReceiptRequest true "Receipt to record"
// @Success      201 {object} dto.Response{data=ledgerapp.ReceiptResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /ledger/receipts [post]
func (h *ReceiptHandler) Create(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var req ledgerapp.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receipt, err := h.receiptService.CreateReceipt(c.Request.Context(), companyID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, receipt)
}

// GetByID godoc
// @Summary      Get receipt by ID
// @Description  Retrieve a receipt with its allocated and remaining amounts
// @Tags         receipts
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Receipt ID" format(uuid)
// @Success      200 {object} dto.Response{data=ledgerapp.ReceiptResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /ledger/receipts/{id} [get]
func (h *ReceiptHandler) GetByID(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	receipt, err := h.receiptService.GetReceiptByID(c.Request.Context(), companyID, receiptID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receipt)
}

// List godoc
// @Summary      List receipts
// @Description  Retrieve a paginated list of receipts with optional filtering
// @Tags         receipts
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        search query string false "Search term (number, reference)"
// @Param        client_id query string false "Client ID" format(uuid)
// @Param        kind query string false "Receipt kind" Enums(PAYMENT, DEPOSIT)
// @Param        status query string false "Receipt status" Enums(OPEN, PARTIALLY_ALLOCATED, FULLY_ALLOCATED, CANCELLED)
// @Param        from_date query string false "Receipt date lower bound (ISO 8601)" format(date-time)
// @Param        to_date query string false "Receipt date upper bound (ISO 8601)" format(date-time)
// @Param        sort query string false "Sort field" default(receipt_date)
// @Param        sort_dir query string false "Sort direction" Enums(asc, desc) default(desc)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]ledgerapp.ReceiptResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /ledger/receipts [get]
func (h *ReceiptHandler) List(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var filter ledgerapp.ReceiptListFilter
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

	receipts, total, err := h.receiptService.ListReceipts(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, receipts, total, filter.Page, filter.PageSize)
}

// Cancel godoc
// @Summary      Cancel receipt
// @Description  Cancel a receipt that has no active allocations
// @Tags         receipts
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Receipt ID" format(uuid)
// @Success      200 {object} dto.Response{data=ledgerapp.ReceiptResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /ledger/receipts/{id}/cancel [post]
func (h *ReceiptHandler) Cancel(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	receipt, err := h.receiptService.CancelReceipt(c.Request.Context(), companyID, receiptID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receipt)
}

// ListAllocations godoc
// @Summary      List receipt allocations
// @Description  List the allocations funded by a receipt, including reversed ones
// @Tags         receipts
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Receipt ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]ledgerapp.AllocationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /ledger/receipts/{id}/allocations [get]
func (h *ReceiptHandler) ListAllocations(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	allocations, err := h.receiptService.ListReceiptAllocations(c.Request.Context(), companyID, receiptID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, allocations)
}
