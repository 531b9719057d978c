package handler

import (
	"errors"
	"net/http"

	reconapp "github.com/facturio/backend/internal/application/reconciliation"
	"github.com/facturio/backend/internal/domain/shared"
	csvimport "github.com/facturio/backend/internal/infrastructure/import"
	"github.com/facturio/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Maximum accepted bank statement upload size (10MB)
const maxStatementFileSize = 10 * 1024 * 1024

// ReconciliationHandler handles bank reconciliation API endpoints
type ReconciliationHandler struct {
	BaseHandler
	reconciliationService *reconapp.ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler
func NewReconciliationHandler(reconciliationService *reconapp.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{
		reconciliationService: reconciliationService,
	}
}

// ImportBankLinesRequest represents a batch of bank statement lines to import
// @Description Request body for importing bank statement lines
type ImportBankLinesRequest struct {
	Lines []reconapp.ImportBankLineRequest `json:"lines" binding:"required,min=1"`
}

// ProposeMatchRequest represents a request to link a receipt to a bank line
// @Description Request body for creating a reconciliation link
type ProposeMatchRequest struct {
	ReceiptID  uuid.UUID `json:"receipt_id" binding:"required"`
	BankLineID uuid.UUID `json:"bank_line_id" binding:"required"`
}

// ImportBankLines godoc
// @Summary      Import bank statement lines
// @Description  Validate and persist a batch of bank statement lines
// @Tags         reconciliation
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        request body ImportBankLinesRequest true "Lines to import"
// @Success      201 {object} dto.Response{data=[]reconapp.BankLineResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reconciliation/bank-lines/import [post]
func (h *ReconciliationHandler) ImportBankLines(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var req ImportBankLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lines, err := h.reconciliationService.ImportBankLines(c.Request.Context(), companyID, req.Lines)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, lines)
}

// ImportBankLinesCSV godoc
// @Summary      Import bank statement CSV
// @Description  Parse an uploaded CSV bank statement and import its lines. The import is rejected as a whole when any row is invalid.
// @Tags         reconciliation
// @Accept       multipart/form-data
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        file formData file true "CSV file with date, description, amount and optional reference columns"
// @Success      201 {object} dto.Response{data=reconapp.BankLineCSVImportResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{data=reconapp.BankLineCSVImportResult}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reconciliation/bank-lines/import-csv [post]
func (h *ReconciliationHandler) ImportBankLinesCSV(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if header.Size > maxStatementFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeValidation, "file exceeds maximum size of 10MB")
		return
	}

	result, err := h.reconciliationService.ImportBankLinesCSV(c.Request.Context(), companyID, file)
	if err != nil {
		switch {
		case errors.Is(err, csvimport.ErrEmptyFile):
			h.BadRequest(c, "CSV file is empty")
		case errors.Is(err, csvimport.ErrInvalidEncoding):
			h.BadRequest(c, "CSV file has invalid encoding, must be UTF-8")
		case errors.Is(err, csvimport.ErrMissingHeader):
			h.BadRequest(c, err.Error())
		case errors.Is(err, csvimport.ErrNoDataRows):
			h.BadRequest(c, "CSV file contains no data rows")
		default:
			h.HandleDomainError(c, err)
		}
		return
	}

	if len(result.Errors) > 0 {
		c.JSON(http.StatusUnprocessableEntity, dto.Response{Success: false, Data: result})
		return
	}

	h.Created(c, result)
}

// ListBankLines godoc
// @Summary      List bank statement lines
// @Description  Retrieve imported bank statement lines with optional filtering
// @Tags         reconciliation
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        search query string false "Search term (description, reference)"
// @Param        from_date query string false "Line date lower bound (ISO 8601)" format(date-time)
// @Param        to_date query string false "Line date upper bound (ISO 8601)" format(date-time)
// @Param        unmatched query bool false "Only lines without an active reconciliation link"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]reconapp.BankLineResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reconciliation/bank-lines [get]
func (h *ReconciliationHandler) ListBankLines(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var filter reconapp.BankLineListFilter
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

	lines, err := h.reconciliationService.ListBankLines(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, lines)
}

// ProposeMatch godoc
// @Summary      Propose reconciliation match
// @Description  Link a receipt to a bank statement line, recording any amount discrepancy
// @Tags         reconciliation
// @Accept       json
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        request body ProposeMatchRequest true "Receipt and bank line to link"
// @Success      201 {object} dto.Response{data=reconapp.LinkResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reconciliation/links [post]
func (h *ReconciliationHandler) ProposeMatch(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var req ProposeMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	link, err := h.reconciliationService.ProposeMatch(c.Request.Context(), companyID, req.ReceiptID, req.BankLineID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, link)
}

// Unmatch godoc
// @Summary      Remove reconciliation link
// @Description  Break a reconciliation link, freeing both sides for rematching
// @Tags         reconciliation
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        id path string true "Link ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reconciliation/links/{id} [delete]
func (h *ReconciliationHandler) Unmatch(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	linkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid link ID format")
		return
	}

	if err := h.reconciliationService.Unmatch(c.Request.Context(), companyID, linkID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// ListLinks godoc
// @Summary      List reconciliation links
// @Description  Retrieve reconciliation links for the company
// @Tags         reconciliation
// @Produce      json
// @Param        X-Company-ID header string true "Company ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]reconapp.LinkResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reconciliation/links [get]
func (h *ReconciliationHandler) ListLinks(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}

	var listReq struct {
		Page     int `form:"page"`
		PageSize int `form:"page_size"`
	}
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if listReq.Page < 1 {
		listReq.Page = 1
	}
	if listReq.PageSize < 1 || listReq.PageSize > 100 {
		listReq.PageSize = 20
	}

	links, err := h.reconciliationService.ListLinks(c.Request.Context(), companyID, shared.Filter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, links)
}
