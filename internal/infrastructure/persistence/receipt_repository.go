package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/facturio/backend/internal/domain/ledger"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// allocatedAmountExpr derives a receipt's allocated amount from its
// non-reversed allocations. Receipts never store the sum, so every load
// recomputes it and the ledger cannot drift.
const allocatedAmountExpr = "COALESCE((SELECT SUM(a.amount) FROM allocations a WHERE a.source_type = 'RECEIPT' AND a.source_id = receipts.id AND a.reversed = ?), 0)"

// GormReceiptRepository implements ReceiptRepository using GORM
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

func (r *GormReceiptRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.ReceiptModel{}).
		Select("receipts.*, "+allocatedAmountExpr+" AS allocated_amount", false)
}

// FindByID finds a receipt by ID
func (r *GormReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Receipt, error) {
	var model models.ReceiptModel
	if err := r.baseQuery(ctx).
		Where("receipts.id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForCompany finds a receipt by ID for a specific company
func (r *GormReceiptRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*ledger.Receipt, error) {
	var model models.ReceiptModel
	if err := r.baseQuery(ctx).
		Where("receipts.id = ? AND receipts.company_id = ?", id, companyID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func applyReceiptFilter(query *gorm.DB, filter ledger.ReceiptFilter) *gorm.DB {
	if filter.ClientID != nil {
		query = query.Where("receipts.client_id = ?", *filter.ClientID)
	}
	if filter.Kind != nil {
		query = query.Where("receipts.kind = ?", *filter.Kind)
	}
	if filter.FromDate != nil {
		query = query.Where("receipts.receipt_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("receipts.receipt_date <= ?", *filter.ToDate)
	}
	if filter.MinAmount != nil {
		query = query.Where("receipts.amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query = query.Where("receipts.amount <= ?", *filter.MaxAmount)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("receipts.number LIKE ? OR receipts.reference LIKE ?", search, search)
	}
	if filter.Status != nil {
		// The status is derived, so the filter re-states it over the
		// allocation sum.
		switch *filter.Status {
		case ledger.ReceiptStatusCancelled:
			query = query.Where("receipts.cancelled_at IS NOT NULL")
		case ledger.ReceiptStatusAvailable:
			query = query.Where("receipts.cancelled_at IS NULL AND "+allocatedAmountExpr+" = 0", false)
		case ledger.ReceiptStatusPartiallyAllocated:
			query = query.Where("receipts.cancelled_at IS NULL AND "+allocatedAmountExpr+" > 0 AND "+allocatedAmountExpr+" < receipts.amount", false, false)
		case ledger.ReceiptStatusFullyAllocated:
			query = query.Where("receipts.cancelled_at IS NULL AND "+allocatedAmountExpr+" >= receipts.amount", false)
		}
	}
	return query
}

// FindAllForCompany finds all receipts for a company with filtering
func (r *GormReceiptRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter ledger.ReceiptFilter) ([]ledger.Receipt, error) {
	var receiptModels []models.ReceiptModel
	query := applyReceiptFilter(r.baseQuery(ctx).Where("receipts.company_id = ?", companyID), filter)

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}

	orderField := ValidateSortField(filter.OrderBy, ReceiptSortFields, "receipt_date")
	orderClause := "receipts." + orderField + " " + ValidateSortOrder(filter.OrderDir)
	if orderField != "created_at" {
		orderClause += ", receipts.created_at DESC"
	}

	if err := query.Order(orderClause).Find(&receiptModels).Error; err != nil {
		return nil, err
	}
	receipts := make([]ledger.Receipt, len(receiptModels))
	for i, model := range receiptModels {
		receipts[i] = *model.ToDomain()
	}
	return receipts, nil
}

// FindAvailableDeposits finds deposit receipts of a client that still carry
// remaining credit, oldest receipt date first (FIFO consumption order)
func (r *GormReceiptRepository) FindAvailableDeposits(ctx context.Context, companyID, clientID uuid.UUID) ([]ledger.Receipt, error) {
	var receiptModels []models.ReceiptModel
	if err := r.baseQuery(ctx).
		Where("receipts.company_id = ? AND receipts.client_id = ?", companyID, clientID).
		Where("receipts.kind = ?", ledger.ReceiptKindDeposit).
		Where("receipts.cancelled_at IS NULL").
		Where(allocatedAmountExpr+" < receipts.amount", false).
		Order("receipts.receipt_date ASC, receipts.created_at ASC").
		Find(&receiptModels).Error; err != nil {
		return nil, err
	}
	receipts := make([]ledger.Receipt, len(receiptModels))
	for i, model := range receiptModels {
		receipts[i] = *model.ToDomain()
	}
	return receipts, nil
}

// CountForCompany counts receipts for a company with optional filters
func (r *GormReceiptRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter ledger.ReceiptFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.ReceiptModel{}).
		Where("receipts.company_id = ?", companyID)
	if err := applyReceiptFilter(query, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a receipt
func (r *GormReceiptRepository) Save(ctx context.Context, receipt *ledger.Receipt) error {
	model := models.ReceiptModelFromDomain(receipt)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking. The version check serializes
// concurrent allocation commits against the same receipt.
func (r *GormReceiptRepository) SaveWithLock(ctx context.Context, receipt *ledger.Receipt) error {
	currentVersion := receipt.Version
	receipt.Version++

	model := models.ReceiptModelFromDomain(receipt)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", receipt.ID, currentVersion).
		Updates(model)

	if result.Error != nil {
		receipt.Version = currentVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		receipt.Version = currentVersion
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// GenerateReceiptNumber generates the next sequential receipt number for a
// company and year, e.g. REC-2026-00042.
func (r *GormReceiptRepository) GenerateReceiptNumber(ctx context.Context, companyID uuid.UUID, receiptDate time.Time) (string, error) {
	seq, err := nextSequence(r.db.WithContext(ctx), companyID, "REC", receiptDate.Year())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("REC-%d-%05d", receiptDate.Year(), seq), nil
}

// sequenceClaimAttempts bounds the compare-and-swap loop when concurrent
// callers race for the same sequence row.
const sequenceClaimAttempts = 5

// nextSequence claims the next value from the ledger sequence table for a
// company, prefix and year. The conditional update makes the claim atomic
// without row locks.
func nextSequence(db *gorm.DB, companyID uuid.UUID, prefix string, year int) (int64, error) {
	for attempt := 0; attempt < sequenceClaimAttempts; attempt++ {
		var row models.ReceiptSequenceModel
		err := db.
			Where("company_id = ? AND prefix = ? AND year = ?", companyID, prefix, year).
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = models.ReceiptSequenceModel{
				CompanyID: companyID,
				Prefix:    prefix,
				Year:      year,
				NextValue: 2,
				UpdatedAt: time.Now(),
			}
			if err := db.Create(&row).Error; err != nil {
				// Another caller created the row first; re-read and retry.
				continue
			}
			return 1, nil
		}
		if err != nil {
			return 0, err
		}

		seq := row.NextValue
		result := db.Model(&models.ReceiptSequenceModel{}).
			Where("company_id = ? AND prefix = ? AND year = ? AND next_value = ?", companyID, prefix, year, seq).
			Updates(map[string]interface{}{
				"next_value": seq + 1,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return 0, result.Error
		}
		if result.RowsAffected == 1 {
			return seq, nil
		}
		// Lost the race for this value; retry with a fresh read.
	}
	return 0, shared.ErrConcurrencyConflict
}
