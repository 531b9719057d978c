package persistence

import (
	"context"
	"errors"

	"github.com/facturio/backend/internal/domain/ledger"
	"github.com/facturio/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormAllocationRepository implements AllocationRepository using GORM
type GormAllocationRepository struct {
	db *gorm.DB
}

// NewGormAllocationRepository creates a new GormAllocationRepository
func NewGormAllocationRepository(db *gorm.DB) *GormAllocationRepository {
	return &GormAllocationRepository{db: db}
}

// FindByID finds an allocation by ID
func (r *GormAllocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Allocation, error) {
	var model models.AllocationModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForCompany finds an allocation by ID scoped to a company
func (r *GormAllocationRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*ledger.Allocation, error) {
	var model models.AllocationModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySource finds allocations originating from a receipt or credit note
func (r *GormAllocationRepository) FindBySource(ctx context.Context, companyID uuid.UUID, sourceType ledger.AllocationSourceType, sourceID uuid.UUID) ([]ledger.Allocation, error) {
	var allocationModels []models.AllocationModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND source_type = ? AND source_id = ?", companyID, sourceType, sourceID).
		Order("created_at ASC").
		Find(&allocationModels).Error; err != nil {
		return nil, err
	}
	return toDomainAllocations(allocationModels), nil
}

// FindByDocument finds allocations targeting a document
func (r *GormAllocationRepository) FindByDocument(ctx context.Context, companyID, documentID uuid.UUID) ([]ledger.Allocation, error) {
	var allocationModels []models.AllocationModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND document_id = ?", companyID, documentID).
		Order("created_at ASC").
		Find(&allocationModels).Error; err != nil {
		return nil, err
	}
	return toDomainAllocations(allocationModels), nil
}

// SumActiveBySource sums non-reversed allocation amounts from a source
func (r *GormAllocationRepository) SumActiveBySource(ctx context.Context, companyID uuid.UUID, sourceType ledger.AllocationSourceType, sourceID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&models.AllocationModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("company_id = ? AND source_type = ? AND source_id = ? AND reversed = ?", companyID, sourceType, sourceID, false).
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// SumActiveByDocument sums non-reversed allocation amounts targeting a document
func (r *GormAllocationRepository) SumActiveByDocument(ctx context.Context, companyID, documentID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&models.AllocationModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("company_id = ? AND document_id = ? AND reversed = ?", companyID, documentID, false).
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// CountActiveByDocument counts non-reversed allocations targeting a document
func (r *GormAllocationRepository) CountActiveByDocument(ctx context.Context, companyID, documentID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AllocationModel{}).
		Where("company_id = ? AND document_id = ? AND reversed = ?", companyID, documentID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an allocation
func (r *GormAllocationRepository) Save(ctx context.Context, allocation *ledger.Allocation) error {
	model := models.AllocationModelFromDomain(allocation)
	return r.db.WithContext(ctx).Save(model).Error
}

func toDomainAllocations(allocationModels []models.AllocationModel) []ledger.Allocation {
	allocations := make([]ledger.Allocation, len(allocationModels))
	for i, model := range allocationModels {
		allocations[i] = *model.ToDomain()
	}
	return allocations
}
