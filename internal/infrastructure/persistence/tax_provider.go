package persistence

import (
	"context"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTaxProvider resolves tax definitions from the taxes table
type GormTaxProvider struct {
	db *gorm.DB
}

// NewGormTaxProvider creates a new GormTaxProvider
func NewGormTaxProvider(db *gorm.DB) *GormTaxProvider {
	return &GormTaxProvider{db: db}
}

// TaxesByIDs returns the active tax definitions for the given IDs.
// Unknown and inactive IDs are silently omitted.
func (p *GormTaxProvider) TaxesByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]billing.Tax, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var taxModels []models.TaxModel
	if err := p.db.WithContext(ctx).
		Where("company_id = ? AND id IN ? AND active = ?", companyID, ids, true).
		Find(&taxModels).Error; err != nil {
		return nil, err
	}

	// Preserve the caller's ID order; the calculator applies taxes in order.
	byID := make(map[uuid.UUID]billing.Tax, len(taxModels))
	for _, model := range taxModels {
		byID[model.ID] = model.ToDomain()
	}
	taxes := make([]billing.Tax, 0, len(taxModels))
	for _, id := range ids {
		if tax, ok := byID[id]; ok {
			taxes = append(taxes, tax)
		}
	}
	return taxes, nil
}

// GormClientDirectory resolves client identifiers from the clients table
type GormClientDirectory struct {
	db *gorm.DB
}

// NewGormClientDirectory creates a new GormClientDirectory
func NewGormClientDirectory(db *gorm.DB) *GormClientDirectory {
	return &GormClientDirectory{db: db}
}

// ClientExists reports whether the client is known to the directory
func (d *GormClientDirectory) ClientExists(ctx context.Context, companyID, clientID uuid.UUID) (bool, error) {
	var count int64
	if err := d.db.WithContext(ctx).
		Model(&models.ClientModel{}).
		Where("id = ? AND company_id = ?", clientID, companyID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
