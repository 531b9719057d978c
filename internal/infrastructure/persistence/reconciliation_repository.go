package persistence

import (
	"context"
	"errors"

	"github.com/facturio/backend/internal/domain/reconciliation"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBankLineRepository implements BankLineRepository using GORM
type GormBankLineRepository struct {
	db *gorm.DB
}

// NewGormBankLineRepository creates a new GormBankLineRepository
func NewGormBankLineRepository(db *gorm.DB) *GormBankLineRepository {
	return &GormBankLineRepository{db: db}
}

// FindByID finds a bank line by ID
func (r *GormBankLineRepository) FindByID(ctx context.Context, id uuid.UUID) (*reconciliation.BankStatementLine, error) {
	var model models.BankLineModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForCompany finds a bank line by ID scoped to a company
func (r *GormBankLineRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*reconciliation.BankStatementLine, error) {
	var model models.BankLineModel
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

// FindAllForCompany finds bank lines for a company with filtering
func (r *GormBankLineRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter reconciliation.BankLineFilter) ([]reconciliation.BankStatementLine, error) {
	var lineModels []models.BankLineModel
	query := r.db.WithContext(ctx).
		Model(&models.BankLineModel{}).
		Where("bank_statement_lines.company_id = ?", companyID)

	if filter.FromDate != nil {
		query = query.Where("bank_statement_lines.line_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("bank_statement_lines.line_date <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		query = query.Where("bank_statement_lines.description LIKE ?", "%"+filter.Search+"%")
	}
	if filter.Unmatched != nil && *filter.Unmatched {
		query = query.Where("NOT EXISTS (SELECT 1 FROM reconciliation_links l WHERE l.bank_line_id = bank_statement_lines.id)")
	}

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}

	if err := query.Order("bank_statement_lines.line_date DESC, bank_statement_lines.created_at DESC").Find(&lineModels).Error; err != nil {
		return nil, err
	}
	lines := make([]reconciliation.BankStatementLine, len(lineModels))
	for i, model := range lineModels {
		lines[i] = *model.ToDomain()
	}
	return lines, nil
}

// SaveBatch persists a batch of imported lines
func (r *GormBankLineRepository) SaveBatch(ctx context.Context, lines []reconciliation.BankStatementLine) error {
	if len(lines) == 0 {
		return nil
	}
	lineModels := make([]models.BankLineModel, len(lines))
	for i := range lines {
		lineModels[i] = *models.BankLineModelFromDomain(&lines[i])
	}
	return r.db.WithContext(ctx).Create(&lineModels).Error
}

// Save creates or updates a bank line
func (r *GormBankLineRepository) Save(ctx context.Context, line *reconciliation.BankStatementLine) error {
	model := models.BankLineModelFromDomain(line)
	return r.db.WithContext(ctx).Save(model).Error
}

// GormLinkRepository implements LinkRepository using GORM
type GormLinkRepository struct {
	db *gorm.DB
}

// NewGormLinkRepository creates a new GormLinkRepository
func NewGormLinkRepository(db *gorm.DB) *GormLinkRepository {
	return &GormLinkRepository{db: db}
}

// FindByID finds a link by ID
func (r *GormLinkRepository) FindByID(ctx context.Context, id uuid.UUID) (*reconciliation.ReconciliationLink, error) {
	var model models.ReconciliationLinkModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForCompany finds a link by ID scoped to a company
func (r *GormLinkRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*reconciliation.ReconciliationLink, error) {
	var model models.ReconciliationLinkModel
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

// FindByLedgerEntry finds the link referencing a ledger entry, if any
func (r *GormLinkRepository) FindByLedgerEntry(ctx context.Context, companyID, ledgerEntryID uuid.UUID) (*reconciliation.ReconciliationLink, error) {
	var model models.ReconciliationLinkModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND ledger_entry_id = ?", companyID, ledgerEntryID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBankLine finds the link referencing a bank line, if any
func (r *GormLinkRepository) FindByBankLine(ctx context.Context, companyID, bankLineID uuid.UUID) (*reconciliation.ReconciliationLink, error) {
	var model models.ReconciliationLinkModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND bank_line_id = ?", companyID, bankLineID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForCompany finds links for a company
func (r *GormLinkRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]reconciliation.ReconciliationLink, error) {
	var linkModels []models.ReconciliationLinkModel
	query := r.db.WithContext(ctx).
		Model(&models.ReconciliationLinkModel{}).
		Where("company_id = ?", companyID)

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}

	if err := query.Order("created_at DESC").Find(&linkModels).Error; err != nil {
		return nil, err
	}
	links := make([]reconciliation.ReconciliationLink, len(linkModels))
	for i, model := range linkModels {
		links[i] = *model.ToDomain()
	}
	return links, nil
}

// Save creates a link
func (r *GormLinkRepository) Save(ctx context.Context, link *reconciliation.ReconciliationLink) error {
	model := models.ReconciliationLinkModelFromDomain(link)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a link, restoring both sides to unmatched
func (r *GormLinkRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		Delete(&models.ReconciliationLinkModel{}).Error
}
