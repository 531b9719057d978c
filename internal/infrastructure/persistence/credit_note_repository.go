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

// GormCreditNoteRepository implements CreditNoteRepository using GORM
type GormCreditNoteRepository struct {
	db *gorm.DB
}

// NewGormCreditNoteRepository creates a new GormCreditNoteRepository
func NewGormCreditNoteRepository(db *gorm.DB) *GormCreditNoteRepository {
	return &GormCreditNoteRepository{db: db}
}

// FindByID finds a credit note by ID
func (r *GormCreditNoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.CreditNote, error) {
	var model models.CreditNoteModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForCompany finds a credit note by ID scoped to a company
func (r *GormCreditNoteRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*ledger.CreditNote, error) {
	var model models.CreditNoteModel
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

func applyCreditNoteFilter(query *gorm.DB, filter ledger.CreditNoteFilter) *gorm.DB {
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.InvoiceID != nil {
		query = query.Where("invoice_id = ?", *filter.InvoiceID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("number LIKE ?", "%"+filter.Search+"%")
	}
	return query
}

// FindAllForCompany finds credit notes for a company with filtering
func (r *GormCreditNoteRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter ledger.CreditNoteFilter) ([]ledger.CreditNote, error) {
	var noteModels []models.CreditNoteModel
	query := applyCreditNoteFilter(
		r.db.WithContext(ctx).Model(&models.CreditNoteModel{}).Where("company_id = ?", companyID),
		filter,
	)

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}

	if err := query.Order("issue_date DESC, created_at DESC").Find(&noteModels).Error; err != nil {
		return nil, err
	}
	notes := make([]ledger.CreditNote, len(noteModels))
	for i, model := range noteModels {
		notes[i] = *model.ToDomain()
	}
	return notes, nil
}

// CountForCompany counts credit notes for a company with optional filters
func (r *GormCreditNoteRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter ledger.CreditNoteFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.CreditNoteModel{}).
		Where("company_id = ?", companyID)
	if err := applyCreditNoteFilter(query, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a credit note
func (r *GormCreditNoteRepository) Save(ctx context.Context, note *ledger.CreditNote) error {
	model := models.CreditNoteModelFromDomain(note)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormCreditNoteRepository) SaveWithLock(ctx context.Context, note *ledger.CreditNote) error {
	currentVersion := note.Version
	note.Version++

	model := models.CreditNoteModelFromDomain(note)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", note.ID, currentVersion).
		Updates(model)

	if result.Error != nil {
		note.Version = currentVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		note.Version = currentVersion
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// GenerateCreditNoteNumber generates the next sequential credit note number
// for a company and year, e.g. CRN-2026-00007.
func (r *GormCreditNoteRepository) GenerateCreditNoteNumber(ctx context.Context, companyID uuid.UUID, issueDate time.Time) (string, error) {
	seq, err := nextSequence(r.db.WithContext(ctx), companyID, "CRN", issueDate.Year())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CRN-%d-%05d", issueDate.Year(), seq), nil
}
