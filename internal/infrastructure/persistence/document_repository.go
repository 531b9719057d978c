package persistence

import (
	"context"
	"errors"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDocumentRepository implements DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

func (r *GormDocumentRepository) withLines(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("document_lines.position ASC")
	})
}

// FindByID finds a document by ID
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Document, error) {
	var model models.DocumentModel
	if err := r.withLines(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForCompany finds a document by ID scoped to a company
func (r *GormDocumentRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*billing.Document, error) {
	var model models.DocumentModel
	if err := r.withLines(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a document by its assigned number for a company
func (r *GormDocumentRepository) FindByNumber(ctx context.Context, companyID uuid.UUID, number string) (*billing.Document, error) {
	var model models.DocumentModel
	if err := r.withLines(ctx).
		Where("company_id = ? AND number = ?", companyID, number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func applyDocumentFilter(query *gorm.DB, filter billing.DocumentFilter) *gorm.DB {
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.FromDate != nil {
		query = query.Where("issue_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("issue_date <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		query = query.Where("number LIKE ?", "%"+filter.Search+"%")
	}
	return query
}

// FindAllForCompany finds documents for a company with filtering
func (r *GormDocumentRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter billing.DocumentFilter) ([]billing.Document, error) {
	var documentModels []models.DocumentModel
	query := applyDocumentFilter(r.withLines(ctx).Where("company_id = ?", companyID), filter)

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}

	orderField := ValidateSortField(filter.OrderBy, DocumentSortFields, "issue_date")
	orderClause := orderField + " " + ValidateSortOrder(filter.OrderDir)
	if orderField != "created_at" {
		orderClause += ", created_at DESC"
	}

	if err := query.Order(orderClause).Find(&documentModels).Error; err != nil {
		return nil, err
	}
	documents := make([]billing.Document, len(documentModels))
	for i, model := range documentModels {
		documents[i] = *model.ToDomain()
	}
	return documents, nil
}

// CountForCompany counts documents for a company with optional filters
func (r *GormDocumentRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter billing.DocumentFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.DocumentModel{}).
		Where("company_id = ?", companyID)
	if err := applyDocumentFilter(query, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a document. Lines are replaced wholesale: draft
// edits rewrite the full line set, so stale rows must not survive.
func (r *GormDocumentRepository) Save(ctx context.Context, document *billing.Document) error {
	model := models.DocumentModelFromDomain(document)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(model).Error; err != nil {
			return err
		}
		return replaceDocumentLines(tx, model)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormDocumentRepository) SaveWithLock(ctx context.Context, document *billing.Document) error {
	currentVersion := document.Version
	document.Version++

	model := models.DocumentModelFromDomain(document)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Select("*") forces zero/nil fields into the UPDATE: a cleared
		// discount must reach the database as NULL, not be skipped.
		result := tx.Model(model).
			Select("*").
			Omit("Lines", "id", "company_id", "created_at").
			Where("id = ? AND version = ?", document.ID, currentVersion).
			Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return replaceDocumentLines(tx, model)
	})
	if err != nil {
		document.Version = currentVersion
		return err
	}
	return nil
}

func replaceDocumentLines(tx *gorm.DB, model *models.DocumentModel) error {
	if err := tx.Where("document_id = ?", model.ID).Delete(&models.DocumentLineModel{}).Error; err != nil {
		return err
	}
	if len(model.Lines) == 0 {
		return nil
	}
	return tx.Create(&model.Lines).Error
}
