package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/facturio/backend/internal/domain/billing"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SequenceNumberingStrategy assigns document numbers from a per-company,
// per-kind, per-year sequence table. Numbers are monotonic; a rolled-back
// finalize may leave a gap.
type SequenceNumberingStrategy struct {
	db *gorm.DB
}

// NewSequenceNumberingStrategy creates a new SequenceNumberingStrategy
func NewSequenceNumberingStrategy(db *gorm.DB) *SequenceNumberingStrategy {
	return &SequenceNumberingStrategy{db: db}
}

// NextNumber claims the next number for a company, kind and issue year.
// The conditional update makes the claim atomic without row locks.
func (s *SequenceNumberingStrategy) NextNumber(ctx context.Context, companyID uuid.UUID, kind billing.DocumentKind, issueDate time.Time) (string, error) {
	year := issueDate.Year()
	db := s.db.WithContext(ctx)

	for attempt := 0; attempt < sequenceClaimAttempts; attempt++ {
		var row models.DocumentSequenceModel
		err := db.
			Where("company_id = ? AND kind = ? AND year = ?", companyID, kind, year).
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = models.DocumentSequenceModel{
				CompanyID: companyID,
				Kind:      kind,
				Year:      year,
				NextValue: 2,
				UpdatedAt: time.Now(),
			}
			if err := db.Create(&row).Error; err != nil {
				// Another caller created the row first; re-read and retry.
				continue
			}
			return billing.FormatDocumentNumber(kind, year, 1), nil
		}
		if err != nil {
			return "", err
		}

		seq := row.NextValue
		result := db.Model(&models.DocumentSequenceModel{}).
			Where("company_id = ? AND kind = ? AND year = ? AND next_value = ?", companyID, kind, year, seq).
			Updates(map[string]interface{}{
				"next_value": seq + 1,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return "", result.Error
		}
		if result.RowsAffected == 1 {
			return billing.FormatDocumentNumber(kind, year, seq), nil
		}
	}
	return "", shared.ErrConcurrencyConflict
}
