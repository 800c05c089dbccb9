package database

import (
	"context"
	"fmt"

	"starship-dashboard/internal/models"

	"gorm.io/gorm/clause"
)

// StagedStarship is a starship awaiting insertion together with the
// manufacturers it must be linked to. Manufacturers may still lack an ID.
type StagedStarship struct {
	Starship      *models.Starship
	Manufacturers []*models.Manufacturer
}

// Batch is everything one synchronization run wants to persist.
type Batch struct {
	Manufacturers []*models.Manufacturer
	Starships     []StagedStarship
}

// Empty reports whether the batch has nothing to write.
func (b *Batch) Empty() bool {
	return len(b.Manufacturers) == 0 && len(b.Starships) == 0
}

// CommitBatch writes b atomically: new manufacturers first, so their IDs are
// known, then starships, then join rows. Nothing is written if any step fails.
func (s *Store) CommitBatch(ctx context.Context, b *Batch) error {
	if b == nil || b.Empty() {
		return nil
	}
	return s.Transaction(ctx, func(tx *Store) error {
		for _, m := range b.Manufacturers {
			if err := tx.db.WithContext(ctx).Create(m).Error; err != nil {
				return fmt.Errorf("failed to insert manufacturer %q: %w", m.Name, err)
			}
		}
		for _, st := range b.Starships {
			if err := tx.db.WithContext(ctx).Omit(clause.Associations).Create(st.Starship).Error; err != nil {
				return fmt.Errorf("failed to insert starship %q: %w", st.Starship.UID, err)
			}
			for _, m := range st.Manufacturers {
				if err := tx.Link(ctx, st.Starship.ID, m.ID); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
