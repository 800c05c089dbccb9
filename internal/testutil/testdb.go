package testutil

import (
	"testing"

	"starship-dashboard/internal/database"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewInMemoryDB creates an in-memory SQLite DB and runs migrations.
func NewInMemoryDB() (*gorm.DB, error) {
	return database.Open(":memory:", zerolog.Nop())
}

// NewStore is NewInMemoryDB wrapped in a Store, closed when the test ends.
func NewStore(t *testing.T) *database.Store {
	t.Helper()
	db, err := NewInMemoryDB()
	require.NoError(t, err)
	store := database.NewStore(db)
	t.Cleanup(func() { _ = store.Close() })
	return store
}
