package repo

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bookbakery/storefront/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderItem{}))
	return db
}

func TestDecrementStock(t *testing.T) {
	db := newTestDB(t)

	p := models.Product{Name: "Puff Puff", Price: decimal.RequireFromString("50.00"), StockQuantity: 3}
	require.NoError(t, db.Create(&p).Error)

	// Drain stock exactly to zero.
	affected, err := DecrementStock(db, p.ID, 3)
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	var got models.Product
	require.NoError(t, db.First(&got, "id = ?", p.ID).Error)
	require.Equal(t, 0, got.StockQuantity)

	// Nothing left: the conditional update must not fire.
	affected, err = DecrementStock(db, p.ID, 1)
	require.NoError(t, err)
	require.Zero(t, affected)

	exists, err := ProductExists(db, p.ID)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = ProductExists(db, "11111111-2222-3333-4444-555555555555")
	require.NoError(t, err)
	require.False(t, exists)
}
