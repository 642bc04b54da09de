package repo

import (
	"gorm.io/gorm"

	"github.com/bookbakery/storefront/internal/models"
)

// DecrementStock reduces a product's stock only when enough remains. A zero
// row count means the product is either missing or short on stock; callers
// disambiguate with ProductExists.
func DecrementStock(tx *gorm.DB, productID string, quantity int) (int64, error) {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func ProductExists(tx *gorm.DB, productID string) (bool, error) {
	var count int64
	err := tx.Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
