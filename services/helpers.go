package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func rowExists(db *gorm.DB, model any, query string, args ...any) (bool, error) {
	var count int64
	if err := db.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// isWholeCents reports whether d fits the decimal(14,2) money columns without rounding.
func isWholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}
