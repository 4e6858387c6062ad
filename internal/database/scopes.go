package database

import (
	"gorm.io/gorm"
)

// OwnedBy restricts a task query to rows owned by userID.
func OwnedBy(userID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tasks.user_id = ?", userID)
	}
}

// Chronological orders tasks oldest first, with the id breaking ties.
func Chronological(db *gorm.DB) *gorm.DB {
	return db.Order("tasks.created_at ASC").Order("tasks.id ASC")
}
