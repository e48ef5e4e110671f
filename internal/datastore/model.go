// model.go defines the persisted note record
package datastore

import "time"

// Note is a single stored note. Values returned from a Session are copies;
// changing them has no effect on the database.
type Note struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Title     string    `gorm:"type:text;not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName pins the table name regardless of GORM naming strategy.
func (Note) TableName() string {
	return "notes"
}
