package models

import "time"

// Upload is one history entry: written once after a successful simplify,
// never updated afterwards.
type Upload struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Email     string    `gorm:"index;not null" json:"email"`
	Filename  string    `gorm:"not null" json:"filename"`
	Summary   string    `gorm:"type:text" json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}
