package models

import "time"

type Doctor struct {
	UserID string `gorm:"primaryKey;size:20" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Department string  `gorm:"size:100" json:"department"`
	Title      string  `gorm:"size:50" json:"title"`
	Fee        float64 `gorm:"not null;default:0" json:"fee"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
