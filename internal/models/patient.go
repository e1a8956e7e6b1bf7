package models

import "time"

type Patient struct {
	UserID string `gorm:"primaryKey;size:20" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	CaseSummary string `gorm:"type:text" json:"case_summary"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
