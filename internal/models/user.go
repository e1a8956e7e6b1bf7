package models

import "time"

const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
)

// User IDs carry the role in their prefix: 11xxxx patients, 12xxxx doctors.
type User struct {
	ID       string `gorm:"primaryKey;size:20" json:"id"`
	Username string `gorm:"size:100;not null" json:"username"`
	Password string `gorm:"size:255;not null" json:"-"`
	Role     string `gorm:"size:20;not null;index" json:"role"`

	RealName   string  `gorm:"size:100" json:"real_name"`
	Gender     string  `gorm:"size:10" json:"gender"`
	BirthDate  string  `gorm:"size:10" json:"birth_date"`
	IDCard     *string `gorm:"size:18;uniqueIndex" json:"id_card"`
	Phone      *string `gorm:"size:20;uniqueIndex" json:"phone"`
	Email      *string `gorm:"size:100;uniqueIndex" json:"email"`
	AvatarPath string  `gorm:"size:255" json:"avatar_path"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) DisplayName() string {
	if u.RealName != "" {
		return u.RealName
	}
	return u.Username
}

func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// NullIfEmpty maps blank optional columns to NULL so unique indexes ignore them.
func NullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
