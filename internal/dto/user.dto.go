package dto

import "github.com/BruksfildServices01/clinic-server/internal/models"

// UserInfoDTO carries both the current and the legacy client keys
// (name/birthday next to real_name/birth_date).
type UserInfoDTO struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	RealName  string `json:"real_name"`
	Gender    string `json:"gender"`
	BirthDate string `json:"birth_date"`
	Birthday  string `json:"birthday"`
	IDCard    string `json:"id_card"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Avatar    string `json:"avatar,omitempty"`

	Department  string   `json:"department,omitempty"`
	Title       string   `json:"title,omitempty"`
	Fee         *float64 `json:"fee,omitempty"`
	CaseSummary string   `json:"case_summary,omitempty"`
}

func FromUser(u models.User) UserInfoDTO {
	return UserInfoDTO{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.DisplayName(),
		RealName:  u.RealName,
		Gender:    u.Gender,
		BirthDate: u.BirthDate,
		Birthday:  u.BirthDate,
		IDCard:    models.Deref(u.IDCard),
		Phone:     models.Deref(u.Phone),
		Email:     models.Deref(u.Email),
		Role:      u.Role,
	}
}
