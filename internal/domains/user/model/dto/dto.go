package dto

import (
	"salon/internal/domains/user/model"
	"salon/shared"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/timezone"
)

type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FullName  *string `json:"full_name,omitempty"`
	LastLogin *string `json:"last_login,omitempty"`
	Active    bool    `json:"active"`
	IsAdmin   bool    `json:"is_admin"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User, isAdmin bool) {
	r.ID = model.ID
	r.Email = model.Email
	r.FullName = model.FullName
	r.Active = model.Active
	r.IsAdmin = isAdmin
	r.LastLogin = nil

	if model.LastLogin != nil {
		lastLogin := timezone.Format(*model.LastLogin, constant.DateFormat)
		r.LastLogin = &lastLogin
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

// FromModels marks users whose id is in admins.
func (r *GetUsersResponse) FromModels(models []model.User, admins map[string]bool, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod, admins[mod.ID])
	}
}
