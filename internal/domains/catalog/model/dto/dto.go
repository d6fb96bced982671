package dto

import (
	"salon/internal/domains/catalog/model"
	"salon/shared"
	gDto "salon/shared/dto"
	gModel "salon/shared/model"
	"salon/shared/timezone"

	"github.com/google/uuid"
)

type CreateServiceRequest struct {
	Name        string  `json:"name"        validate:"required,min=2,max=100"`
	Description string  `json:"description" validate:"required,min=10"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
	Duration    int     `json:"duration"    validate:"required,min=5"`
	ImageURL    string  `json:"image_url"   validate:"required,url"`
}

func (c *CreateServiceRequest) ToModel(user string) model.Service {
	now := timezone.Now()

	return model.Service{
		ID:          uuid.NewString(),
		Name:        c.Name,
		Description: c.Description,
		Price:       c.Price,
		Duration:    c.Duration,
		ImageURL:    c.ImageURL,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateServiceRequest only overwrites the fields that are present.
type UpdateServiceRequest struct {
	Name        string   `db:"name"        json:"name"        validate:"omitempty,min=2,max=100"`
	Description string   `db:"description" json:"description" validate:"omitempty,min=10"`
	Price       *float64 `db:"price"       json:"price"       validate:"omitempty,gt=0"`
	Duration    *int     `db:"duration"    json:"duration"    validate:"omitempty,min=5"`
	ImageURL    string   `db:"image_url"   json:"image_url"   validate:"omitempty,url"`
}

func (u UpdateServiceRequest) IsEmpty() bool {
	return u.Name == "" && u.Description == "" && u.Price == nil && u.Duration == nil && u.ImageURL == ""
}

type ServiceResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Duration    int     `json:"duration"`
	ImageURL    string  `json:"image_url"`
	gDto.Metadata
}

func (r *ServiceResponse) FromModel(model model.Service) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.Price = model.Price
	r.Duration = model.Duration
	r.ImageURL = model.ImageURL
	r.Metadata.FromModel(model.Metadata)
}

type GetServicesResponse struct {
	Services  []ServiceResponse `json:"services"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetServicesResponse) FromModels(models []model.Service, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Services = make([]ServiceResponse, len(models))
	for i, mod := range models {
		r.Services[i].FromModel(mod)
	}
}
