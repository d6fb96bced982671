package dto

import (
	"salon/internal/domains/staff/model"
	"salon/shared"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	gModel "salon/shared/model"
	"salon/shared/timezone"

	"github.com/google/uuid"
)

type CreateStaffRequest struct {
	Name           string `json:"name"           validate:"required,min=2,max=100"`
	Specialization string `json:"specialization" validate:"required,min=2,max=100"`
	Experience     string `json:"experience"     validate:"required,min=1,max=50"`
	ImageURL       string `json:"image_url"      validate:"required,url"`
}

func (c *CreateStaffRequest) ToModel(user string) model.Staff {
	now := timezone.Now()

	return model.Staff{
		ID:             uuid.NewString(),
		Name:           c.Name,
		Specialization: c.Specialization,
		Experience:     c.Experience,
		ImageURL:       c.ImageURL,
		Reviews:        model.Reviews{},
		Version:        1,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateStaffRequest carries the admin form columns only; reviews and the
// derived rating are never part of an edit.
type UpdateStaffRequest struct {
	Name           string `db:"name"           json:"name"           validate:"omitempty,min=2,max=100"`
	Specialization string `db:"specialization" json:"specialization" validate:"omitempty,min=2,max=100"`
	Experience     string `db:"experience"     json:"experience"     validate:"omitempty,min=1,max=50"`
	ImageURL       string `db:"image_url"      json:"image_url"      validate:"omitempty,url"`
}

func (u UpdateStaffRequest) IsEmpty() bool {
	return u == UpdateStaffRequest{}
}

type AddReviewRequest struct {
	UserName string `json:"user_name" validate:"required,min=2,max=100"`
	Rating   int    `json:"rating"    validate:"required,min=1,max=5"`
	Comment  string `json:"comment"   validate:"required,min=10,max=1000"`
}

func (a *AddReviewRequest) ToModel() model.Review {
	return model.Review{
		ID:        uuid.NewString(),
		UserName:  a.UserName,
		Rating:    a.Rating,
		Comment:   a.Comment,
		CreatedAt: timezone.Format(timezone.Now(), constant.DisplayDateFormat),
	}
}

type ReviewResponse struct {
	ID        string `json:"id"`
	UserName  string `json:"user_name"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

func (r *ReviewResponse) FromModel(model model.Review) {
	r.ID = model.ID
	r.UserName = model.UserName
	r.Rating = model.Rating
	r.Comment = model.Comment
	r.CreatedAt = model.CreatedAt
}

type StaffResponse struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Specialization string           `json:"specialization"`
	Experience     string           `json:"experience"`
	Rating         float64          `json:"rating"`
	ReviewCount    int              `json:"review_count"`
	ImageURL       string           `json:"image_url"`
	Reviews        []ReviewResponse `json:"reviews"`
	gDto.Metadata
}

// FromModel lists reviews most recent first.
func (r *StaffResponse) FromModel(model model.Staff) {
	r.ID = model.ID
	r.Name = model.Name
	r.Specialization = model.Specialization
	r.Experience = model.Experience
	r.Rating = model.Rating
	r.ReviewCount = model.ReviewCount
	r.ImageURL = model.ImageURL
	r.Metadata.FromModel(model.Metadata)

	count := len(model.Reviews)

	r.Reviews = make([]ReviewResponse, count)
	for i, review := range model.Reviews {
		r.Reviews[count-1-i].FromModel(review)
	}
}

type GetStaffResponse struct {
	Staff     []StaffResponse `json:"staff"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetStaffResponse) FromModels(models []model.Staff, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Staff = make([]StaffResponse, len(models))
	for i, mod := range models {
		r.Staff[i].FromModel(mod)
	}
}
