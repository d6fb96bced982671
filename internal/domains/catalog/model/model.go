package model

import "salon/shared/model"

const (
	TableName  = "services"
	EntityName = "service"

	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldDuration    = "duration"
	FieldImageURL    = "image_url"
)

// Service is a bookable salon treatment. Duration is in minutes.
type Service struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	Description string  `db:"description"`
	Price       float64 `db:"price"`
	Duration    int     `db:"duration"`
	ImageURL    string  `db:"image_url"`
	model.Metadata
}
