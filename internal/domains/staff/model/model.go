package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"salon/shared/model"
)

const (
	TableName  = "staff"
	EntityName = "staff"

	FieldID             = "id"
	FieldName           = "name"
	FieldSpecialization = "specialization"
	FieldExperience     = "experience"
	FieldRating         = "rating"
	FieldReviewCount    = "review_count"
	FieldImageURL       = "image_url"
	FieldReviews        = "reviews"
	FieldVersion        = "version"
)

var errUnsupportedReviews = errors.New("unsupported reviews column type")

// Staff is a stylist. Rating and ReviewCount are derived from Reviews and are
// only ever written together with them.
type Staff struct {
	ID             string  `db:"id"`
	Name           string  `db:"name"`
	Specialization string  `db:"specialization"`
	Experience     string  `db:"experience"`
	Rating         float64 `db:"rating"`
	ReviewCount    int     `db:"review_count"`
	ImageURL       string  `db:"image_url"`
	Reviews        Reviews `db:"reviews"`
	Version        int     `db:"version"`
	model.Metadata
}

type Review struct {
	ID        string `json:"id"`
	UserName  string `json:"user_name"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

// Reviews is stored as a JSONB array in insertion order.
type Reviews []Review

func (r Reviews) Value() (driver.Value, error) {
	if r == nil {
		return []byte("[]"), nil
	}

	return json.Marshal(r) //nolint:wrapcheck
}

func (r *Reviews) Scan(src any) error {
	var raw []byte

	switch v := src.(type) {
	case nil:
		*r = Reviews{}

		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("%w: %T", errUnsupportedReviews, src)
	}

	return json.Unmarshal(raw, r) //nolint:wrapcheck
}

// AppendReview adds review at the end and recomputes the derived fields.
func (s *Staff) AppendReview(review Review) {
	s.Reviews = append(s.Reviews, review)
	s.Recompute()
}

// Recompute sets Rating to the mean of all review ratings and ReviewCount to
// the number of reviews. Both are zero without reviews.
func (s *Staff) Recompute() {
	s.ReviewCount = len(s.Reviews)
	s.Rating = 0

	if s.ReviewCount == 0 {
		return
	}

	total := 0
	for _, review := range s.Reviews {
		total += review.Rating
	}

	s.Rating = float64(total) / float64(s.ReviewCount)
}
