package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"salon/infras/otel"
	"salon/infras/postgres"
	"salon/internal/domains/staff/model"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	gRepo "salon/shared/repository"
	"salon/shared/timezone"
)

const argExpectedVersion = "expected_version"

type Staff interface {
	Insert(ctx context.Context, model model.Staff) error
	InsertBulkIgnore(ctx context.Context, models []model.Staff) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Staff, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Staff, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	// UpdateReviews writes reviews and the derived fields only if the stored
	// version still equals staff.Version. It reports false on a lost race.
	UpdateReviews(ctx context.Context, staff model.Staff, user string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Staff]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Staff {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Staff](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func (r *repositoryImpl) UpdateReviews(ctx context.Context, staff model.Staff, user string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".staff.UpdateReviews")
	defer scope.End()

	fields := map[string]any{
		model.FieldReviews:       staff.Reviews,
		model.FieldRating:        staff.Rating,
		model.FieldReviewCount:   staff.ReviewCount,
		model.FieldVersion:       staff.Version + 1,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	affected, err := r.UpdateAffected(ctx, fields, FilterByVersion(staff.ID, staff.Version))
	if err != nil {
		scope.TraceError(err)

		return false, fmt.Errorf("failed to update staff reviews: %w", err)
	}

	return affected == 1, nil
}

// FilterByVersion matches one staff row at an exact version.
func FilterByVersion(id string, version int) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  argExpectedVersion,
				Field:    model.FieldVersion,
				Operator: gDto.FilterOperatorEq,
				Value:    version,
				Table:    model.TableName,
			},
		},
	}
}

// FilterByName matches stylists whose name contains name. An empty name matches all.
func FilterByName(name string) gDto.FilterGroup {
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if name != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    name,
			Table:    model.TableName,
		})
	}

	return filter
}
