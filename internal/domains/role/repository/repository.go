package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"salon/infras/otel"
	"salon/infras/postgres"
	"salon/internal/domains/role/model"
	gDto "salon/shared/dto"
	gRepo "salon/shared/repository"
)

type Role interface {
	Insert(ctx context.Context, model model.AdminRole) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.AdminRole, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.AdminRole]
}

func New(db *postgres.Connection, otel otel.Otel) Role {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.AdminRole](model.EntityName, model.TableName, model.FieldUserID, db, otel),
	}
}

func FilterByUserIDs(userIDs []string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldUserID,
				Operator: gDto.FilterOperatorIn,
				Value:    userIDs,
				Table:    model.TableName,
			},
		},
	}
}
