package service_test

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"salon/config"
	"salon/infras/otel/mocks"
	"salon/infras/pubsub"
	pubsubMocks "salon/infras/pubsub/mocks"
	catalogMocks "salon/internal/domains/catalog/mocks"
	"salon/internal/domains/catalog/model"
	"salon/internal/domains/catalog/model/dto"
	"salon/internal/domains/catalog/service"
	"salon/shared/cache"
	cacheMocks "salon/shared/cache/mocks"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/failure"
)

type fixture struct {
	repo    *catalogMocks.MockCatalog
	cache   *cacheMocks.MockRedisCache
	bus     *pubsubMocks.MockBus
	version *atomic.Int64
	svc     service.Catalog
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:  catalogMocks.NewMockCatalog(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
		bus:     pubsubMocks.NewMockBus(ctrl),
		version: &atomic.Int64{},
	}

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Version(gomock.Any(), "catalog").DoAndReturn(func(context.Context, string) (int64, error) {
		return f.version.Load(), nil
	}).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.svc = service.New(f.repo, f.bus, cfg, f.cache, mocks.NewOtel())

	return f
}

// expectInvalidation bumps the fixture's cache generation like the store would.
func (f fixture) expectInvalidation() {
	f.cache.EXPECT().Bump(gomock.Any(), "catalog").DoAndReturn(func(context.Context, string) error {
		f.version.Add(1)

		return nil
	})
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).Times(2)
}

// expectChange expects the cache invalidation and the change event for one write.
func (f fixture) expectChange(action string) {
	f.expectInvalidation()
	f.bus.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, event pubsub.Event) error {
		if event.Collection != constant.CollectionServices || event.Action != action {
			return errors.New("unexpected event")
		}

		return nil
	})
}

func TestCatalogService_Create(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantErr   bool
	}{
		{
			name: "successful creation",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, service model.Service) error {
					if service.ID == "" || service.CreatedBy != "admin-1" {
						return errors.New("unexpected row")
					}

					return nil
				})
				f.expectChange(pubsub.ActionCreated)
			},
		},
		{
			name: "repository error",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
			id, err := f.svc.Create(ctx, dto.CreateServiceRequest{
				Name:        "Signature Haircut",
				Description: "Consultation, wash, cut and style.",
				Price:       85,
				Duration:    60,
				ImageURL:    "https://picsum.photos/seed/cut/400/300",
			})

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, id)
		})
	}
}

func TestCatalogService_Get(t *testing.T) {
	t.Run("cache hit skips the repository", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ string, value any) error {
			*value.(*dto.ServiceResponse) = dto.ServiceResponse{ID: "svc-1", Name: "Cached"}

			return nil
		})

		res, err := f.svc.Get(context.Background(), "svc-1")

		require.NoError(t, err)
		assert.Equal(t, "Cached", res.Name)
	})

	t.Run("cache miss reads the repository", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Service{ID: "svc-1", Name: "Signature Haircut", Price: 85, Duration: 60}, nil)

		res, err := f.svc.Get(context.Background(), "svc-1")

		require.NoError(t, err)
		assert.Equal(t, "Signature Haircut", res.Name)
		assert.Equal(t, 60, res.Duration)
	})

	t.Run("missing service", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Service{}, nil)

		_, err := f.svc.Get(context.Background(), "missing")

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestCatalogService_GetAll(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).Times(2)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Service{
		{ID: "svc-1", Name: "Signature Haircut"},
		{ID: "svc-2", Name: "Balayage Color"},
	}, nil)

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalData)
	assert.Equal(t, 1, res.TotalPage)
	require.Len(t, res.Services, 2)
	assert.Equal(t, "Balayage Color", res.Services[1].Name)
}

func TestCatalogService_Update(t *testing.T) {
	price := 95.0

	tests := []struct {
		name      string
		req       dto.UpdateServiceRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "only sent fields are written",
			req:  dto.UpdateServiceRequest{Price: &price},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						if _, ok := fields[model.FieldName]; ok {
							return errors.New("name must not be written")
						}

						if _, ok := fields[model.FieldPrice]; !ok {
							return errors.New("price must be written")
						}

						return nil
					})
				f.expectChange(pubsub.ActionUpdated)
			},
		},
		{
			name:      "empty update",
			req:       dto.UpdateServiceRequest{},
			setupMock: func(fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "missing service",
			req:  dto.UpdateServiceRequest{Name: "Renamed"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Update(context.Background(), tt.req, "svc-1")

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestCatalogService_Delete(t *testing.T) {
	t.Run("deleted and announced", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		f.expectChange(pubsub.ActionDeleted)

		assert.NoError(t, f.svc.Delete(context.Background(), "svc-1"))
	})

	t.Run("publish failure does not fail the delete", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		f.expectInvalidation()
		f.bus.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

		assert.NoError(t, f.svc.Delete(context.Background(), "svc-1"))
	})
}

func TestCatalogService_ReadRacingAChange(t *testing.T) {
	f := newFixture(t)

	var keys []string

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, key string, _ any) error {
		keys = append(keys, key)

		return cache.Nil
	}).Times(2)
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Service{ID: "svc-1", Name: "Signature Haircut"}, nil)
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Service{ID: "svc-1", Name: "Signature Cut"}, nil)
	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.expectChange(pubsub.ActionUpdated)

	_, err := f.svc.Get(context.Background(), "svc-1")
	require.NoError(t, err)

	require.NoError(t, f.svc.Update(context.Background(), dto.UpdateServiceRequest{Name: "Signature Cut"}, "svc-1"))

	res, err := f.svc.Get(context.Background(), "svc-1")
	require.NoError(t, err)
	assert.Equal(t, "Signature Cut", res.Name)

	require.Len(t, keys, 2)
	assert.NotEqual(t, keys[0], keys[1], "a save of the first read must not be visible after the change")
}

func TestCatalogService_GetBypassesCacheWithoutVersion(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := catalogMocks.NewMockCatalog(ctrl)
	redisCache := cacheMocks.NewMockRedisCache(ctrl)

	redisCache.EXPECT().Version(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("redis down"))
	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Service{ID: "svc-1", Name: "Signature Haircut"}, nil)

	svc := service.New(repo, pubsubMocks.NewMockBus(ctrl), &config.Config{}, redisCache, mocks.NewOtel())

	res, err := svc.Get(context.Background(), "svc-1")

	require.NoError(t, err)
	assert.Equal(t, "Signature Haircut", res.Name)
}
