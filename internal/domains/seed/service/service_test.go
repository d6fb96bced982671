package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"salon/infras/otel/mocks"
	"salon/infras/pubsub"
	pubsubMocks "salon/infras/pubsub/mocks"
	catalogMocks "salon/internal/domains/catalog/mocks"
	catalogModel "salon/internal/domains/catalog/model"
	"salon/internal/domains/seed/service"
	staffMocks "salon/internal/domains/staff/mocks"
	staffModel "salon/internal/domains/staff/model"
	cacheMocks "salon/shared/cache/mocks"
	"salon/shared/constant"
)

func TestSeeder_EnsureSeeded(t *testing.T) {
	tests := []struct {
		name         string
		setupMock    func(catalog *catalogMocks.MockCatalog, staff *staffMocks.MockStaff, bus *pubsubMocks.MockBus)
		wantServices int64
		wantStaff    int64
		wantErr      bool
	}{
		{
			name: "seeds both empty collections",
			setupMock: func(catalog *catalogMocks.MockCatalog, staff *staffMocks.MockStaff, bus *pubsubMocks.MockBus) {
				catalog.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
				catalog.EXPECT().InsertBulkIgnore(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, services []catalogModel.Service) (int64, error) {
					return int64(len(services)), nil
				})
				staff.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
				staff.EXPECT().InsertBulkIgnore(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, members []staffModel.Staff) (int64, error) {
					return int64(len(members)), nil
				})
				bus.EXPECT().Publish(gomock.Any(), pubsub.Event{Collection: constant.CollectionServices, Action: pubsub.ActionCreated}).Return(nil)
				bus.EXPECT().Publish(gomock.Any(), pubsub.Event{Collection: constant.CollectionStaff, Action: pubsub.ActionCreated}).Return(nil)
			},
			wantServices: 6,
			wantStaff:    4,
		},
		{
			name: "leaves populated collections alone",
			setupMock: func(catalog *catalogMocks.MockCatalog, staff *staffMocks.MockStaff, _ *pubsubMocks.MockBus) {
				catalog.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
				staff.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
			},
		},
		{
			name: "a concurrent seeder already inserted the rows",
			setupMock: func(catalog *catalogMocks.MockCatalog, staff *staffMocks.MockStaff, _ *pubsubMocks.MockBus) {
				catalog.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
				catalog.EXPECT().InsertBulkIgnore(gomock.Any(), gomock.Any()).Return(int64(0), nil)
				staff.EXPECT().Count(gomock.Any(), gomock.Any()).Return(4, nil)
			},
		},
		{
			name: "count failure stops seeding",
			setupMock: func(catalog *catalogMocks.MockCatalog, _ *staffMocks.MockStaff, _ *pubsubMocks.MockBus) {
				catalog.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			catalog := catalogMocks.NewMockCatalog(ctrl)
			staff := staffMocks.NewMockStaff(ctrl)
			bus := pubsubMocks.NewMockBus(ctrl)
			mockCache := cacheMocks.NewMockRedisCache(ctrl)
			mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			mockCache.EXPECT().Bump(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

			tt.setupMock(catalog, staff, bus)

			res, err := service.New(catalog, staff, bus, mockCache, mocks.NewOtel()).EnsureSeeded(context.Background())

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantServices, res.ServicesInserted)
			assert.Equal(t, tt.wantStaff, res.StaffInserted)
		})
	}
}

func TestFallbackStaffKeepsDerivedFieldsConsistent(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, member := range service.FallbackStaff(now) {
		assert.Equal(t, len(member.Reviews), member.ReviewCount, member.ID)
		assert.InDelta(t, 5.0, member.Rating, 0.0001, member.ID)
		assert.Equal(t, 1, member.Version, member.ID)

		for _, review := range member.Reviews {
			_, err := time.Parse(constant.DisplayDateFormat, review.CreatedAt)
			assert.NoError(t, err, review.ID)
		}
	}
}

func TestFallbackServices(t *testing.T) {
	services := service.FallbackServices(time.Now())

	require.Len(t, services, 6)

	for _, svc := range services {
		assert.NotEmpty(t, svc.ImageURL)
		assert.Positive(t, svc.Price)
		assert.GreaterOrEqual(t, svc.Duration, 5)
	}
}
