package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"salon/config"
	"salon/infras/otel/mocks"
	pubsubMocks "salon/infras/pubsub/mocks"
	"salon/internal/domains/staff/model"
	"salon/internal/domains/staff/model/dto"
	"salon/internal/domains/staff/repository"
	"salon/internal/domains/staff/service"
	staffMocks "salon/internal/domains/staff/mocks"
	"salon/shared/cache"
	cacheMocks "salon/shared/cache/mocks"
	gDto "salon/shared/dto"
	"salon/shared/failure"
)

// memoryStaff keeps staff rows in memory and enforces the version check the
// way the UPDATE ... WHERE version = :expected_version statement does.
type memoryStaff struct {
	repository.Staff

	mu      sync.Mutex
	rows    map[string]model.Staff
	updates int
	lost    int
}

func newMemoryStaff(rows ...model.Staff) *memoryStaff {
	repo := &memoryStaff{rows: map[string]model.Staff{}}
	for _, row := range rows {
		repo.rows[row.ID] = row
	}

	return repo
}

func (m *memoryStaff) Get(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, _ := filter.Filters[0].(gDto.Filter).Value.(string)

	row, ok := m.rows[id]
	if !ok {
		return model.Staff{}, nil
	}

	row.Reviews = slices.Clone(row.Reviews)

	return row, nil
}

func (m *memoryStaff) UpdateReviews(_ context.Context, staff model.Staff, _ string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.rows[staff.ID]
	if !ok || current.Version != staff.Version {
		m.lost++

		return false, nil
	}

	staff.Version++
	m.rows[staff.ID] = staff
	m.updates++

	return true, nil
}

func newService(t *testing.T, repo repository.Staff) service.Staff {
	ctrl := gomock.NewController(t)

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Bump(gomock.Any(), "staff").Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	mockBus := pubsubMocks.NewMockBus(ctrl)
	mockBus.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Booking.ReviewMaxRetries = 100

	return service.New(repo, mockBus, cfg, mockCache, mocks.NewOtel())
}

func TestStaffService_AddReview_Sequence(t *testing.T) {
	repo := newMemoryStaff(model.Staff{ID: "staff-1", Name: "Olivia Chen", Reviews: model.Reviews{}, Version: 1})
	svc := newService(t, repo)

	res, err := svc.AddReview(context.Background(), dto.AddReviewRequest{UserName: "Emily R.", Rating: 5, Comment: "Olivia is a miracle worker!"}, "staff-1")
	require.NoError(t, err)
	assert.InDelta(t, 5.0, res.Rating, 1e-9)
	assert.Equal(t, 1, res.ReviewCount)

	res, err = svc.AddReview(context.Background(), dto.AddReviewRequest{UserName: "Jessica P.", Rating: 3, Comment: "Good, but the wait was long."}, "staff-1")
	require.NoError(t, err)
	assert.InDelta(t, 4.0, res.Rating, 1e-9)
	assert.Equal(t, 2, res.ReviewCount)
	assert.Equal(t, "Jessica P.", res.Reviews[0].UserName)

	stored := repo.rows["staff-1"]
	assert.Equal(t, "Olivia Chen", stored.Name)
	assert.Equal(t, 3, stored.Version)
}

func TestStaffService_AddReview_Concurrent(t *testing.T) {
	const writers = 20

	repo := newMemoryStaff(model.Staff{ID: "staff-2", Reviews: model.Reviews{}, Version: 1})
	svc := newService(t, repo)

	var wg sync.WaitGroup

	errs := make(chan error, writers)
	total := 0

	for i := range writers {
		rating := i%5 + 1
		total += rating

		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := svc.AddReview(context.Background(), dto.AddReviewRequest{
				UserName: fmt.Sprintf("Client %d", i),
				Rating:   rating,
				Comment:  "Consistently great service.",
			}, "staff-2")
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	stored := repo.rows["staff-2"]
	assert.Equal(t, writers, stored.ReviewCount)
	assert.Len(t, stored.Reviews, writers)
	assert.InDelta(t, float64(total)/writers, stored.Rating, 1e-9)
	assert.Equal(t, writers, repo.updates)
}

func TestStaffService_AddReview_NotFound(t *testing.T) {
	repo := newMemoryStaff()
	svc := newService(t, repo)

	_, err := svc.AddReview(context.Background(), dto.AddReviewRequest{UserName: "Ghost", Rating: 4, Comment: "Nobody to review here."}, "staff-404")

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	assert.Equal(t, "stylist not found", err.Error())
	assert.Zero(t, repo.updates)
	assert.Empty(t, repo.rows)
}

func TestStaffService_AddReview_GivesUpAfterMaxTries(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := staffMocks.NewMockStaff(ctrl)
	mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Staff{ID: "staff-3", Version: 1}, nil).Times(2)
	mockRepo.EXPECT().UpdateReviews(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).Times(2)

	cfg := &config.Config{}
	cfg.Booking.ReviewMaxRetries = 2

	svc := service.New(mockRepo, pubsubMocks.NewMockBus(ctrl), cfg, cacheMocks.NewMockRedisCache(ctrl), mocks.NewOtel())

	_, err := svc.AddReview(context.Background(), dto.AddReviewRequest{UserName: "Ava G.", Rating: 5, Comment: "Loved my wedding hairstyle."}, "staff-3")

	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
}

func TestStaffService_Update(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.UpdateStaffRequest
		setupMock func(repo *staffMocks.MockStaff)
		wantCode  int
	}{
		{
			name: "writes form columns only",
			req:  dto.UpdateStaffRequest{Specialization: "Color & Cuts"},
			setupMock: func(repo *staffMocks.MockStaff) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, "Color & Cuts", fields[model.FieldSpecialization])
						assert.NotContains(t, fields, model.FieldReviews)
						assert.NotContains(t, fields, model.FieldRating)
						assert.NotContains(t, fields, model.FieldReviewCount)

						return nil
					})
			},
		},
		{
			name:      "empty request",
			req:       dto.UpdateStaffRequest{},
			setupMock: func(*staffMocks.MockStaff) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "unknown stylist",
			req:  dto.UpdateStaffRequest{Name: "Liam G."},
			setupMock: func(repo *staffMocks.MockStaff) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "repository error",
			req:  dto.UpdateStaffRequest{Name: "Liam G."},
			setupMock: func(repo *staffMocks.MockStaff) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockRepo := staffMocks.NewMockStaff(ctrl)
			tt.setupMock(mockRepo)

			svc := newService(t, mockRepo)
			err := svc.Update(context.Background(), tt.req, "staff-1")

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode == 0 {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			}
		})
	}
}

func TestStaffService_GetAll_ChangeRetiresSavedListing(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := staffMocks.NewMockStaff(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockBus := pubsubMocks.NewMockBus(ctrl)

	var (
		version int64
		saved   = make(chan string, 4)
		reads   []string
	)

	mockCache.EXPECT().Version(gomock.Any(), "staff").DoAndReturn(func(context.Context, string) (int64, error) {
		return version, nil
	}).AnyTimes()
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, key string, _ any) error {
		reads = append(reads, key)

		return cache.Nil
	}).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, key string, _ any, _ int) error {
		saved <- key

		return nil
	}).AnyTimes()
	mockCache.EXPECT().Bump(gomock.Any(), "staff").DoAndReturn(func(context.Context, string) error {
		version++

		return nil
	})
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	mockBus.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil).Times(2)
	mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Staff{{ID: "staff-1", Name: "Olivia Chen"}}, nil).Times(2)
	mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockBus, cfg, mockCache, mocks.NewOtel())
	params := gDto.QueryParams{Page: 1, Limit: 10}

	_, err := svc.GetAll(context.Background(), params, gDto.FilterGroup{})
	require.NoError(t, err)

	first := []string{<-saved, <-saved}

	require.NoError(t, svc.Delete(context.Background(), "staff-1"))

	_, err = svc.GetAll(context.Background(), params, gDto.FilterGroup{})
	require.NoError(t, err)

	for _, key := range reads[2:] {
		assert.NotContains(t, first, key)
	}
}
