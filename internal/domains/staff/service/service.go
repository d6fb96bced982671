package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Staff=MockStaffService

import (
	"context"
	"errors"
	"fmt"
	"salon/config"
	"salon/infras/otel"
	"salon/infras/pubsub"
	"salon/internal/domains/staff/model"
	"salon/internal/domains/staff/model/dto"
	"salon/internal/domains/staff/repository"
	"salon/shared"
	"salon/shared/cache"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/failure"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
)

const (
	cacheVersionStaff = "staff"

	cacheGetStaff    = "staff:get"
	cacheGetAllStaff = "staff:gets"
	cacheCountStaff  = "staff:count"
)

const (
	defaultReviewMaxRetries = 10
	reviewInitialInterval   = 20 * time.Millisecond
	reviewMaxInterval       = 500 * time.Millisecond
)

var errVersionConflict = errors.New("staff record changed concurrently")

type Staff interface {
	Create(ctx context.Context, req dto.CreateStaffRequest) (string, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetStaffResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.StaffResponse, error)
	Exists(ctx context.Context, id string) error
	Update(ctx context.Context, req dto.UpdateStaffRequest, id string) error
	Delete(ctx context.Context, id string) error
	AddReview(ctx context.Context, req dto.AddReviewRequest, id string) (dto.StaffResponse, error)
}

type serviceImpl struct {
	repo  repository.Staff
	bus   pubsub.Bus
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Staff, bus pubsub.Bus, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Staff {
	return &serviceImpl{
		repo:  repo,
		bus:   bus,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateStaffRequest) (id string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	staff := req.ToModel(user)

	if err = s.repo.Insert(ctx, staff); err != nil {
		log.Error().Err(err).Msg("failed to create staff")

		return id, fmt.Errorf("failed to create staff: %w", err)
	}

	s.changed(ctx, pubsub.ActionCreated, staff.ID)

	return staff.ID, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetStaffResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	prefix, cached := shared.VersionedPrefix(ctx, s.cache, cacheVersionStaff, cacheGetAllStaff)
	cacheKey := shared.BuildCacheKeyWithQuery(prefix, req, filter)

	if cached && s.cache.Get(ctx, cacheKey, &res) == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for staff")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count staff: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get staff")

		return res, fmt.Errorf("failed to get staff: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	if !cached {
		return res, nil
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save staff to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	prefix, cached := shared.VersionedPrefix(ctx, s.cache, cacheVersionStaff, cacheCountStaff)
	cacheKey := shared.BuildCacheKeyWithQuery(prefix, req, filter)

	if cached && s.cache.Get(ctx, cacheKey, &res) == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count staff")

		return res, fmt.Errorf("failed to count staff: %w", err)
	}

	if !cached {
		return res, nil
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save staff count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.StaffResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	prefix, cached := shared.VersionedPrefix(ctx, s.cache, cacheVersionStaff, cacheGetStaff)
	cacheKey := shared.BuildCacheKey(prefix, id)

	if cached && s.cache.Get(ctx, cacheKey, &res) == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for staff")

		return res, nil
	}

	staff, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get staff")

		return res, fmt.Errorf("failed to get staff: %w", err)
	}

	if staff.ID == constant.Empty {
		return res, failure.NotFound("stylist not found")
	}

	res.FromModel(staff)

	if !cached {
		return res, nil
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save staff to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Exists(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Exists")
	defer scope.End()
	defer scope.TraceIfError(err)

	exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if staff exists")

		return fmt.Errorf("failed to check if staff exists: %w", err)
	}

	if !exist {
		return failure.NotFound("stylist not found")
	}

	return nil
}

// Update overwrites the given form columns only.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateStaffRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.IsEmpty() {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	if err = s.Exists(ctx, id); err != nil {
		return err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	updatedFields := shared.TransformFields(req, user)

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update staff")

		return fmt.Errorf("failed to update staff: %w", err)
	}

	s.changed(ctx, pubsub.ActionUpdated, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.Exists(ctx, id); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete staff")

		return fmt.Errorf("failed to delete staff: %w", err)
	}

	s.changed(ctx, pubsub.ActionDeleted, id)

	return nil
}

// AddReview appends a review and recomputes rating and review count as one
// compare-and-swap on the row version, retrying while other writers win.
func (s *serviceImpl) AddReview(ctx context.Context, req dto.AddReviewRequest, id string) (res dto.StaffResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AddReview")
	defer scope.End()
	defer scope.TraceIfError(err)

	c := context.WithoutCancel(ctx)
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	review := req.ToModel()
	attempts := 0

	appendReview := func() (model.Staff, error) {
		attempts++

		staff, err := s.repo.Get(c, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			return staff, backoff.Permanent(fmt.Errorf("failed to get staff: %w", err))
		}

		if staff.ID == constant.Empty {
			return staff, backoff.Permanent(failure.NotFound("stylist not found"))
		}

		staff.AppendReview(review)

		swapped, err := s.repo.UpdateReviews(c, staff, user)
		if err != nil {
			return staff, backoff.Permanent(err)
		}

		if !swapped {
			log.Warn().Str("staff_id", id).Int("attempt", attempts).Msg("review write lost a race, retrying")

			return staff, errVersionConflict
		}

		staff.Version++

		return staff, nil
	}

	staff, err := backoff.Retry(c, appendReview,
		backoff.WithBackOff(s.reviewBackOff()),
		backoff.WithMaxTries(s.reviewMaxTries()),
	)

	scope.SetAttribute("review.attempts", attempts)

	if errors.Is(err, errVersionConflict) {
		log.Error().Str("staff_id", id).Int("attempts", attempts).Msg("gave up appending review")

		return res, failure.Conflict("review could not be saved, please try again")
	}

	if err != nil {
		log.Error().Err(err).Str("staff_id", id).Msg("failed to add review")

		return res, err
	}

	s.changed(ctx, pubsub.ActionUpdated, id)

	res.FromModel(staff)

	return res, nil
}

func (s *serviceImpl) reviewBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = reviewInitialInterval
	b.MaxInterval = reviewMaxInterval

	return b
}

func (s *serviceImpl) reviewMaxTries() uint {
	if s.cfg.Booking.ReviewMaxRetries == 0 {
		return defaultReviewMaxRetries
	}

	return s.cfg.Booking.ReviewMaxRetries
}

func (s *serviceImpl) changed(ctx context.Context, action, id string) {
	c := context.WithoutCancel(ctx)

	InvalidateAll(c, s.cache)

	event := pubsub.Event{Collection: constant.CollectionStaff, Action: action, ID: id}
	if err := s.bus.Publish(c, event); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to publish staff change")
	}
}

// InvalidateAll retires the current cache generation, then clears the stored
// reads. The single read pattern also matches listings.
func InvalidateAll(ctx context.Context, redisCache cache.RedisCache) {
	shared.BumpVersion(ctx, redisCache, cacheVersionStaff)
	shared.InvalidateCaches(ctx, redisCache, cacheGetStaff)
	shared.InvalidateCaches(ctx, redisCache, cacheCountStaff)
}
