package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Authorizer=MockAuthorizer,Role=MockRoleService

import (
	"context"
	"fmt"
	"salon/config"
	"salon/infras/otel"
	"salon/internal/domains/role/model"
	"salon/internal/domains/role/repository"
	userModel "salon/internal/domains/user/model"
	userRepo "salon/internal/domains/user/repository"
	"salon/shared"
	"salon/shared/cache"
	"salon/shared/constant"
	"salon/shared/failure"
	"salon/shared/timezone"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const cacheIsAdmin = "role:is_admin"

// Authorizer answers whether an identity holds the admin capability.
type Authorizer interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

type Role interface {
	Authorizer
	Grant(ctx context.Context, email string) error
	Revoke(ctx context.Context, email string) error
}

type serviceImpl struct {
	repo     repository.Role
	userRepo userRepo.User
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.Role, userRepo userRepo.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Role {
	return &serviceImpl{
		repo:     repo,
		userRepo: userRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

// NewAuthorizer narrows Role to the capability check used by the middleware.
func NewAuthorizer(role Role) Authorizer {
	return role
}

// IsAdmin is a pure existence check on roles_admin. An empty identity is never admin.
func (s *serviceImpl) IsAdmin(ctx context.Context, userID string) (isAdmin bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IsAdmin")
	defer scope.End()
	defer scope.TraceIfError(err)

	if userID == constant.Empty {
		return false, nil
	}

	prefix, cached := shared.VersionedPrefix(ctx, s.cache, shared.BuildCacheKey(cacheIsAdmin, userID), cacheIsAdmin)
	cacheKey := shared.BuildCacheKey(prefix, userID)

	var stored string
	if cached && s.cache.Get(ctx, cacheKey, &stored) == nil {
		if parsed, parseErr := strconv.ParseBool(stored); parseErr == nil {
			return parsed, nil
		}
	}

	isAdmin, err = s.repo.Exist(ctx, shared.FilterByID(userID, model.FieldUserID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to check admin role")

		return false, fmt.Errorf("failed to check admin role: %w", err)
	}

	if !cached {
		return isAdmin, nil
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, strconv.FormatBool(isAdmin), s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save admin role to cache")
		}
	}()

	return isAdmin, nil
}

func (s *serviceImpl) Grant(ctx context.Context, email string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Grant")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.findUser(ctx, email)
	if err != nil {
		return err
	}

	filter := shared.FilterByID(user.ID, model.FieldUserID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to check admin role: %w", err)
	}

	if exist {
		return nil
	}

	grantedBy, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if grantedBy == constant.Empty {
		grantedBy = "system"
	}

	role := model.AdminRole{
		UserID:    user.ID,
		GrantedBy: grantedBy,
		CreatedAt: timezone.Now(),
	}

	if err = s.repo.Insert(ctx, role); err != nil {
		log.Error().Err(err).Msg("failed to grant admin role")

		return fmt.Errorf("failed to grant admin role: %w", err)
	}

	s.forget(ctx, user.ID)

	log.Info().Str("user_id", user.ID).Str("granted_by", grantedBy).Msg("admin role granted")

	return nil
}

func (s *serviceImpl) Revoke(ctx context.Context, email string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Revoke")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.findUser(ctx, email)
	if err != nil {
		return err
	}

	filter := shared.FilterByID(user.ID, model.FieldUserID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to check admin role: %w", err)
	}

	if !exist {
		return failure.NotFound("admin role not found")
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to revoke admin role")

		return fmt.Errorf("failed to revoke admin role: %w", err)
	}

	s.forget(ctx, user.ID)

	log.Info().Str("user_id", user.ID).Msg("admin role revoked")

	return nil
}

func (s *serviceImpl) findUser(ctx context.Context, email string) (userModel.User, error) {
	user, err := s.userRepo.Get(ctx, userRepo.FilterByEmail(strings.ToLower(strings.TrimSpace(email))))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return user, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return user, failure.NotFound("user not found")
	}

	return user, nil
}

// forget retires the cached answer for userID, including one still being
// saved by a concurrent IsAdmin.
func (s *serviceImpl) forget(ctx context.Context, userID string) {
	shared.BumpVersion(ctx, s.cache, shared.BuildCacheKey(cacheIsAdmin, userID))
}
