package shared

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"salon/shared/cache"
	"salon/shared/constant"
	"salon/shared/dto"
	"salon/shared/timezone"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const cacheQueryHashLength = 16

func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to convert string to bool")

		return nil
	}

	return &boolValue
}

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// TransformFields converts the fields of a struct into a map of updated fields.
func TransformFields(data interface{}, username string) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" {
			continue
		}

		updatedFields[fieldName] = field.Interface()
	}

	updatedFields[constant.FieldModifiedAt] = timezone.Now()
	updatedFields[constant.FieldModifiedBy] = username

	return updatedFields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// BuildCacheKey joins the prefix and the non-empty parts with a colon.
func BuildCacheKey(prefix string, parts ...string) string {
	keys := []string{prefix}

	for _, part := range parts {
		if part == constant.Empty {
			continue
		}

		keys = append(keys, part)
	}

	return strings.Join(keys, constant.Colon)
}

// BuildCacheKeyWithQuery derives a stable key from pagination, sorting and filter arguments.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	encodedArgs, err := json.Marshal(args)
	if err != nil {
		log.Warn().Err(err).Str("prefix", prefix).Msg("failed to encode filter arguments for cache key")
	}

	sum := sha256.Sum256([]byte(where + string(encodedArgs)))
	hash := hex.EncodeToString(sum[:])[:cacheQueryHashLength]

	return BuildCacheKey(
		prefix,
		strconv.Itoa(params.Page),
		strconv.Itoa(params.Limit),
		params.SortBy,
		params.SortDir,
		hash,
	)
}

// InvalidateCaches clears every key under the prefix. Failures are only logged.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	pattern := fmt.Sprintf("%s%s", prefix, constant.Asterix)

	if err := redisCache.Clear(ctx, pattern); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}

// VersionedPrefix appends the current generation of name to prefix. Keys built
// on it are read and written only while that generation lasts. cached is false
// when the generation cannot be read and the cache has to be bypassed.
func VersionedPrefix(ctx context.Context, redisCache cache.RedisCache, name, prefix string) (versioned string, cached bool) {
	version, err := redisCache.Version(ctx, name)
	if err != nil {
		log.Warn().Err(err).Str("name", name).Msg("failed to read cache version, bypassing cache")

		return prefix, false
	}

	return BuildCacheKey(prefix, "v"+strconv.FormatInt(version, 10)), true
}

// BumpVersion retires every key built on the current generation of name.
func BumpVersion(ctx context.Context, redisCache cache.RedisCache, name string) {
	if err := redisCache.Bump(ctx, name); err != nil {
		log.Error().Err(err).Str("name", name).Msg("failed to bump cache version")
	}
}
