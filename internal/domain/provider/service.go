package provider

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Service resolves provider references and serves schedules.
type Service struct {
	repo     *Repository
	cache    *redis.Client // optional, nil when Redis is not configured
	cacheTTL time.Duration
}

func NewService(repo *Repository, cache *redis.Client, cacheTTL time.Duration) *Service {
	return &Service{repo: repo, cache: cache, cacheTTL: cacheTTL}
}

// readAttempts bounds retries for idempotent lookups. Mutating calls
// are never retried anywhere in this codebase.
const readAttempts = 2

func retryRead[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	var out T
	var err error
	for attempt := 0; attempt < readAttempts; attempt++ {
		out, err = fn(ctx)
		if err == nil || errors.Is(err, ErrNotFound) || ctx.Err() != nil {
			return out, err
		}
	}
	return out, err
}

// Resolve maps a caller-supplied provider token to a provider record.
// A malformed token means "no provider specified", not an error.
// Lookup order: primary providers table, then the legacy practitioners
// table re-resolved to the primary record. When neither resolves the
// booking proceeds providerless.
func (s *Service) Resolve(ctx context.Context, token string) (*Provider, error) {
	if token == "" {
		return nil, nil
	}

	id, err := uuid.Parse(token)
	if err != nil {
		log.Debug().Str("provider_token", token).Msg("malformed provider reference, booking providerless")
		return nil, nil
	}

	p, err := retryRead(ctx, func(ctx context.Context) (*Provider, error) {
		return s.repo.GetByID(ctx, id)
	})
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	p, err = retryRead(ctx, func(ctx context.Context) (*Provider, error) {
		return s.repo.GetByLegacyPractitionerID(ctx, id)
	})
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	log.Warn().Str("provider_id", id.String()).Msg("provider reference did not resolve, booking providerless")
	return nil, nil
}

// GetSchedule returns a provider's schedule, read-through cached.
func (s *Service) GetSchedule(ctx context.Context, id uuid.UUID) (*Schedule, error) {
	key := "provider:schedule:" + id.String()

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key).Bytes()
		if err == nil {
			var cached Schedule
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("schedule cache read failed")
		}
	}

	sched, err := retryRead(ctx, func(ctx context.Context) (*Schedule, error) {
		return s.repo.GetSchedule(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(sched); err == nil {
			if err := s.cache.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("schedule cache write failed")
			}
		}
	}
	return sched, nil
}
