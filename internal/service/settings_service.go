package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// SettingsServiceImpl implements ports.SettingsService with a cache-aside
// Redis layer in front of the store. Cache failures degrade to store reads;
// they never fail the operation.
type SettingsServiceImpl struct {
	repo  ports.SettingsRepository
	cache ports.SettingsCache
	ttl   time.Duration
	log   zerolog.Logger
}

// NewSettingsService creates a new SettingsServiceImpl.
// If cache is nil, every read goes to the store.
func NewSettingsService(repo ports.SettingsRepository, cache ports.SettingsCache, ttl time.Duration, log zerolog.Logger) *SettingsServiceImpl {
	return &SettingsServiceImpl{repo: repo, cache: cache, ttl: ttl, log: log}
}

// Get returns the current commission configuration, lazily creating the
// record with defaults on first use.
func (s *SettingsServiceImpl) Get(ctx context.Context) (*domain.Settings, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("settings cache read failed, falling through to store")
		}
		if cached != nil {
			settings := &domain.Settings{}
			if err := json.Unmarshal(cached, settings); err == nil {
				return settings, nil
			}
			s.log.Warn().Msg("settings cache entry unreadable, falling through to store")
		}
	}

	settings, err := s.repo.GetOrCreate(ctx)
	if err != nil {
		return nil, apperror.ErrStoreUnavailable(fmt.Errorf("get settings: %w", err))
	}

	s.fill(ctx, settings)
	return settings, nil
}

// Update validates and writes new rates, then invalidates the cache so the
// next ledger operation prices with the fresh configuration.
func (s *SettingsServiceImpl) Update(ctx context.Context, commissionRate, depositDeductionRate int64) (*domain.Settings, error) {
	if !domain.ValidRate(commissionRate) || !domain.ValidRate(depositDeductionRate) {
		return nil, apperror.ErrInvalidRate()
	}

	settings, err := s.repo.Update(ctx, commissionRate, depositDeductionRate)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update settings: %w", err))
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			// Stale reads self-heal when the TTL expires.
			s.log.Warn().Err(err).Msg("settings cache invalidation failed")
		}
	}

	s.log.Info().
		Int64("commission_rate", settings.CommissionRate).
		Int64("deposit_deduction_rate", settings.DepositDeductionRate).
		Int64("version", settings.Version).
		Msg("settings updated")

	return settings, nil
}

func (s *SettingsServiceImpl) fill(ctx context.Context, settings *domain.Settings) {
	if s.cache == nil {
		return
	}
	b, err := json.Marshal(settings)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, b, s.ttl); err != nil {
		s.log.Warn().Err(err).Msg("settings cache write failed")
	}
}
