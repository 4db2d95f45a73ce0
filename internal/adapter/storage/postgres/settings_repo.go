package postgres

import (
	"context"
	"fmt"

	"wallet-ledger/internal/core/domain"
)

// SettingsRepo implements ports.SettingsRepository. The settings table
// holds a single row (id = 1) carrying the commission configuration.
type SettingsRepo struct {
	pool Pool
}

// NewSettingsRepo creates a new SettingsRepo.
func NewSettingsRepo(pool Pool) *SettingsRepo {
	return &SettingsRepo{pool: pool}
}

// GetOrCreate returns the settings row, lazily creating it with defaults.
// The insert is an idempotent upsert (ON CONFLICT DO NOTHING), so
// concurrent first readers cannot race each other into duplicates.
func (r *SettingsRepo) GetOrCreate(ctx context.Context) (*domain.Settings, error) {
	insert := `INSERT INTO settings (id, commission_rate, deposit_deduction_rate, version, updated_at)
		VALUES (1, $1, $2, 1, NOW())
		ON CONFLICT (id) DO NOTHING`

	_, err := r.pool.Exec(ctx, insert, domain.DefaultCommissionRate, domain.DefaultDepositDeductionRate)
	if err != nil {
		return nil, fmt.Errorf("ensure settings: %w", err)
	}

	query := `SELECT commission_rate, deposit_deduction_rate, version, updated_at FROM settings WHERE id = 1`

	s := &domain.Settings{}
	err = r.pool.QueryRow(ctx, query).Scan(&s.CommissionRate, &s.DepositDeductionRate, &s.Version, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return s, nil
}

// Update writes new rates and bumps the version. Upserts so an update
// before first lazy read still lands.
func (r *SettingsRepo) Update(ctx context.Context, commissionRate, depositDeductionRate int64) (*domain.Settings, error) {
	query := `INSERT INTO settings (id, commission_rate, deposit_deduction_rate, version, updated_at)
		VALUES (1, $1, $2, 1, NOW())
		ON CONFLICT (id) DO UPDATE
		SET commission_rate = $1, deposit_deduction_rate = $2, version = settings.version + 1, updated_at = NOW()
		RETURNING commission_rate, deposit_deduction_rate, version, updated_at`

	s := &domain.Settings{}
	err := r.pool.QueryRow(ctx, query, commissionRate, depositDeductionRate).
		Scan(&s.CommissionRate, &s.DepositDeductionRate, &s.Version, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	return s, nil
}
