package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"trancheScope/internal/model"
)

// Store exports assembled snapshots to Postgres for downstream analytics.
// Rows are keyed by (chain_id, product_id) and (chain_id, tranche_id); each
// export overwrites the previous observation.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// PutSnapshots upserts product and tranche rows for every snapshot in one
// batch round trip.
func (s *Store) PutSnapshots(ctx context.Context, snapshots []model.AssembledProduct) error {
	if len(snapshots) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	queued := 0
	for _, snapshot := range snapshots {
		batch.Queue(`
			INSERT INTO product_snapshots (
				chain_id, product_id, metadata_hash, active, tranche_count, degraded, fetched_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, now())
			ON CONFLICT (chain_id, product_id)
			DO UPDATE SET
				metadata_hash = EXCLUDED.metadata_hash,
				active = EXCLUDED.active,
				tranche_count = EXCLUDED.tranche_count,
				degraded = EXCLUDED.degraded,
				fetched_at = EXCLUDED.fetched_at,
				updated_at = now()
		`,
			int64(snapshot.ChainID),
			int64(snapshot.Product.ProductID),
			snapshot.Product.MetadataHash,
			snapshot.Product.Active,
			len(snapshot.Tranches),
			snapshot.Degraded(),
			snapshot.FetchedAt,
		)
		queued++

		for _, view := range snapshot.Tranches {
			var (
				riskLevel      *string
				triggerPercent *string
				utilization    *string
				premiumAPY     *string
				totalAPY       *string
				daysRemaining  *int64
			)
			if view.Derived != nil {
				level := string(view.Derived.RiskLevel)
				riskLevel = &level
				trigger := view.Derived.TriggerPercent.String()
				triggerPercent = &trigger
				util := view.Derived.Utilization.String()
				utilization = &util
				premium := view.Derived.PremiumAPY.String()
				premiumAPY = &premium
				total := view.Derived.TotalAPY.String()
				totalAPY = &total
				days := view.Derived.DaysRemaining
				daysRemaining = &days
			}

			var roundState *string
			if view.Round != nil {
				label := view.Round.StateLabel
				roundState = &label
			}

			var branchError *string
			if view.Err != nil {
				msg := fmt.Sprintf("%s: %s", view.Err.Stage, view.Err.Message)
				branchError = &msg
			}

			batch.Queue(`
				INSERT INTO tranche_snapshots (
					chain_id, tranche_id, product_id, premium_rate_bps, tranche_cap,
					risk_level, trigger_percent, utilization, premium_apy, total_apy,
					days_remaining, round_state, branch_error, fetched_at, updated_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now())
				ON CONFLICT (chain_id, tranche_id)
				DO UPDATE SET
					product_id = EXCLUDED.product_id,
					premium_rate_bps = EXCLUDED.premium_rate_bps,
					tranche_cap = EXCLUDED.tranche_cap,
					risk_level = EXCLUDED.risk_level,
					trigger_percent = EXCLUDED.trigger_percent,
					utilization = EXCLUDED.utilization,
					premium_apy = EXCLUDED.premium_apy,
					total_apy = EXCLUDED.total_apy,
					days_remaining = EXCLUDED.days_remaining,
					round_state = EXCLUDED.round_state,
					branch_error = EXCLUDED.branch_error,
					fetched_at = EXCLUDED.fetched_at,
					updated_at = now()
			`,
				int64(snapshot.ChainID),
				int64(view.Tranche.TrancheID),
				int64(snapshot.Product.ProductID),
				int64(view.Tranche.PremiumRateBps),
				view.Tranche.TrancheCap.String(),
				riskLevel,
				triggerPercent,
				utilization,
				premiumAPY,
				totalAPY,
				daysRemaining,
				roundState,
				branchError,
				snapshot.FetchedAt,
			)
			queued++
		}
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < queued; i++ {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
