// Package assemble resolves the product -> tranche -> round -> pool graph
// through many independent point queries and merges the results into one
// assembled snapshot per product. Branches fail independently: a dead round
// lookup degrades its tranche, never its siblings.
package assemble

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"trancheScope/internal/derive"
	"trancheScope/internal/insurance"
	"trancheScope/internal/model"
	"trancheScope/internal/normalize"
)

// Reader is the consumed chain-read surface. *insurance.Reader satisfies it;
// tests inject fakes.
type Reader interface {
	ActiveProductIDs(ctx context.Context) ([]uint64, error)
	Product(ctx context.Context, id uint64) (insurance.RawProduct, error)
	Tranche(ctx context.Context, id uint64) (insurance.RawTranche, error)
	Round(ctx context.Context, id uint64) (insurance.RawRound, error)
	PoolAccounting(ctx context.Context, poolAddress string) (insurance.RawPoolAccounting, error)
	Price(ctx context.Context, routeID uint64) (insurance.RawPrice, error)
	BuyerOrders(ctx context.Context, account string) ([]insurance.RawBuyerOrder, error)
	SellerDeposits(ctx context.Context, account string) ([]insurance.RawSellerDeposit, error)
}

// Config holds assembler settings.
type Config struct {
	ChainID         uint64
	StakingYieldPct decimal.Decimal
	Retry           RetryPolicy
}

// Assembler fans out to the reader and merges results into assembled
// product snapshots.
type Assembler struct {
	cfg    Config
	reader Reader
	logger *zap.Logger
	now    func() time.Time
}

// New builds an Assembler. A nil logger falls back to zap.NewNop; a zero
// retry policy falls back to the default one-retry policy.
func New(cfg Config, reader Reader, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = DefaultRetryPolicy()
	}
	return &Assembler{
		cfg:    cfg,
		reader: reader,
		logger: logger,
		now:    time.Now,
	}
}

// AssembleAll resolves the active product id list and assembles every
// product concurrently. Products that fail to resolve entirely are excluded
// and logged; the remaining snapshots are returned in on-chain id-list order.
func (a *Assembler) AssembleAll(ctx context.Context) ([]model.AssembledProduct, error) {
	if a.reader == nil {
		return nil, fmt.Errorf("reader is nil")
	}

	var ids []uint64
	err := a.cfg.Retry.Do(ctx, func(ctx context.Context) error {
		var err error
		ids, err = a.reader.ActiveProductIDs(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("resolve active products: %w", err)
	}

	return a.AssembleProducts(ctx, ids)
}

// AssembleProducts assembles the given product ids concurrently, preserving
// input order.
func (a *Assembler) AssembleProducts(ctx context.Context, ids []uint64) ([]model.AssembledProduct, error) {
	type slot struct {
		snapshot model.AssembledProduct
		err      error
	}
	slots := make([]slot, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id uint64) {
			defer wg.Done()
			slots[i].snapshot, slots[i].err = a.AssembleProduct(ctx, id)
		}(i, id)
	}
	wg.Wait()

	snapshots := make([]model.AssembledProduct, 0, len(ids))
	for i, s := range slots {
		if s.err != nil {
			a.logger.Warn("product assembly failed", zap.Uint64("product_id", ids[i]), zap.Error(s.err))
			continue
		}
		snapshots = append(snapshots, s.snapshot)
	}
	return snapshots, nil
}

// AssembleProduct assembles the full snapshot for one product. Failure to
// resolve the product record itself is a hard error; everything below it
// degrades per branch.
func (a *Assembler) AssembleProduct(ctx context.Context, id uint64) (model.AssembledProduct, error) {
	var rawProduct insurance.RawProduct
	err := a.cfg.Retry.Do(ctx, func(ctx context.Context) error {
		var err error
		rawProduct, err = a.reader.Product(ctx, id)
		return err
	})
	if err != nil {
		return model.AssembledProduct{}, fmt.Errorf("product %d: %w", id, err)
	}

	product := normalize.Product(rawProduct)
	views := make([]*model.TrancheView, len(product.TrancheIDs))

	var wg sync.WaitGroup
	for i, trancheID := range product.TrancheIDs {
		wg.Add(1)
		go func(i int, trancheID uint64) {
			defer wg.Done()
			views[i] = a.assembleTranche(ctx, trancheID)
		}(i, trancheID)
	}
	wg.Wait()

	// Slot-indexed collection keeps the on-chain tranche ordering; excluded
	// tranches (invariant violations) leave nil slots compacted here.
	tranches := make([]model.TrancheView, 0, len(views))
	for _, view := range views {
		if view != nil {
			tranches = append(tranches, *view)
		}
	}

	return model.AssembledProduct{
		ChainID:   a.cfg.ChainID,
		Product:   product,
		Tranches:  tranches,
		FetchedAt: a.now().UTC(),
	}, nil
}

// AssembleTranche resolves one tranche as the root entity: a failure to
// fetch or normalize the tranche itself is a hard error, while the leaf
// reads below it degrade as usual.
func (a *Assembler) AssembleTranche(ctx context.Context, trancheID uint64) (model.TrancheView, error) {
	var rawTranche insurance.RawTranche
	err := a.cfg.Retry.Do(ctx, func(ctx context.Context) error {
		var err error
		rawTranche, err = a.reader.Tranche(ctx, trancheID)
		return err
	})
	if err != nil {
		return model.TrancheView{}, fmt.Errorf("tranche %d: %w", trancheID, err)
	}

	tranche, err := normalize.Tranche(rawTranche)
	if err != nil {
		return model.TrancheView{}, fmt.Errorf("tranche %d: %w", trancheID, err)
	}

	round, pool, price, branchErr := a.fetchTrancheLeaves(ctx, tranche)
	return model.TrancheView{
		Tranche: tranche,
		Round:   round,
		Pool:    pool,
		Err:     branchErr,
		Derived: derive.Decorate(tranche, round, price, a.cfg.StakingYieldPct, a.now()),
	}, nil
}

// assembleTranche resolves one tranche's sub-graph. Returns nil when the
// tranche must be excluded from the snapshot (data-model invariant
// violation).
func (a *Assembler) assembleTranche(ctx context.Context, trancheID uint64) *model.TrancheView {
	var rawTranche insurance.RawTranche
	err := a.cfg.Retry.Do(ctx, func(ctx context.Context) error {
		var err error
		rawTranche, err = a.reader.Tranche(ctx, trancheID)
		return err
	})
	if err != nil {
		a.logger.Warn("tranche fetch failed", zap.Uint64("tranche_id", trancheID), zap.Error(err))
		return &model.TrancheView{
			Tranche: model.Tranche{TrancheID: trancheID},
			Err:     &model.BranchError{Stage: "tranche", Message: err.Error()},
		}
	}

	tranche, err := normalize.Tranche(rawTranche)
	if err != nil {
		if errors.Is(err, model.ErrInvariant) {
			a.logger.Warn("tranche excluded", zap.Uint64("tranche_id", trancheID), zap.Error(err))
			return nil
		}
		return &model.TrancheView{
			Tranche: tranche,
			Err:     &model.BranchError{Stage: "tranche", Message: err.Error()},
		}
	}

	round, pool, price, branchErr := a.fetchTrancheLeaves(ctx, tranche)

	view := &model.TrancheView{
		Tranche: tranche,
		Round:   round,
		Pool:    pool,
		Err:     branchErr,
		Derived: derive.Decorate(tranche, round, price, a.cfg.StakingYieldPct, a.now()),
	}
	return view
}

// fetchTrancheLeaves runs the three leaf reads of a tranche concurrently:
// current round, pool accounting, and oracle price. A missing price is not a
// branch error — the derivation falls back to the premium-band heuristic.
func (a *Assembler) fetchTrancheLeaves(ctx context.Context, tranche model.Tranche) (*model.Round, *model.PoolAccounting, *model.OraclePrice, *model.BranchError) {
	var (
		wg       sync.WaitGroup
		round    *model.Round
		pool     *model.PoolAccounting
		price    *model.OraclePrice
		failures = make([]string, 0, 2)
		mu       sync.Mutex
	)

	fail := func(stage string, err error) {
		mu.Lock()
		failures = append(failures, fmt.Sprintf("%s: %v", stage, err))
		mu.Unlock()
	}

	if roundID, ok := tranche.LatestRoundID(); ok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var raw insurance.RawRound
			err := a.cfg.Retry.Do(ctx, func(ctx context.Context) error {
				var err error
				raw, err = a.reader.Round(ctx, roundID)
				return err
			})
			if err != nil {
				a.logger.Warn("round fetch failed",
					zap.Uint64("tranche_id", tranche.TrancheID),
					zap.Uint64("round_id", roundID),
					zap.Error(err))
				fail("round", err)
				return
			}
			normalized := normalize.Round(roundID, tranche.TrancheID, raw)
			round = &normalized
		}()
	}

	if tranche.PoolAddress != "" && !isZeroAddress(tranche.PoolAddress) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var raw insurance.RawPoolAccounting
			err := a.cfg.Retry.Do(ctx, func(ctx context.Context) error {
				var err error
				raw, err = a.reader.PoolAccounting(ctx, tranche.PoolAddress)
				return err
			})
			if err != nil {
				a.logger.Warn("pool accounting fetch failed",
					zap.Uint64("tranche_id", tranche.TrancheID),
					zap.String("pool", tranche.PoolAddress),
					zap.Error(err))
				fail("pool", err)
				return
			}
			normalized := normalize.PoolAccounting(raw)
			pool = &normalized
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		var raw insurance.RawPrice
		err := a.cfg.Retry.Do(ctx, func(ctx context.Context) error {
			var err error
			raw, err = a.reader.Price(ctx, tranche.OracleRouteID)
			return err
		})
		if err != nil {
			a.logger.Debug("oracle price unavailable, premium-band fallback",
				zap.Uint64("tranche_id", tranche.TrancheID),
				zap.Uint64("route_id", tranche.OracleRouteID),
				zap.Error(err))
			return
		}
		normalized := normalize.Price(raw)
		price = &normalized
	}()

	wg.Wait()

	if len(failures) == 0 {
		return round, pool, price, nil
	}
	stage := strings.SplitN(failures[0], ":", 2)[0]
	return round, pool, price, &model.BranchError{
		Stage:   stage,
		Message: strings.Join(failures, "; "),
	}
}

func isZeroAddress(addr string) bool {
	trimmed := strings.TrimPrefix(strings.ToLower(addr), "0x")
	return strings.Trim(trimmed, "0") == ""
}
