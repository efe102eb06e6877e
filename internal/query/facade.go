// Package query is the read surface consumed by the presentation layer. All
// operations return a Result instead of failing, so callers can render
// partial or stale data while distinguishing "no data yet", "empty result",
// and "degraded snapshot".
package query

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"trancheScope/internal/model"
	"trancheScope/internal/snapcache"
)

// Result is the uniform response envelope. Loading is true only on
// non-blocking peeks while a refresh is still in flight; blocking calls
// always return a settled Result.
type Result[T any] struct {
	Data    T
	Loading bool
	Err     error
}

// Filter narrows ListProducts.
type Filter struct {
	ActiveOnly bool
	ProductIDs []uint64
}

// Source is the assembly surface the facade composes. *assemble.Assembler
// satisfies it.
type Source interface {
	AssembleAll(ctx context.Context) ([]model.AssembledProduct, error)
	AssembleProducts(ctx context.Context, ids []uint64) ([]model.AssembledProduct, error)
	AssembleProduct(ctx context.Context, id uint64) (model.AssembledProduct, error)
	AssembleTranche(ctx context.Context, id uint64) (model.TrancheView, error)
	AssemblePositions(ctx context.Context, account string) ([]model.UserPosition, error)
}

// Service composes the snapshot cache and the assembler.
type Service struct {
	source  Source
	cache   *snapcache.Cache
	chainID uint64
	ttl     time.Duration
	logger  *zap.Logger

	mu       sync.Mutex
	inflight map[snapcache.Key]int
}

// NewService builds the facade. ttl <= 0 falls back to the cache default.
func NewService(source Source, cache *snapcache.Cache, chainID uint64, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = snapcache.DefaultTTL
	}
	return &Service{
		source:   source,
		cache:    cache,
		chainID:  chainID,
		ttl:      ttl,
		logger:   logger,
		inflight: make(map[snapcache.Key]int),
	}
}

func (s *Service) productsKey() snapcache.Key {
	return snapcache.Key{ChainID: s.chainID, Kind: snapcache.KindProducts, ID: "active"}
}

func (s *Service) productKey(id uint64) snapcache.Key {
	return snapcache.Key{ChainID: s.chainID, Kind: snapcache.KindProduct, ID: strconv.FormatUint(id, 10)}
}

func (s *Service) trancheKey(id uint64) snapcache.Key {
	return snapcache.Key{ChainID: s.chainID, Kind: snapcache.KindTranche, ID: strconv.FormatUint(id, 10)}
}

func (s *Service) positionsKey(account string) snapcache.Key {
	return snapcache.Key{ChainID: s.chainID, Kind: snapcache.KindPositions, ID: account}
}

// ListProducts returns assembled snapshots for all active products, or for
// filter.ProductIDs when set. Cache hits short-circuit the chain entirely.
func (s *Service) ListProducts(ctx context.Context, filter *Filter) Result[[]model.AssembledProduct] {
	key := s.productsKey()
	if cached, ok := s.cache.Get(key); ok {
		return Result[[]model.AssembledProduct]{Data: applyFilter(cached.([]model.AssembledProduct), filter)}
	}

	gen := s.begin(key)
	defer s.end(key)

	var (
		snapshots []model.AssembledProduct
		err       error
	)
	if filter != nil && len(filter.ProductIDs) > 0 {
		snapshots, err = s.source.AssembleProducts(ctx, filter.ProductIDs)
		if err == nil {
			// Explicit id lists are not the canonical active set; cache only
			// the full listing.
			return Result[[]model.AssembledProduct]{Data: applyFilter(snapshots, filter)}
		}
	} else {
		snapshots, err = s.source.AssembleAll(ctx)
		if err == nil {
			s.cache.Commit(key, gen, snapshots, s.ttl)
			return Result[[]model.AssembledProduct]{Data: applyFilter(snapshots, filter)}
		}
	}
	return Result[[]model.AssembledProduct]{Err: err}
}

// PeekProducts is the non-blocking read: cached data if present, otherwise
// Loading reports whether a refresh is in flight for the listing key.
func (s *Service) PeekProducts() Result[[]model.AssembledProduct] {
	key := s.productsKey()
	if cached, ok := s.cache.Get(key); ok {
		return Result[[]model.AssembledProduct]{Data: cached.([]model.AssembledProduct)}
	}
	return Result[[]model.AssembledProduct]{Loading: s.inflightCount(key) > 0}
}

// Product returns the assembled snapshot for one product id.
func (s *Service) Product(ctx context.Context, id uint64) Result[model.AssembledProduct] {
	key := s.productKey(id)
	if cached, ok := s.cache.Get(key); ok {
		return Result[model.AssembledProduct]{Data: cached.(model.AssembledProduct)}
	}

	gen := s.begin(key)
	defer s.end(key)

	snapshot, err := s.source.AssembleProduct(ctx, id)
	if err != nil {
		return Result[model.AssembledProduct]{Err: err}
	}
	s.cache.Commit(key, gen, snapshot, s.ttl)
	return Result[model.AssembledProduct]{Data: snapshot}
}

// Tranche returns the detail view for one tranche id.
func (s *Service) Tranche(ctx context.Context, id uint64) Result[model.TrancheView] {
	key := s.trancheKey(id)
	if cached, ok := s.cache.Get(key); ok {
		return Result[model.TrancheView]{Data: cached.(model.TrancheView)}
	}

	gen := s.begin(key)
	defer s.end(key)

	view, err := s.source.AssembleTranche(ctx, id)
	if err != nil {
		return Result[model.TrancheView]{Err: err}
	}
	s.cache.Commit(key, gen, view, s.ttl)
	return Result[model.TrancheView]{Data: view}
}

// UserPositions returns the account's insurance and liquidity positions.
func (s *Service) UserPositions(ctx context.Context, account string) Result[[]model.UserPosition] {
	key := s.positionsKey(account)
	if cached, ok := s.cache.Get(key); ok {
		return Result[[]model.UserPosition]{Data: cached.([]model.UserPosition)}
	}

	gen := s.begin(key)
	defer s.end(key)

	positions, err := s.source.AssemblePositions(ctx, account)
	if err != nil {
		return Result[[]model.UserPosition]{Err: err}
	}
	s.cache.Commit(key, gen, positions, s.ttl)
	return Result[[]model.UserPosition]{Data: positions}
}

// RefreshProducts forces a refetch of the product listing, bypassing the
// cache window. Overlapping refreshes are resolved by the cache's
// generation tokens: the latest-requested refresh wins regardless of
// completion order.
func (s *Service) RefreshProducts(ctx context.Context) Result[[]model.AssembledProduct] {
	key := s.productsKey()
	gen := s.begin(key)
	defer s.end(key)

	snapshots, err := s.source.AssembleAll(ctx)
	if err != nil {
		return Result[[]model.AssembledProduct]{Err: err}
	}
	s.cache.Commit(key, gen, snapshots, s.ttl)
	return Result[[]model.AssembledProduct]{Data: snapshots}
}

// Invalidate drops the cached snapshot for one product.
func (s *Service) Invalidate(id uint64) {
	s.cache.Invalidate(s.productKey(id))
	s.cache.Invalidate(s.productsKey())
}

// InvalidateAll drops every cached entry.
func (s *Service) InvalidateAll() {
	s.cache.InvalidateAll()
}

func (s *Service) begin(key snapcache.Key) uint64 {
	s.mu.Lock()
	s.inflight[key]++
	s.mu.Unlock()
	return s.cache.Begin(key)
}

func (s *Service) end(key snapcache.Key) {
	s.mu.Lock()
	s.inflight[key]--
	if s.inflight[key] <= 0 {
		delete(s.inflight, key)
	}
	s.mu.Unlock()
}

func (s *Service) inflightCount(key snapcache.Key) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight[key]
}

func applyFilter(snapshots []model.AssembledProduct, filter *Filter) []model.AssembledProduct {
	if filter == nil {
		return snapshots
	}
	out := make([]model.AssembledProduct, 0, len(snapshots))
	for _, snapshot := range snapshots {
		if filter.ActiveOnly && !snapshot.Product.Active {
			continue
		}
		if len(filter.ProductIDs) > 0 && !containsID(filter.ProductIDs, snapshot.Product.ProductID) {
			continue
		}
		out = append(out, snapshot)
	}
	return out
}

func containsID(ids []uint64, id uint64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
