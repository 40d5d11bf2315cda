package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/dkurganov/lavka/internal/domain"
	"github.com/dkurganov/lavka/internal/telemetry"
	"github.com/google/uuid"
)

// MergeService reconciles anonymous shopping state with the authenticated
// user's server state. It runs once per Anonymous→Authenticated transition.
//
// Conflict rules: cart quantities are summed (the user picked more items
// while logged out and loses neither set); the wishlist is a set union.
// Each local item is deleted from the local store in the same step it is
// successfully migrated, so a re-run never double-counts: items that already
// moved are simply gone from the source.
type MergeService interface {
	// MergeOnLogin migrates the anonymous state held under token into the
	// user's server cart and wishlist. It never blocks login: failures are
	// logged and the failed items stay local for a retry on a later login.
	// Returns the number of items migrated and whether everything under the
	// token moved, so the caller can retire the anonymous session.
	MergeOnLogin(ctx context.Context, userID uuid.UUID, token string) (int, bool)
}

type mergeService struct {
	local     domain.LocalStore
	carts     domain.CartStore
	wishlists domain.WishlistStore
	logger    *slog.Logger
	metrics   *telemetry.BusinessMetrics

	// inflight guards against the double-merge race when two requests for
	// the same token arrive at once. Entries live only for the duration of
	// a merge: once the merged items are deleted from the local store a
	// re-run is a no-op, so a later login with the same token can still
	// pick up items added after this merge finished.
	inflight sync.Map
}

// NewMergeService creates a new MergeService instance.
func NewMergeService(local domain.LocalStore, carts domain.CartStore, wishlists domain.WishlistStore, logger *slog.Logger, metrics *telemetry.BusinessMetrics) MergeService {
	return &mergeService{
		local:     local,
		carts:     carts,
		wishlists: wishlists,
		logger:    logger,
		metrics:   metrics,
	}
}

func (s *mergeService) MergeOnLogin(ctx context.Context, userID uuid.UUID, token string) (int, bool) {
	if token == "" {
		return 0, true
	}

	if _, loaded := s.inflight.LoadOrStore(token, struct{}{}); loaded {
		// A merge for this anonymous session is already running.
		return 0, false
	}
	defer s.inflight.Delete(token)

	if s.metrics != nil {
		s.metrics.MergeRuns.Inc()
	}

	migrated, failed := s.mergeCart(ctx, userID, token)
	wlMigrated, wlFailed := s.mergeWishlist(ctx, userID, token)
	migrated += wlMigrated
	failed = errors.Join(failed, wlFailed)

	if failed != nil {
		s.logger.Warn("cart merge incomplete, leftover items stay local",
			slog.String("user_id", userID.String()),
			slog.String("error", failed.Error()))
		if s.metrics != nil {
			s.metrics.MergeFailures.Inc()
		}
	}

	if s.metrics != nil && migrated > 0 {
		s.metrics.MergeItemsMerged.Add(float64(migrated))
	}
	return migrated, failed == nil
}

// mergeCart applies the sum rule per product. The local line is removed in
// the same step it lands on the server; a failed line stays local.
func (s *mergeService) mergeCart(ctx context.Context, userID uuid.UUID, token string) (int, error) {
	items := s.local.CartItems(token)

	productIDs := make([]uuid.UUID, 0, len(items))
	for pid := range items {
		productIDs = append(productIDs, pid)
	}
	sort.Slice(productIDs, func(i, j int) bool {
		return productIDs[i].String() < productIDs[j].String()
	})

	var migrated int
	var errs []error
	cartKey := userID.String()
	for _, pid := range productIDs {
		if err := s.carts.Add(ctx, cartKey, pid, items[pid]); err != nil {
			errs = append(errs, err)
			continue
		}
		s.local.RemoveCartItem(token, pid)
		migrated++
	}
	return migrated, errors.Join(errs...)
}

// mergeWishlist applies the union rule with the same per-item delete-on-success.
func (s *mergeService) mergeWishlist(ctx context.Context, userID uuid.UUID, token string) (int, error) {
	ids := s.local.WishlistItems(token)
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	var migrated int
	var errs []error
	for _, pid := range ids {
		if err := s.wishlists.Add(ctx, userID, pid); err != nil {
			errs = append(errs, err)
			continue
		}
		s.local.RemoveWishlistItem(token, pid)
		migrated++
	}
	return migrated, errors.Join(errs...)
}
