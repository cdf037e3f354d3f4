package jobs

import (
	"context"
	"time"

	"github.com/nekogravitycat/noq-backend/internal/logger"
	"github.com/nekogravitycat/noq-backend/internal/pkg/clock"
	"github.com/nekogravitycat/noq-backend/internal/pkg/daterange"
)

// ProductLister lists the products whose projection is kept up to date.
type ProductLister interface {
	ListIDs(ctx context.Context) ([]string, error)
}

// Rebuilder rebuilds the projection of one product from the start of horizon through its last
// booking or stored row, and at least to the end of horizon.
type Rebuilder interface {
	RebuildAvailability(ctx context.Context, productID string, horizon daterange.Range) error
}

// Reconciler rebuilds availability rows from bookings, from today through each product's furthest
// booking or projected date, and at least over a fixed horizon.
type Reconciler struct {
	products    ProductLister
	bookings    Rebuilder
	clock       clock.Clock
	horizonDays int
	timeout     time.Duration
}

// NewReconciler creates a Reconciler. horizonDays below 1 is treated as 1.
func NewReconciler(products ProductLister, bookings Rebuilder, clk clock.Clock, horizonDays int) *Reconciler {
	if horizonDays < 1 {
		horizonDays = 1
	}
	return &Reconciler{
		products:    products,
		bookings:    bookings,
		clock:       clk,
		horizonDays: horizonDays,
		timeout:     10 * time.Minute,
	}
}

// Horizon returns the span the reconciler covers as of now.
func (r *Reconciler) Horizon() daterange.Range {
	return daterange.Extend(clock.Today(r.clock), r.horizonDays)
}

// RefreshProduct rebuilds the projection of a single product.
func (r *Reconciler) RefreshProduct(ctx context.Context, productID string) error {
	return r.bookings.RebuildAvailability(ctx, productID, r.Horizon())
}

// ReconcileAll rebuilds every product, one transaction per product. A failing product is logged
// and skipped. It returns how many products were rebuilt.
func (r *Reconciler) ReconcileAll(ctx context.Context) (int, error) {
	ids, err := r.products.ListIDs(ctx)
	if err != nil {
		return 0, err
	}

	span := r.Horizon()
	done := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		if err := r.bookings.RebuildAvailability(ctx, id, span); err != nil {
			logger.ErrorContext(ctx, "failed to reconcile product availability", "product_id", id, "error", err)
			continue
		}
		done++
	}
	return done, nil
}

// ReconcileAvailability is the scheduled entry point.
func (r *Reconciler) ReconcileAvailability() {
	runWithRecovery("ReconcileAvailability", func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		span := r.Horizon()
		done, err := r.ReconcileAll(ctx)
		if err != nil {
			logger.Error("Availability reconcile aborted", "rebuilt", done, "error", err)
			return
		}
		logger.Info("Availability reconciled",
			"products", done, "from", daterange.Key(span.Start), "to", daterange.Key(span.End))
	})
}

// runWithRecovery wraps job execution with panic recovery
func runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}
