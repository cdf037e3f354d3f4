package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nekogravitycat/noq-backend/internal/availability"
	"github.com/nekogravitycat/noq-backend/internal/client"
	"github.com/nekogravitycat/noq-backend/internal/db"
	"github.com/nekogravitycat/noq-backend/internal/logger"
	"github.com/nekogravitycat/noq-backend/internal/pkg/clock"
	"github.com/nekogravitycat/noq-backend/internal/pkg/daterange"
	"github.com/nekogravitycat/noq-backend/internal/product"
)

type CreateRequest struct {
	ProductID string
	ClientID  string
	StartDate time.Time
	EndDate   time.Time
	// Status defaults to pending.
	Status    Status
	CreatedBy string
}

// Transactor runs fn as one unit of work. db.TxManager implements it.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ProductStore is the product access the engine needs.
type ProductStore interface {
	GetByID(ctx context.Context, id string) (*product.Product, error)
	Lock(ctx context.Context, id string) (*product.Product, error)
}

// ClientReader loads the client a booking is for.
type ClientReader interface {
	GetByID(ctx context.Context, id string) (*client.Client, error)
}

// Projector writes the availability projection.
type Projector interface {
	Project(ctx context.Context, productID string, totalPlaces int, counts availability.DateCounts) error
	LatestDate(ctx context.Context, productID string) (time.Time, bool, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Booking, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	// CountPerDate counts capacity-counting bookings of a product on every date of span.
	CountPerDate(ctx context.Context, productID string, span daterange.Range, excludeID string) (availability.DateCounts, error)
	// RecomputeAvailability rebuilds the projection of a product over span from its bookings.
	RecomputeAvailability(ctx context.Context, productID string, span daterange.Range) error
	// RebuildAvailability recomputes from horizon.Start to the later of horizon.End, the last booking end
	// and the last stored projection row, so no row of the product keeps a stale total.
	RebuildAvailability(ctx context.Context, productID string, horizon daterange.Range) error
}

type service struct {
	tx        Transactor
	repo      Repository
	products  ProductStore
	clients   ClientReader
	projector Projector
	clock     clock.Clock
}

func NewService(tx Transactor, repo Repository, products ProductStore, clients ClientReader, projector Projector, clk clock.Clock) Service {
	return &service{
		tx:        tx,
		repo:      repo,
		products:  products,
		clients:   clients,
		projector: projector,
		clock:     clk,
	}
}

// Create admits a new booking. Inside one transaction it locks the product, validates the
// candidate, inserts the booking and projects availability over its span.
func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	if req.Status == "" {
		req.Status = StatusPending
	}
	if !req.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	b := &Booking{
		ProductID: req.ProductID,
		ClientID:  req.ClientID,
		StartDate: daterange.Day(req.StartDate),
		EndDate:   daterange.Day(req.EndDate),
		Status:    req.Status,
	}
	if req.CreatedBy != "" {
		createdBy := req.CreatedBy
		b.CreatedBy = &createdBy
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.products.Lock(ctx, b.ProductID)
		if err != nil {
			return err
		}

		view, cl, err := s.loadView(ctx, p, b.ClientID, b.StartDate, b.EndDate, b.Status)
		if err != nil {
			return err
		}
		candidate := Candidate{StartDate: b.StartDate, EndDate: b.EndDate, Status: b.Status}
		if err := Validate(candidate, view, clock.Today(s.clock)); err != nil {
			return err
		}

		if b.Status != StatusPending && b.Status.CountsTowardCapacity() {
			logger.WarnContext(ctx, "booking created in a committed status without capacity check",
				"product_id", b.ProductID, "client_id", b.ClientID, "status", b.Status,
				"start_date", daterange.Key(b.StartDate), "end_date", daterange.Key(b.EndDate))
		}

		if err := s.repo.Create(ctx, b); err != nil {
			return err
		}
		b.HostID = p.HostID
		b.ProductName = p.Name
		b.ClientName = cl.FullName()

		return s.project(ctx, p, daterange.Range{Start: b.StartDate, End: b.EndDate})
	})
	if err != nil {
		return nil, translateTxError(err)
	}

	logger.InfoContext(ctx, "booking created",
		"booking_id", b.ID, "product_id", b.ProductID, "status", b.Status)
	return b, nil
}

// UpdateStatus moves a booking to another status. The full admission check runs again with the
// booking excluded from its own counts; capacity is only checked when the target is pending.
func (s *service) UpdateStatus(ctx context.Context, id string, status Status) (*Booking, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	var updated *Booking
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if b.Status == status {
			updated = b
			return nil
		}

		p, err := s.products.Lock(ctx, b.ProductID)
		if err != nil {
			return err
		}

		view, _, err := s.loadView(ctx, p, b.ClientID, b.StartDate, b.EndDate, status)
		if err != nil {
			return err
		}
		candidate := Candidate{ID: b.ID, StartDate: b.StartDate, EndDate: b.EndDate, Status: status}
		if err := Validate(candidate, view, clock.Today(s.clock)); err != nil {
			return err
		}

		previous := b.Status
		b.Status = status
		if err := s.repo.UpdateStatus(ctx, b); err != nil {
			return err
		}
		if err := s.project(ctx, p, daterange.Range{Start: b.StartDate, End: b.EndDate}); err != nil {
			return err
		}

		logger.InfoContext(ctx, "booking status changed",
			"booking_id", b.ID, "from", previous, "to", status)
		updated = b
		return nil
	})
	if err != nil {
		return nil, translateTxError(err)
	}
	return updated, nil
}

// Delete removes a booking and recomputes availability over the span it used to cover.
func (s *service) Delete(ctx context.Context, id string) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		// Captured before the row is gone.
		productID := b.ProductID
		span := daterange.Range{Start: b.StartDate, End: b.EndDate}

		p, err := s.products.Lock(ctx, productID)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		return s.project(ctx, p, span)
	})
	if err != nil {
		return translateTxError(err)
	}

	logger.InfoContext(ctx, "booking deleted", "booking_id", id)
	return nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) CountPerDate(ctx context.Context, productID string, span daterange.Range, excludeID string) (availability.DateCounts, error) {
	if err := span.Validate(); err != nil {
		return nil, ErrEndBeforeStart
	}
	if span.Days() > availability.MaxRangeDays {
		return nil, availability.ErrRangeTooLong
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	stays, err := s.repo.ListCountingStays(ctx, productID, span)
	if err != nil {
		return nil, err
	}
	return availability.CountPerDate(span, stays, excludeID), nil
}

func (s *service) RecomputeAvailability(ctx context.Context, productID string, span daterange.Range) error {
	if err := span.Validate(); err != nil {
		return ErrEndBeforeStart
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.products.Lock(ctx, productID)
		if err != nil {
			return err
		}
		return s.project(ctx, p, span)
	})
	return translateTxError(err)
}

func (s *service) RebuildAvailability(ctx context.Context, productID string, horizon daterange.Range) error {
	if err := horizon.Validate(); err != nil {
		return ErrEndBeforeStart
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		end := horizon.End
		lastEnd, ok, err := s.repo.LatestEndDate(ctx, productID)
		if err != nil {
			return err
		}
		if ok && lastEnd.After(end) {
			end = lastEnd
		}
		lastRow, ok, err := s.projector.LatestDate(ctx, productID)
		if err != nil {
			return err
		}
		if ok && !lastRow.Before(end) {
			end = lastRow.AddDate(0, 0, 1)
		}

		span, err := daterange.New(horizon.Start, end)
		if err != nil {
			return ErrEndBeforeStart
		}
		// Joins this transaction.
		return s.RecomputeAvailability(ctx, productID, span)
	})
	return translateTxError(err)
}

// loadView gathers what the validator checks a candidate against, along with the client.
func (s *service) loadView(ctx context.Context, p *product.Product, clientID string, start, end time.Time, status Status) (StateView, *client.Client, error) {
	cl, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return StateView{}, nil, err
	}
	clientBookings, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return StateView{}, nil, err
	}

	view := StateView{
		MaxDays:        p.HostMaxDays,
		RequiredGender: p.RequiredGender(),
		ClientGender:   string(cl.Gender),
		TotalPlaces:    p.TotalPlaces,
		ClientBookings: clientBookings,
	}

	// Product stays are only consulted by the capacity check.
	if status == StatusPending && start.Before(end) {
		view.ProductStays, err = s.repo.ListCountingStays(ctx, p.ID, daterange.Range{Start: start, End: end})
		if err != nil {
			return StateView{}, nil, err
		}
	}
	return view, cl, nil
}

// project recounts span against the committed bookings and upserts the projection.
func (s *service) project(ctx context.Context, p *product.Product, span daterange.Range) error {
	stays, err := s.repo.ListCountingStays(ctx, p.ID, span)
	if err != nil {
		return err
	}
	counts := availability.CountPerDate(span, stays, "")
	return s.projector.Project(ctx, p.ID, p.TotalPlaces, counts)
}

// translateTxError maps exhausted serialization retries to a client-facing conflict.
func translateTxError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, db.ErrTxRetriesExhausted) {
		return fmt.Errorf("%w: %w", ErrConcurrencyConflict, err)
	}
	return err
}
