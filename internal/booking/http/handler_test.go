package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/noq-backend/internal/auth"
	"github.com/nekogravitycat/noq-backend/internal/availability"
	"github.com/nekogravitycat/noq-backend/internal/booking"
	"github.com/nekogravitycat/noq-backend/internal/host"
	"github.com/nekogravitycat/noq-backend/internal/pkg/daterange"
	"github.com/nekogravitycat/noq-backend/internal/product"
)

// stubBookings embeds the interface so only the methods under test need bodies.
type stubBookings struct {
	booking.Service
	stored    map[string]*booking.Booking
	createErr error
	created   *booking.CreateRequest
	deleted   []string
}

func (s *stubBookings) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	b, ok := s.stored[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return b, nil
}

func (s *stubBookings) Create(ctx context.Context, req booking.CreateRequest) (*booking.Booking, error) {
	s.created = &req
	if s.createErr != nil {
		return nil, s.createErr
	}
	createdBy := req.CreatedBy
	return &booking.Booking{
		ID:        uuid.NewString(),
		ProductID: req.ProductID,
		ClientID:  req.ClientID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    booking.StatusPending,
		CreatedBy: &createdBy,
	}, nil
}

func (s *stubBookings) UpdateStatus(ctx context.Context, id string, status booking.Status) (*booking.Booking, error) {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cp := *b
	cp.Status = status
	return &cp, nil
}

func (s *stubBookings) Delete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type stubHosts struct {
	host.Service
	members map[string]bool
}

func (s stubHosts) CanManage(ctx context.Context, hostID, userID, role string) (bool, error) {
	return role == "admin" || s.members[hostID+"/"+userID], nil
}

type stubProducts struct {
	product.Service
	products map[string]*product.Product
}

func (s stubProducts) GetByID(ctx context.Context, id string) (*product.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return p, nil
}

var (
	hostID    = uuid.NewString()
	productID = uuid.NewString()
	clientID  = uuid.NewString()
	memberID  = uuid.NewString()
	creatorID = uuid.NewString()
	otherID   = uuid.NewString()
)

func setupRouter(bookings *stubBookings) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// Identity comes from test headers instead of a signed token.
	identity := func(c *gin.Context) {
		auth.SetIdentity(c, c.GetHeader("X-User"), c.GetHeader("X-Role"))
		c.Next()
	}

	h := NewHandler(bookings,
		stubHosts{members: map[string]bool{hostID + "/" + memberID: true}},
		stubProducts{products: map[string]*product.Product{productID: {ID: productID, HostID: hostID}}},
	)
	active := func(c *gin.Context) { c.Next() }
	RegisterRoutes(r.Group("/v1"), h, identity, active)
	return r
}

func newStubBookings() (*stubBookings, string) {
	id := uuid.NewString()
	return &stubBookings{stored: map[string]*booking.Booking{
		id: {
			ID:        id,
			ProductID: productID,
			HostID:    hostID,
			ClientID:  clientID,
			StartDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC),
			Status:    booking.StatusPending,
			CreatedBy: &creatorID,
		},
	}}, id
}

func do(r *gin.Engine, method, path string, body any, userID, role string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User", userID)
	req.Header.Set("X-Role", role)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateBooking(t *testing.T) {
	bookings, _ := newStubBookings()
	r := setupRouter(bookings)

	w := do(r, http.MethodPost, "/v1/bookings", CreateBookingRequest{
		ProductID: productID, ClientID: clientID, StartDate: "2026-05-01", EndDate: "2026-05-04",
	}, otherID, "volunteer")

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2026-05-01", resp.StartDate)
	assert.Equal(t, "2026-05-04", resp.EndDate)
	assert.Equal(t, 3, resp.Nights)
	assert.Equal(t, "pending", resp.Status)
	require.NotNil(t, bookings.created)
	assert.Equal(t, otherID, bookings.created.CreatedBy)
}

func TestCreateBookingInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		body CreateBookingRequest
	}{
		{"bad date", CreateBookingRequest{ProductID: productID, ClientID: clientID, StartDate: "01/05/2026", EndDate: "2026-05-04"}},
		{"missing client", CreateBookingRequest{ProductID: productID, StartDate: "2026-05-01", EndDate: "2026-05-04"}},
		{"unknown status", CreateBookingRequest{ProductID: productID, ClientID: clientID, StartDate: "2026-05-01", EndDate: "2026-05-04", Status: "cancelled"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings, _ := newStubBookings()
			w := do(setupRouter(bookings), http.MethodPost, "/v1/bookings", tt.body, otherID, "volunteer")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Nil(t, bookings.created)
		})
	}
}

func TestCreateBookingCapacityError(t *testing.T) {
	bookings, _ := newStubBookings()
	span := daterange.Range{Start: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC)}
	counts := availability.CountPerDate(span, []availability.Stay{{ID: "x", Start: span.Start, End: span.End}}, "")
	bookings.createErr = booking.ErrCapacityExceeded.WithDetails(booking.CapacityDetails{
		Counts: counts, TotalPlaces: 1, FullDates: counts.FullDates(1),
	})

	w := do(setupRouter(bookings), http.MethodPost, "/v1/bookings", CreateBookingRequest{
		ProductID: productID, ClientID: clientID, StartDate: "2026-05-01", EndDate: "2026-05-03",
	}, otherID, "volunteer")

	require.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{
		"error": "no places left for the requested dates",
		"kind": "capacity_error",
		"details": {
			"counts": {"2026-05-01": 1, "2026-05-02": 1},
			"total_places": 1,
			"full_dates": ["2026-05-01", "2026-05-02"]
		}
	}`, w.Body.String())
	assert.Contains(t, w.Body.String(), `"counts":{"2026-05-01":1,"2026-05-02":1}`)
}

func TestCreateCommittedStatusRequiresPermission(t *testing.T) {
	body := CreateBookingRequest{
		ProductID: productID, ClientID: clientID, StartDate: "2026-05-01", EndDate: "2026-05-02", Status: "accepted",
	}

	bookings, _ := newStubBookings()
	w := do(setupRouter(bookings), http.MethodPost, "/v1/bookings", body, otherID, "volunteer")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Nil(t, bookings.created)

	bookings, _ = newStubBookings()
	w = do(setupRouter(bookings), http.MethodPost, "/v1/bookings", body, memberID, "host")
	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, bookings.created)
	assert.Equal(t, booking.StatusAccepted, bookings.created.Status)
}

func TestUpdateStatusPermissions(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		role   string
		want   int
	}{
		{"admin", otherID, "admin", http.StatusOK},
		{"caseworker", otherID, "caseworker", http.StatusOK},
		{"host member", memberID, "host", http.StatusOK},
		{"host staff elsewhere", otherID, "host", http.StatusForbidden},
		{"volunteer", otherID, "volunteer", http.StatusForbidden},
		{"creator cannot change status", creatorID, "volunteer", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings, id := newStubBookings()
			w := do(setupRouter(bookings), http.MethodPatch, "/v1/bookings/"+id+"/status",
				UpdateStatusRequest{Status: "accepted"}, tt.userID, tt.role)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestDeleteBooking(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		role   string
		want   int
	}{
		{"creator", creatorID, "volunteer", http.StatusNoContent},
		{"caseworker", otherID, "caseworker", http.StatusNoContent},
		{"stranger", otherID, "volunteer", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings, id := newStubBookings()
			w := do(setupRouter(bookings), http.MethodDelete, "/v1/bookings/"+id, nil, tt.userID, tt.role)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusNoContent {
				assert.Equal(t, []string{id}, bookings.deleted)
			} else {
				assert.Empty(t, bookings.deleted)
			}
		})
	}
}

func TestGetBooking(t *testing.T) {
	bookings, id := newStubBookings()
	r := setupRouter(bookings)

	w := do(r, http.MethodGet, "/v1/bookings/"+id, nil, otherID, "volunteer")
	require.Equal(t, http.StatusOK, w.Code)
	var resp BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, hostID, resp.Product.HostID)
	assert.Equal(t, 2, resp.Nights)

	w = do(r, http.MethodGet, "/v1/bookings/"+uuid.NewString(), nil, otherID, "volunteer")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"not_found"`)

	w = do(r, http.MethodGet, "/v1/bookings/not-a-uuid", nil, otherID, "volunteer")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
