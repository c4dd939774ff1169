package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/hotel-booking/internal/auth"
	"github.com/pkordes/hotel-booking/internal/domain"
	"github.com/pkordes/hotel-booking/internal/handler"
	"github.com/pkordes/hotel-booking/internal/middleware"
	"github.com/pkordes/hotel-booking/internal/service"
)

// mockRoomServicer is a test double for handler.RoomServicer.
// Set only the method fields your test needs.
type mockRoomServicer struct {
	create            func(ctx context.Context, room domain.Room) (domain.Room, error)
	update            func(ctx context.Context, room domain.Room) (domain.Room, error)
	get               func(ctx context.Context, id int64) (domain.Room, error)
	list              func(ctx context.Context) ([]domain.Room, error)
	delete            func(ctx context.Context, id int64) error
	setAvailability   func(ctx context.Context, id int64, available bool) (domain.Room, error)
	search            func(ctx context.Context, q domain.RoomSearch) ([]domain.Room, error)
	checkAvailability func(ctx context.Context, roomID int64, rng domain.DateRange) (domain.Availability, error)
	blockDates        func(ctx context.Context, roomID int64, rng domain.DateRange) error
	unblockDates      func(ctx context.Context, roomID int64, rng domain.DateRange) (int, error)
}

func (m *mockRoomServicer) Create(ctx context.Context, room domain.Room) (domain.Room, error) {
	return m.create(ctx, room)
}
func (m *mockRoomServicer) Update(ctx context.Context, room domain.Room) (domain.Room, error) {
	return m.update(ctx, room)
}
func (m *mockRoomServicer) Get(ctx context.Context, id int64) (domain.Room, error) {
	return m.get(ctx, id)
}
func (m *mockRoomServicer) List(ctx context.Context) ([]domain.Room, error) {
	return m.list(ctx)
}
func (m *mockRoomServicer) Delete(ctx context.Context, id int64) error {
	return m.delete(ctx, id)
}
func (m *mockRoomServicer) SetAvailability(ctx context.Context, id int64, available bool) (domain.Room, error) {
	return m.setAvailability(ctx, id, available)
}
func (m *mockRoomServicer) Search(ctx context.Context, q domain.RoomSearch) ([]domain.Room, error) {
	return m.search(ctx, q)
}
func (m *mockRoomServicer) CheckAvailability(ctx context.Context, roomID int64, rng domain.DateRange) (domain.Availability, error) {
	return m.checkAvailability(ctx, roomID, rng)
}
func (m *mockRoomServicer) BlockDates(ctx context.Context, roomID int64, rng domain.DateRange) error {
	return m.blockDates(ctx, roomID, rng)
}
func (m *mockRoomServicer) UnblockDates(ctx context.Context, roomID int64, rng domain.DateRange) (int, error) {
	return m.unblockDates(ctx, roomID, rng)
}

// mockBookingServicer is a test double for handler.BookingServicer.
type mockBookingServicer struct {
	create         func(ctx context.Context, req domain.BookingRequest) (domain.Booking, error)
	confirmPayment func(ctx context.Context, bookingID, amountCents int64, method string) (domain.Booking, domain.Payment, error)
	cancel         func(ctx context.Context, bookingID int64) (domain.Booking, error)
	setStatus      func(ctx context.Context, bookingID int64, status domain.BookingStatus) (domain.Booking, error)
	getByID        func(ctx context.Context, id int64) (domain.Booking, error)
	getByReference func(ctx context.Context, reference string) (domain.Booking, error)
	listByUser     func(ctx context.Context, userID int64) ([]domain.Booking, error)
	listAll        func(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, int64, error)
	listPayments   func(ctx context.Context, bookingID int64) ([]domain.Payment, error)
}

func (m *mockBookingServicer) Create(ctx context.Context, req domain.BookingRequest) (domain.Booking, error) {
	return m.create(ctx, req)
}
func (m *mockBookingServicer) ConfirmPayment(ctx context.Context, bookingID, amountCents int64, method string) (domain.Booking, domain.Payment, error) {
	return m.confirmPayment(ctx, bookingID, amountCents, method)
}
func (m *mockBookingServicer) Cancel(ctx context.Context, bookingID int64) (domain.Booking, error) {
	return m.cancel(ctx, bookingID)
}
func (m *mockBookingServicer) SetStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) (domain.Booking, error) {
	return m.setStatus(ctx, bookingID, status)
}
func (m *mockBookingServicer) GetByID(ctx context.Context, id int64) (domain.Booking, error) {
	return m.getByID(ctx, id)
}
func (m *mockBookingServicer) GetByReference(ctx context.Context, reference string) (domain.Booking, error) {
	return m.getByReference(ctx, reference)
}
func (m *mockBookingServicer) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return m.listByUser(ctx, userID)
}
func (m *mockBookingServicer) ListAll(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	return m.listAll(ctx, p)
}
func (m *mockBookingServicer) ListPayments(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	return m.listPayments(ctx, bookingID)
}

// mockAuthServicer is a test double for handler.AuthServicer.
type mockAuthServicer struct {
	register func(ctx context.Context, u domain.User, password string) (service.Session, error)
	login    func(ctx context.Context, username, password string) (service.Session, error)
	me       func(ctx context.Context, p *domain.Principal) (domain.User, error)
}

func (m *mockAuthServicer) Register(ctx context.Context, u domain.User, password string) (service.Session, error) {
	return m.register(ctx, u, password)
}
func (m *mockAuthServicer) Login(ctx context.Context, username, password string) (service.Session, error) {
	return m.login(ctx, username, password)
}
func (m *mockAuthServicer) Me(ctx context.Context, p *domain.Principal) (domain.User, error) {
	return m.me(ctx, p)
}

// mockExportServicer is a test double for handler.ExportServicer.
type mockExportServicer struct {
	export func(ctx context.Context) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context) ([]domain.ExportRow, error) {
	return m.export(ctx)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.RoomServicer    = (*mockRoomServicer)(nil)
	_ handler.BookingServicer = (*mockBookingServicer)(nil)
	_ handler.AuthServicer    = (*mockAuthServicer)(nil)
	_ handler.ExportServicer  = (*mockExportServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

const testSecret = "handler-test-secret"

// testAPI bundles the mocks and the router wired the way main.go wires it.
type testAPI struct {
	rooms    *mockRoomServicer
	bookings *mockBookingServicer
	accounts *mockAuthServicer
	exports  *mockExportServicer
	issuer   *auth.Issuer
	handler  http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	issuer, err := auth.NewIssuer(testSecret, time.Hour)
	require.NoError(t, err)

	api := &testAPI{
		rooms:    &mockRoomServicer{},
		bookings: &mockBookingServicer{},
		accounts: &mockAuthServicer{},
		exports:  &mockExportServicer{},
		issuer:   issuer,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := handler.NewServer(api.rooms, api.bookings, api.accounts, api.exports, logger)
	api.handler = handler.NewRouter(srv, middleware.NewAuthenticator(issuer))
	return api
}

// token issues a bearer token for a user with the given id and role.
func (a *testAPI) token(t *testing.T, userID int64, admin bool) string {
	t.Helper()
	tok, _, err := a.issuer.Issue(domain.User{ID: userID, Username: "user", IsAdmin: admin})
	require.NoError(t, err)
	return tok
}

// do sends a request through the router. token may be empty for anonymous calls.
func (a *testAPI) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		r = jsonBody(t, body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[handler.ErrorResponse](t, rec).Error.Code
}

func day(s string) time.Time {
	d, err := domain.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func ptr[T any](v T) *T { return &v }

func roomFixture() domain.Room {
	return domain.Room{
		ID:          1,
		Name:        "Ocean View",
		Description: "Top floor",
		Type:        domain.RoomTypeDeluxe,
		PriceCents:  10000,
		Capacity:    2,
		Amenities:   []string{"wifi"},
		IsAvailable: true,
	}
}

func bookingFixture(userID *int64) domain.Booking {
	return domain.Booking{
		ID:              42,
		RoomID:          1,
		UserID:          userID,
		CheckIn:         day("2030-06-01"),
		CheckOut:        day("2030-06-03"),
		GuestCount:      2,
		GuestName:       "Ada Lovelace",
		GuestEmail:      "ada@example.com",
		GuestPhone:      "555-0100",
		Status:          domain.BookingPending,
		TotalCents:      28560,
		ReferenceNumber: "BK12345678ABCD",
		CreatedAt:       time.Now().UTC(),
	}
}
