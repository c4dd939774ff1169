package service

import (
	"context"
	"fmt"

	"github.com/pkordes/hotel-booking/internal/domain"
	"github.com/pkordes/hotel-booking/internal/repo"
)

// exportPageSize is how many bookings Export reads per query.
const exportPageSize = domain.MaxPageLimit

// ExportService assembles a flat export of every booking for admins.
type ExportService struct {
	store repo.Store
}

// NewExportService constructs an ExportService backed by the provided store.
func NewExportService(store repo.Store) *ExportService {
	return &ExportService{store: store}
}

// Export returns one ExportRow per booking, newest first.
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	r := s.store.Repos()

	rooms, err := r.Rooms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	roomNames := make(map[int64]string, len(rooms))
	for _, room := range rooms {
		roomNames[room.ID] = room.Name
	}

	rows := []domain.ExportRow{}
	for page := 1; ; page++ {
		bookings, total, err := r.Bookings.ListPaged(ctx, domain.PaginationParams{Page: page, Limit: exportPageSize})
		if err != nil {
			return nil, fmt.Errorf("service.ExportService.Export: %w", err)
		}
		for _, b := range bookings {
			payments, err := r.Payments.ListByBooking(ctx, b.ID)
			if err != nil {
				return nil, fmt.Errorf("service.ExportService.Export: booking %d: %w", b.ID, err)
			}
			rows = append(rows, toExportRow(b, roomNames[b.RoomID], payments))
		}
		if len(bookings) < exportPageSize || int64(page*exportPageSize) >= total {
			break
		}
	}
	return rows, nil
}

func toExportRow(b domain.Booking, roomName string, payments []domain.Payment) domain.ExportRow {
	var paid int64
	for _, p := range payments {
		if p.Status == domain.PaymentCompleted {
			paid += p.AmountCents
		}
	}
	return domain.ExportRow{
		ReferenceNumber: b.ReferenceNumber,
		Status:          b.Status,
		RoomID:          b.RoomID,
		RoomName:        roomName,
		CheckIn:         b.CheckIn.Format(domain.DateLayout),
		CheckOut:        b.CheckOut.Format(domain.DateLayout),
		Nights:          b.Stay().Nights(),
		GuestCount:      b.GuestCount,
		GuestName:       b.GuestName,
		GuestEmail:      b.GuestEmail,
		TotalCents:      b.TotalCents,
		PaidCents:       paid,
		CreatedAt:       b.CreatedAt,
	}
}
