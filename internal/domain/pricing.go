package domain

// Flat fees and tax applied to every stay, in cents.
const (
	CleaningFeeCents int64 = 3000
	ServiceFeeCents  int64 = 2500
	TaxRatePercent   int64 = 12
)

// Quote is the price breakdown for a stay.
type Quote struct {
	RoomCents     int64
	CleaningCents int64
	ServiceCents  int64
	TaxCents      int64
	TotalCents    int64
}

// QuoteStay prices nights at priceCents per night plus the flat fees, with tax
// charged on the sum and rounded half up to the cent.
func QuoteStay(priceCents int64, nights int) Quote {
	q := Quote{
		RoomCents:     priceCents * int64(nights),
		CleaningCents: CleaningFeeCents,
		ServiceCents:  ServiceFeeCents,
	}
	subtotal := q.RoomCents + q.CleaningCents + q.ServiceCents
	q.TaxCents = (subtotal*TaxRatePercent + 50) / 100
	q.TotalCents = subtotal + q.TaxCents
	return q
}
