package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// referencePrefix starts every booking reference number.
const referencePrefix = "BK"

// newReference builds a human-readable booking reference: the prefix, the last
// eight digits of the Unix millisecond clock and four random characters.
// Uniqueness is probabilistic; the bookings table enforces it and Create
// retries with a fresh reference on a collision.
func newReference(now time.Time) string {
	ms := fmt.Sprintf("%08d", now.UnixMilli()%100_000_000)
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return referencePrefix + ms + suffix
}
