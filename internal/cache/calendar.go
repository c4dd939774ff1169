// Package cache provides a read-through cache for room calendar projections.
//
// Entries are keyed by a per-room generation counter. Invalidate bumps the
// counter, which orphans every cached range for the room at once; orphans
// expire on their TTL. A reader captures the generation before it reads the
// ledger, so a result computed from pre-write data is always filed under a
// generation that a committed write has already retired.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pkordes/hotel-booking/internal/domain"
)

// Stamp identifies the cache slot a calendar read belongs to.
// Get returns it; pass it unchanged to Set.
type Stamp struct {
	RoomID int64
	Range  domain.DateRange
	Gen    int64
}

// Calendar caches the stored ledger entries of a room over a range.
// Failures are never returned: a broken cache degrades to a miss.
type Calendar interface {
	Get(ctx context.Context, roomID int64, rng domain.DateRange) ([]domain.CalendarDate, Stamp, bool)
	Set(ctx context.Context, stamp Stamp, days []domain.CalendarDate)
	Invalidate(ctx context.Context, roomID int64)
}

// Nop is a Calendar that never hits. It is used when REDIS_ADDR is empty.
type Nop struct{}

var _ Calendar = Nop{}

func (Nop) Get(_ context.Context, roomID int64, rng domain.DateRange) ([]domain.CalendarDate, Stamp, bool) {
	return nil, Stamp{RoomID: roomID, Range: rng}, false
}

func (Nop) Set(context.Context, Stamp, []domain.CalendarDate) {}

func (Nop) Invalidate(context.Context, int64) {}

// RedisCalendar is a Calendar stored in Redis.
type RedisCalendar struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
	prefix string
}

var _ Calendar = (*RedisCalendar)(nil)

// NewRedisCalendar returns a Calendar backed by client. Entries live for ttl.
func NewRedisCalendar(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCalendar {
	return &RedisCalendar{client: client, ttl: ttl, logger: logger, prefix: "hotel:calendar"}
}

// cachedDay is the JSON form of one ledger entry.
type cachedDay struct {
	Day       string `json:"day"`
	Available bool   `json:"available"`
	BookingID *int64 `json:"booking_id,omitempty"`
}

func (c *RedisCalendar) genKey(roomID int64) string {
	return fmt.Sprintf("%s:%d:gen", c.prefix, roomID)
}

func (c *RedisCalendar) entryKey(s Stamp) string {
	return fmt.Sprintf("%s:%d:%d:%s", c.prefix, s.RoomID, s.Gen, s.Range)
}

func (c *RedisCalendar) Get(ctx context.Context, roomID int64, rng domain.DateRange) ([]domain.CalendarDate, Stamp, bool) {
	stamp := Stamp{RoomID: roomID, Range: rng}

	gen, err := c.client.Get(ctx, c.genKey(roomID)).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		// No write has happened yet; generation 0.
	case err != nil:
		c.logger.WarnContext(ctx, "calendar cache: read generation", "room_id", roomID, "error", err)
		// Gen -1 is never written to, so Set becomes a no-op for this read.
		stamp.Gen = -1
		return nil, stamp, false
	default:
		stamp.Gen = gen
	}

	raw, err := c.client.Get(ctx, c.entryKey(stamp)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "calendar cache: read entry", "room_id", roomID, "error", err)
		}
		return nil, stamp, false
	}

	var cached []cachedDay
	if err := json.Unmarshal(raw, &cached); err != nil {
		c.logger.WarnContext(ctx, "calendar cache: decode entry", "room_id", roomID, "error", err)
		return nil, stamp, false
	}

	days := make([]domain.CalendarDate, 0, len(cached))
	for _, cd := range cached {
		d, err := domain.ParseDay(cd.Day)
		if err != nil {
			return nil, stamp, false
		}
		days = append(days, domain.CalendarDate{
			RoomID: roomID, Day: d, IsAvailable: cd.Available, BookingID: cd.BookingID,
		})
	}
	return days, stamp, true
}

func (c *RedisCalendar) Set(ctx context.Context, stamp Stamp, days []domain.CalendarDate) {
	if stamp.Gen < 0 {
		return
	}
	cached := make([]cachedDay, 0, len(days))
	for _, d := range days {
		cached = append(cached, cachedDay{
			Day: d.Day.Format(domain.DateLayout), Available: d.IsAvailable, BookingID: d.BookingID,
		})
	}
	raw, err := json.Marshal(cached)
	if err != nil {
		c.logger.WarnContext(ctx, "calendar cache: encode entry", "room_id", stamp.RoomID, "error", err)
		return
	}
	if err := c.client.Set(ctx, c.entryKey(stamp), raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "calendar cache: write entry", "room_id", stamp.RoomID, "error", err)
	}
}

// Invalidate must be called after the ledger write has committed.
func (c *RedisCalendar) Invalidate(ctx context.Context, roomID int64) {
	if err := c.client.Incr(ctx, c.genKey(roomID)).Err(); err != nil {
		c.logger.ErrorContext(ctx, "calendar cache: bump generation", "room_id", roomID, "error", err)
	}
}
