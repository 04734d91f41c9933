package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
	"github.com/m04kA/SMC-EmbedBooking/pkg/types"
)

const (
	keyPrefix = "slots"
	genPrefix = "slots:gen"
	scanCount = 100
)

// setIfGeneration пишет слоты, только если поколение тенанта не менялось
// с момента чтения. KEYS: gen, slots. ARGV: generation, value, ttl ms.
var setIfGeneration = redis.NewScript(`
local gen = redis.call('GET', KEYS[1])
if not gen then gen = '0' end
if gen ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

var (
	// ErrCache возвращается при ошибках Redis
	ErrCache = errors.New("cache: redis error")

	// ErrDecode возвращается, если в кэше лежит повреждённое значение
	ErrDecode = errors.New("cache: decode error")
)

type cachedSlot struct {
	Start    types.TimeString `json:"start"`
	End      types.TimeString `json:"end"`
	StartsAt time.Time        `json:"startsAt"`
	EndsAt   time.Time        `json:"endsAt"`
	IsBooked bool             `json:"isBooked"`
}

// SlotCache кэш рассчитанных слотов на tenant+date.
// Запись живёт ttl и явно сбрасывается при коммите или отмене бронирования
// и при изменении правил или настроек тенанта.
//
// Каждый сброс увеличивает поколение тенанта. Читатель запоминает поколение
// до похода в БД и передаёт его в Set: если между чтением и записью был сброс,
// устаревший расчёт в кэш не попадает.
type SlotCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSlotCache(rdb *redis.Client, ttl time.Duration) *SlotCache {
	return &SlotCache{rdb: rdb, ttl: ttl}
}

// Get возвращает (nil, false, nil) при промахе
func (c *SlotCache) Get(ctx context.Context, tenantID uuid.UUID, date string) ([]domain.TimeSlot, bool, error) {
	raw, err := c.rdb.Get(ctx, key(tenantID, date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: Get: %v", ErrCache, err)
	}

	var cached []cachedSlot
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, false, fmt.Errorf("%w: Get: %v", ErrDecode, err)
	}

	slots := make([]domain.TimeSlot, 0, len(cached))
	for _, s := range cached {
		slots = append(slots, domain.TimeSlot{
			Start:    s.Start,
			End:      s.End,
			StartsAt: s.StartsAt,
			EndsAt:   s.EndsAt,
			IsBooked: s.IsBooked,
		})
	}
	return slots, true, nil
}

// Generation текущее поколение кэша тенанта, 0 если сбросов ещё не было
func (c *SlotCache) Generation(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	gen, err := c.rdb.Get(ctx, genKey(tenantID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: Generation: %v", ErrCache, err)
	}
	return gen, nil
}

// Set сохраняет слоты, если поколение тенанта всё ещё равно generation.
// Возвращает false, если запись отброшена как устаревшая.
func (c *SlotCache) Set(ctx context.Context, tenantID uuid.UUID, date string, generation int64, slots []domain.TimeSlot) (bool, error) {
	cached := make([]cachedSlot, 0, len(slots))
	for _, s := range slots {
		cached = append(cached, cachedSlot{
			Start:    s.Start,
			End:      s.End,
			StartsAt: s.StartsAt,
			EndsAt:   s.EndsAt,
			IsBooked: s.IsBooked,
		})
	}

	raw, err := json.Marshal(cached)
	if err != nil {
		return false, fmt.Errorf("%w: Set: %v", ErrDecode, err)
	}

	stored, err := setIfGeneration.Run(ctx, c.rdb,
		[]string{genKey(tenantID), key(tenantID, date)},
		generation, raw, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("%w: Set: %v", ErrCache, err)
	}
	return stored == 1, nil
}

// Invalidate сбрасывает слоты одной даты
func (c *SlotCache) Invalidate(ctx context.Context, tenantID uuid.UUID, date string) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey(tenantID))
		pipe.Del(ctx, key(tenantID, date))
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: Invalidate: %v", ErrCache, err)
	}
	return nil
}

// InvalidateTenant сбрасывает все даты тенанта (изменились правила или настройки)
func (c *SlotCache) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	// поколение растёт до удаления, чтобы параллельный расчёт не вернул старое значение
	if err := c.rdb.Incr(ctx, genKey(tenantID)).Err(); err != nil {
		return fmt.Errorf("%w: InvalidateTenant - incr: %v", ErrCache, err)
	}

	pattern := fmt.Sprintf("%s:%s:*", keyPrefix, tenantID)

	iter := c.rdb.Scan(ctx, 0, pattern, scanCount).Iterator()
	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%w: InvalidateTenant - scan: %v", ErrCache, err)
	}
	if len(keys) == 0 {
		return nil
	}

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: InvalidateTenant - del: %v", ErrCache, err)
	}
	return nil
}

func key(tenantID uuid.UUID, date string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, tenantID, date)
}

func genKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", genPrefix, tenantID)
}

// Nop кэш, который ничего не хранит (Redis не настроен или ttl = 0)
type Nop struct{}

func (Nop) Get(context.Context, uuid.UUID, string) ([]domain.TimeSlot, bool, error) {
	return nil, false, nil
}

func (Nop) Generation(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}

func (Nop) Set(context.Context, uuid.UUID, string, int64, []domain.TimeSlot) (bool, error) {
	return false, nil
}

func (Nop) Invalidate(context.Context, uuid.UUID, string) error {
	return nil
}

func (Nop) InvalidateTenant(context.Context, uuid.UUID) error {
	return nil
}
