package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
)

const defaultTimeout = 5 * time.Second

// Dispatcher отправляет уведомления в фоне, не блокируя запрос.
// Ошибки доставки только логируются и считаются в метриках.
type Dispatcher struct {
	publisher Publisher
	logger    Logger
	metrics   Metrics
	timeout   time.Duration
	now       func() time.Time
	wg        sync.WaitGroup
}

func NewDispatcher(publisher Publisher, logger Logger, metrics Metrics, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Dispatcher{
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		timeout:   timeout,
		now:       time.Now,
	}
}

// Notify ставит в отправку уведомления о событии по бронированию на все контакты клиента.
// Контекст запроса используется только для trace-значений: отмена запроса отправку не прерывает.
func (d *Dispatcher) Notify(ctx context.Context, event Event, booking *domain.Booking) {
	notifications := Build(event, booking, d.now())
	if len(notifications) == 0 {
		d.logger.Warn("Notifier: booking id=%s has no contact to notify", booking.ID)
		return
	}

	for _, n := range notifications {
		d.Dispatch(ctx, n)
	}
}

// Dispatch отправляет одно уведомление в отдельной горутине со своим таймаутом
func (d *Dispatcher) Dispatch(ctx context.Context, n Notification) {
	detached := context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		sendCtx, cancel := context.WithTimeout(detached, d.timeout)
		defer cancel()

		if err := d.publisher.Publish(sendCtx, n); err != nil {
			d.logger.Error("Notifier: failed to send %s via %s for booking id=%s: %v",
				n.Event, n.Channel, n.BookingID, err)
			d.metrics.IncNotification(string(n.Channel), "failed")
			return
		}
		d.metrics.IncNotification(string(n.Channel), "sent")
	}()
}

// Wait дожидается отправки всех уведомлений (graceful shutdown)
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
