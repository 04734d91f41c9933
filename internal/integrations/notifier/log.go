package notifier

import "context"

// LogPublisher только пишет уведомление в лог (локальная разработка)
type LogPublisher struct {
	logger Logger
}

func NewLogPublisher(logger Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, n Notification) error {
	p.logger.Info("Notifier: %s via %s to %s, booking=%s, date=%s %s",
		n.Event, n.Channel, n.Recipient, n.BookingID, n.Payload.Date, n.Payload.StartTime)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
