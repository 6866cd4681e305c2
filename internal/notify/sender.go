package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Offer is handed to the external push pipeline when a cancelled slot is
// offered to a waitlisted customer.
type Offer struct {
	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	BarberName string
	Date       string
	Time       string

	Token     string
	ExpiresAt time.Time
}

// Sender is the external push-delivery collaborator. Transport, templating
// and retries all live on the other side of this interface.
type Sender interface {
	SendOffer(ctx context.Context, offer Offer) error
}

// LogSender is the stand-in used until a real push integration is wired.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendOffer(_ context.Context, offer Offer) error {
	s.log.Info("waitlist offer dispatched",
		zap.String("customer_phone", offer.CustomerPhone),
		zap.String("barber", offer.BarberName),
		zap.String("date", offer.Date),
		zap.String("time", offer.Time),
		zap.Time("expires_at", offer.ExpiresAt),
	)
	return nil
}

var _ Sender = (*LogSender)(nil)
