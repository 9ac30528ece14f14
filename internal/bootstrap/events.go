package bootstrap

import (
	"bat-monitor-be/internal/pkg/logger"
	"bat-monitor-be/pkg/events"
	pktNats "bat-monitor-be/pkg/nats"
)

// NewPublisher connects to NATS when a URL is configured. Without one, or
// when the connection fails, events are dropped; the close func is always
// safe to call.
func NewPublisher(natsURL string, log logger.ILogger) (events.Publisher, func()) {
	if natsURL == "" {
		log.Info("BOOTSTRAP", "NATS_URL not set, classification events disabled", nil)
		return events.Nop{}, func() {}
	}

	pub, err := pktNats.NewPublisher(natsURL, log)
	if err != nil {
		log.Warn("BOOTSTRAP", "Failed to connect to NATS Publisher", map[string]interface{}{
			"error": err.Error(),
		})
		return events.Nop{}, func() {}
	}
	return pub, pub.Close
}
