// Package events defines the domain events of the geolocation service and the
// transports that carry them beyond the process.
package events

import (
	"geolocation_backend/platform/config"
	platformevents "geolocation_backend/platform/events"
	"geolocation_backend/platform/logger"
)

// Aliases keep modules on a single events import.
type (
	Event       = platformevents.Event
	Bus         = platformevents.Bus
	Handler     = platformevents.Handler
	HandlerFunc = platformevents.HandlerFunc
	BaseEvent   = platformevents.BaseEvent
	InMemoryBus = platformevents.InMemoryBus
)

var NewBaseEvent = platformevents.NewBaseEvent

func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}

// AttachKafka mirrors history and map events onto the configured topic. The
// returned function flushes the writer and is a no-op when Kafka is off.
func AttachKafka(bus Bus, cfg config.KafkaConfig, log *logger.Logger) func() {
	if !cfg.IsKafkaEnabled() {
		return func() {}
	}

	forwarder := NewKafkaForwarder(NewKafkaWriter(cfg), log)
	forwarder.RegisterHandlers(bus)
	log.Info("kafka event forwarding enabled", "broker", cfg.GetKafkaBroker(), "topic", cfg.GetKafkaTopic())

	return func() {
		if err := forwarder.Close(); err != nil {
			log.Warn("kafka writer close failed", "error", err)
		}
	}
}
