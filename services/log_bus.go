package services

import "backend/models"

// LogBus publishes created log entries to interested listeners. Today the
// only listener is the realtime hub.
type LogBus struct {
	rt *RealtimeHub
}

func NewLogBus(rt *RealtimeHub) *LogBus {
	return &LogBus{rt: rt}
}

// Publish is safe to call on a nil bus or with no hub attached.
func (b *LogBus) Publish(entry *models.NutritionLog) {
	if b == nil || b.rt == nil {
		return
	}
	b.rt.Broadcast(map[string]any{
		"kind": "log.created",
		"log":  entry,
	})
}
