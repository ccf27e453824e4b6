// internal/hearts/history.go
package hearts

import (
	"context"
	"time"

	"github.com/coderforlife/boompa-hearts/internal/cache"
)

// logAction publishes an audit record for a state-mutating action to the
// Redis queue drained by the historian. Disabled when no Redis is connected.
// Records carry increasing per-game indices in invocation order. Lock held.
func (g *Game) logAction(seat int, action string, payload map[string]interface{}) {
	g.actionIndex++
	if !cache.Enabled() {
		return
	}
	record := cache.ActionRecord{
		GameName:    g.Name,
		ActionIndex: g.actionIndex,
		Seat:        seat,
		HandNum:     g.handNum,
		Action:      action,
		Payload:     payload,
		Timestamp:   time.Now().UnixMilli(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := cache.PublishAction(ctx, record); err != nil {
			g.log.Warnf("failed to publish action record: %v", err)
		}
	}()
}
