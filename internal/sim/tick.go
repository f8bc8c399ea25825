package sim

import (
	"context"
	"log/slog"
	"time"

	"starops-sim/internal/logging"
)

// Run starts the battle loop and stops when the context is done. The
// mission engine keeps evaluating after a terminal outcome (mission_state
// conditions may still fire follow-up events); the caller decides when the
// battle ends.
func (s *Simulator) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting battle", "mission", s.def.Name, "tick_interval", s.tickInterval)
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Step()
		case <-ctx.Done():
			log.Info("stopping battle", "state", s.MissionState())
			return
		}
	}
}

func logFlushError(err error) {
	slog.Default().Error("battle log write failed", "err", err)
}
