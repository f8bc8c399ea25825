package sim

import "starops-sim/internal/battlelog"

// ActionWriter is an interface to support different sinks for dispatched
// action rows.
type ActionWriter interface {
	WriteAction(battlelog.ActionRow) error
}

// MessageWriter handles HUD/chat message rows.
type MessageWriter interface {
	WriteMessage(battlelog.MessageRow) error
}

// HudWriter handles HUD section toggle rows.
type HudWriter interface {
	WriteHud(battlelog.HudRow) error
}

// StateWriter handles mission state rows.
type StateWriter interface {
	WriteState(battlelog.StateRow) error
}

// Optional: action writers may support batch mode.
type batchActionWriter interface {
	WriteActions([]battlelog.ActionRow) error
}

// Optional: message writers may support batch mode.
type batchMessageWriter interface {
	WriteMessages([]battlelog.MessageRow) error
}

func writeActions(w ActionWriter, rows []battlelog.ActionRow) error {
	if w == nil || len(rows) == 0 {
		return nil
	}
	if bw, ok := w.(batchActionWriter); ok {
		return bw.WriteActions(rows)
	}
	for _, r := range rows {
		if err := w.WriteAction(r); err != nil {
			return err
		}
	}
	return nil
}

func writeMessages(w MessageWriter, rows []battlelog.MessageRow) error {
	if w == nil || len(rows) == 0 {
		return nil
	}
	if bw, ok := w.(batchMessageWriter); ok {
		return bw.WriteMessages(rows)
	}
	for _, r := range rows {
		if err := w.WriteMessage(r); err != nil {
			return err
		}
	}
	return nil
}
