package sim

import "starops-sim/internal/battlelog"

// MultiWriter fans battle log rows out to multiple writers.
type MultiWriter struct {
	actionWriters  []ActionWriter
	messageWriters []MessageWriter
	hudWriters     []HudWriter
	stateWriters   []StateWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(aws []ActionWriter, mws []MessageWriter, hws []HudWriter, sws []StateWriter) *MultiWriter {
	return &MultiWriter{actionWriters: aws, messageWriters: mws, hudWriters: hws, stateWriters: sws}
}

// WriteAction sends an action row to all action writers.
func (mw *MultiWriter) WriteAction(row battlelog.ActionRow) error {
	for _, w := range mw.actionWriters {
		if err := w.WriteAction(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteActions sends multiple action rows to all writers, using batch mode
// where supported.
func (mw *MultiWriter) WriteActions(rows []battlelog.ActionRow) error {
	for _, w := range mw.actionWriters {
		if err := writeActions(w, rows); err != nil {
			return err
		}
	}
	return nil
}

// WriteMessage sends a message row to all message writers.
func (mw *MultiWriter) WriteMessage(row battlelog.MessageRow) error {
	for _, w := range mw.messageWriters {
		if err := w.WriteMessage(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteMessages sends multiple message rows to all writers, using batch
// mode where supported.
func (mw *MultiWriter) WriteMessages(rows []battlelog.MessageRow) error {
	for _, w := range mw.messageWriters {
		if err := writeMessages(w, rows); err != nil {
			return err
		}
	}
	return nil
}

// WriteHud sends a HUD row to all HUD writers.
func (mw *MultiWriter) WriteHud(row battlelog.HudRow) error {
	for _, w := range mw.hudWriters {
		if err := w.WriteHud(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteState sends a state row to all state writers.
func (mw *MultiWriter) WriteState(row battlelog.StateRow) error {
	for _, w := range mw.stateWriters {
		if err := w.WriteState(row); err != nil {
			return err
		}
	}
	return nil
}
