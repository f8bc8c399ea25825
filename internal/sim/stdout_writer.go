// Writer implementation printing battle log rows to STDOUT
package sim

import (
	"encoding/json"
	"fmt"

	"starops-sim/internal/battlelog"
)

// StdoutWriter prints battle log rows as JSON lines to STDOUT.
type StdoutWriter struct{}

// WriteAction outputs a single action row.
func (w *StdoutWriter) WriteAction(row battlelog.ActionRow) error {
	data, _ := json.Marshal(row)
	fmt.Println(string(data))
	return nil
}

// WriteActions outputs multiple action rows.
func (w *StdoutWriter) WriteActions(rows []battlelog.ActionRow) error {
	for _, r := range rows {
		_ = w.WriteAction(r)
	}
	return nil
}

// WriteMessage outputs a message row.
func (w *StdoutWriter) WriteMessage(row battlelog.MessageRow) error {
	data, _ := json.Marshal(row)
	fmt.Println(string(data))
	return nil
}

// WriteMessages outputs multiple message rows.
func (w *StdoutWriter) WriteMessages(rows []battlelog.MessageRow) error {
	for _, r := range rows {
		_ = w.WriteMessage(r)
	}
	return nil
}

// WriteHud outputs a HUD toggle row.
func (w *StdoutWriter) WriteHud(row battlelog.HudRow) error {
	data, _ := json.Marshal(row)
	fmt.Println(string(data))
	return nil
}

// WriteState outputs a mission state row.
func (w *StdoutWriter) WriteState(row battlelog.StateRow) error {
	data, _ := json.Marshal(row)
	fmt.Println(string(data))
	return nil
}
