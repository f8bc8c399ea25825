package sim

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"starops-sim/internal/battlelog"
	"starops-sim/internal/mission"
)

func TestColorStdoutWriterPrintsOverviewOnce(t *testing.T) {
	def := &mission.Mission{
		Name:  "overview-test",
		Teams: []mission.Team{{Name: "Blue", Faction: "player"}},
		Events: []*mission.Event{
			{Name: "opening", Actions: []mission.Action{{Kind: mission.ActionWin}}},
		},
	}
	var buf bytes.Buffer
	w := &ColorStdoutWriter{def: def, out: &buf, eventColors: make(map[string]string)}

	row := battlelog.ActionRow{Event: "opening", Kind: "win", Timestamp: time.Unix(0, 0).UTC()}
	if err := w.WriteAction(row); err != nil {
		t.Fatalf("WriteAction: %v", err)
	}
	if err := w.WriteAction(row); err != nil {
		t.Fatalf("WriteAction: %v", err)
	}

	out := buf.String()
	if got := strings.Count(out, "Mission: overview-test"); got != 1 {
		t.Fatalf("overview printed %d times, want 1", got)
	}
	if !strings.Contains(out, "opening") || !strings.Contains(out, "ACTION") {
		t.Fatalf("output missing action line: %s", out)
	}
}

func TestColorStdoutWriterMessageAndState(t *testing.T) {
	var buf bytes.Buffer
	w := &ColorStdoutWriter{out: &buf, eventColors: make(map[string]string)}

	msg := battlelog.MessageRow{Text: "contact", Sender: "Command", Urgent: true, Timestamp: time.Unix(0, 0).UTC()}
	if err := w.WriteMessage(msg); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	st := battlelog.StateRow{State: "completed", AliveCraft: 3, Tick: 7, Timestamp: time.Unix(0, 0).UTC()}
	if err := w.WriteState(st); err != nil {
		t.Fatalf("WriteState: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Command: contact") {
		t.Fatalf("message line missing: %s", out)
	}
	if !strings.Contains(out, "state=") || !strings.Contains(out, "completed") {
		t.Fatalf("state line missing: %s", out)
	}
}
