package sim

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"starops-sim/internal/battlelog"
	"starops-sim/internal/mission"
)

// stubProgram captures messages sent to the TUI.
type stubProgram struct {
	msgs []tea.Msg
}

func (p *stubProgram) Send(msg tea.Msg) { p.msgs = append(p.msgs, msg) }

func newStubTUIWriter() (*TUIWriter, *stubProgram) {
	p := &stubProgram{}
	return &TUIWriter{program: p, eventColors: make(map[string]string)}, p
}

func TestTUIWriterSendsLogLines(t *testing.T) {
	w, p := newStubTUIWriter()

	row := battlelog.ActionRow{
		Event:     "bandit_down",
		Kind:      "command",
		Command:   "target",
		Subjects:  []string{"Hero"},
		Timestamp: time.Unix(0, 0).UTC(),
	}
	if err := w.WriteAction(row); err != nil {
		t.Fatalf("WriteAction: %v", err)
	}
	if len(p.msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(p.msgs))
	}
	lm, ok := p.msgs[0].(logMsg)
	if !ok {
		t.Fatalf("unexpected message type %T", p.msgs[0])
	}
	for _, want := range []string{"ACTION", "bandit_down", "command=target", "subjects=Hero"} {
		if !strings.Contains(lm.line, want) {
			t.Errorf("line missing %q: %s", want, lm.line)
		}
	}
}

func TestTUIWriterStateTriggersCraftRefresh(t *testing.T) {
	w, p := newStubTUIWriter()
	w.SetCraftSource(func() []CraftStatus {
		return []CraftStatus{{Name: "Hero", Team: "Blue", Hull: 80, Shield: 50}}
	})

	if err := w.WriteState(battlelog.StateRow{State: "in_progress"}); err != nil {
		t.Fatalf("WriteState: %v", err)
	}
	if len(p.msgs) != 2 {
		t.Fatalf("got %d messages, want state + craft", len(p.msgs))
	}
	if _, ok := p.msgs[0].(stateMsg); !ok {
		t.Fatalf("first message is %T, want stateMsg", p.msgs[0])
	}
	cm, ok := p.msgs[1].(craftMsg)
	if !ok {
		t.Fatalf("second message is %T, want craftMsg", p.msgs[1])
	}
	if len(cm.craft) != 1 || cm.craft[0].Name != "Hero" {
		t.Fatalf("craft snapshot = %+v", cm.craft)
	}
}

func TestTUIModelKeepsBoundedLog(t *testing.T) {
	def := &mission.Mission{Name: "m"}
	m := newTUIModel(def, map[string]string{})

	var model tea.Model = m
	for i := 0; i < maxLogLines+50; i++ {
		model, _ = model.Update(logMsg{line: "line"})
	}
	got := model.(tuiModel)
	if len(got.logs) != maxLogLines {
		t.Fatalf("log buffer holds %d lines, want %d", len(got.logs), maxLogLines)
	}
}

func TestTUIModelCraftTable(t *testing.T) {
	def := &mission.Mission{Name: "m"}
	m := newTUIModel(def, map[string]string{})

	var model tea.Model = m
	model, _ = model.Update(craftMsg{craft: []CraftStatus{
		{Name: "Hero", Team: "Blue", Hull: 80, Shield: 50},
		{Name: "Bandit", Team: "Red", Destroyed: true},
	}})
	got := model.(tuiModel)
	rows := got.table.Rows()
	if len(rows) != 2 {
		t.Fatalf("table has %d rows, want 2", len(rows))
	}
	if rows[1][5] != "destroyed" {
		t.Fatalf("status column = %q, want destroyed", rows[1][5])
	}
}

func TestTUIWriterMessageFallsBackToKey(t *testing.T) {
	w, p := newStubTUIWriter()
	if err := w.WriteMessage(battlelog.MessageRow{Key: "brief_01", Timestamp: time.Unix(0, 0).UTC()}); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	lm := p.msgs[0].(logMsg)
	if !strings.Contains(lm.line, "<brief_01>") {
		t.Fatalf("line missing key fallback: %s", lm.line)
	}
}
