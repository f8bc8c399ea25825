package sim

import (
	"context"
	"testing"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"

	"starops-sim/internal/battlelog"
)

type mockGreptimeClient struct {
	table *table.Table
}

func (m *mockGreptimeClient) Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error) {
	if len(tables) > 0 {
		m.table = tables[0]
	}
	return &gpb.GreptimeResponse{}, nil
}

func TestGreptimeWriterActionSubjectsJSON(t *testing.T) {
	ts := time.Unix(0, 0).UTC()
	rows := []battlelog.ActionRow{
		{
			BattleID:      "b1",
			Event:         "bandit_down",
			Kind:          "command",
			Command:       "target",
			Subjects:      []string{"Alpha 1", "Alpha 2"},
			MissionTimeMS: 1500,
			Timestamp:     ts,
		},
	}

	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, actionTable: "mission_actions"}

	if err := w.WriteActions(rows); err != nil {
		t.Fatalf("WriteActions: %v", err)
	}
	if m.table == nil {
		t.Fatalf("expected table to be captured")
	}

	schema := m.table.GetRows().Schema
	if len(schema) != 7 {
		t.Fatalf("unexpected schema length: %d", len(schema))
	}
	if schema[4].Datatype != gpb.ColumnDataType_JSON {
		t.Fatalf("subjects column type = %v, want %v", schema[4].Datatype, gpb.ColumnDataType_JSON)
	}

	got := m.table.GetRows().Rows[0].Values[4].GetStringValue()
	want := "[\"Alpha 1\",\"Alpha 2\"]"
	if got != want {
		t.Fatalf("subjects = %s, want %s", got, want)
	}
}

func TestGreptimeWriterDisabledTablesSkipWrites(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, actionTable: "mission_actions"}

	if err := w.WriteMessage(battlelog.MessageRow{BattleID: "b1"}); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	if err := w.WriteState(battlelog.StateRow{BattleID: "b1"}); err != nil {
		t.Fatalf("WriteState: %v", err)
	}
	if m.table != nil {
		t.Fatalf("disabled table produced a write")
	}
}

func TestGreptimeWriterStateRow(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, stateTable: "mission_state"}

	row := battlelog.StateRow{
		BattleID:      "b1",
		State:         "in_progress",
		AliveCraft:    5,
		Tick:          42,
		MissionTimeMS: 4200,
		Timestamp:     time.Unix(0, 0).UTC(),
	}
	if err := w.WriteState(row); err != nil {
		t.Fatalf("WriteState: %v", err)
	}
	if m.table == nil {
		t.Fatalf("expected table to be captured")
	}
	if got := len(m.table.GetRows().Rows); got != 1 {
		t.Fatalf("got %d rows, want 1", got)
	}
}
