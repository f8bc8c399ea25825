package sim

import (
	"context"
	"encoding/json"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"

	"starops-sim/internal/battlelog"
)

// greptimeClient abstracts the ingester client for testing.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes battle log rows to GreptimeDB via the ingester
// client. Empty table names disable the corresponding row family.
type GreptimeDBWriter struct {
	client       greptimeClient
	actionTable  string
	messageTable string
	stateTable   string
}

// NewGreptimeDBWriter creates a new GreptimeDB writer.
func NewGreptimeDBWriter(host, database, actionTable, messageTable, stateTable string) (*GreptimeDBWriter, error) {
	cfg := greptime.NewConfig(host).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if actionTable == "" {
		actionTable = battlelog.ActionTableName
	}
	return &GreptimeDBWriter{
		client:       client,
		actionTable:  actionTable,
		messageTable: messageTable,
		stateTable:   stateTable,
	}, nil
}

// WriteAction inserts a single action row.
func (w *GreptimeDBWriter) WriteAction(row battlelog.ActionRow) error {
	return w.WriteActions([]battlelog.ActionRow{row})
}

// WriteActions inserts multiple action rows.
func (w *GreptimeDBWriter) WriteActions(rows []battlelog.ActionRow) error {
	if len(rows) == 0 || w.actionTable == "" {
		return nil
	}
	tbl, err := table.New(w.actionTable)
	if err != nil {
		return err
	}
	if err := addColumns(tbl,
		tag("battle_id"), tag("event"),
		field("kind", types.STRING),
		field("command", types.STRING),
		field("subjects", types.JSON),
		field("mission_time_ms", types.INT64),
	); err != nil {
		return err
	}
	for _, r := range rows {
		subjects, err := json.Marshal(r.Subjects)
		if err != nil {
			return err
		}
		if err := tbl.AddRow(r.BattleID, r.Event, r.Kind, r.Command, string(subjects), r.MissionTimeMS, r.Timestamp); err != nil {
			return err
		}
	}
	_, err = w.client.Write(context.Background(), tbl)
	return err
}

// WriteMessage inserts a single message row, if enabled.
func (w *GreptimeDBWriter) WriteMessage(row battlelog.MessageRow) error {
	return w.WriteMessages([]battlelog.MessageRow{row})
}

// WriteMessages inserts multiple message rows.
func (w *GreptimeDBWriter) WriteMessages(rows []battlelog.MessageRow) error {
	if len(rows) == 0 || w.messageTable == "" {
		return nil
	}
	tbl, err := table.New(w.messageTable)
	if err != nil {
		return err
	}
	if err := addColumns(tbl,
		tag("battle_id"), tag("event"),
		field("text", types.STRING),
		field("sender", types.STRING),
		field("urgent", types.BOOLEAN),
		field("mission_time_ms", types.INT64),
	); err != nil {
		return err
	}
	for _, r := range rows {
		if err := tbl.AddRow(r.BattleID, r.Event, r.Text, r.Sender, r.Urgent, r.MissionTimeMS, r.Timestamp); err != nil {
			return err
		}
	}
	_, err = w.client.Write(context.Background(), tbl)
	return err
}

// WriteState inserts a mission state row, if enabled.
func (w *GreptimeDBWriter) WriteState(row battlelog.StateRow) error {
	if w.stateTable == "" {
		return nil
	}
	tbl, err := table.New(w.stateTable)
	if err != nil {
		return err
	}
	if err := addColumns(tbl,
		tag("battle_id"),
		field("state", types.STRING),
		field("alive_craft", types.INT64),
		field("tick", types.INT64),
		field("mission_time_ms", types.INT64),
	); err != nil {
		return err
	}
	if err := tbl.AddRow(row.BattleID, row.State, int64(row.AliveCraft), row.Tick, row.MissionTimeMS, row.Timestamp); err != nil {
		return err
	}
	_, err = w.client.Write(context.Background(), tbl)
	return err
}

type column struct {
	name string
	typ  types.ColumnType
	tag  bool
}

func tag(name string) column {
	return column{name: name, typ: types.STRING, tag: true}
}

func field(name string, typ types.ColumnType) column {
	return column{name: name, typ: typ}
}

// addColumns declares the schema: tags first, then fields, then the shared
// millisecond time index.
func addColumns(tbl *table.Table, cols ...column) error {
	for _, c := range cols {
		var err error
		if c.tag {
			err = tbl.AddTagColumn(c.name, c.typ)
		} else {
			err = tbl.AddFieldColumn(c.name, c.typ)
		}
		if err != nil {
			return err
		}
	}
	return tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)
}
