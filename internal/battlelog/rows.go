// Battle log row types, tagged for JSONL export and GreptimeDB ingestion.
package battlelog

import (
	"os"
	"time"
)

// ActionRow records one dispatched command/property action.
type ActionRow struct {
	BattleID      string    `json:"battle_id"` // TAG
	Event         string    `json:"event"`     // TAG
	Kind          string    `json:"kind"`
	Command       string    `json:"command,omitempty"`
	Subjects      []string  `json:"subjects"`
	MissionTimeMS int64     `json:"mission_time_ms"`
	Timestamp     time.Time `json:"ts"` // TIME INDEX
}

// MessageRow records one HUD/chat message emitted by a message action.
type MessageRow struct {
	BattleID      string    `json:"battle_id"`
	Event         string    `json:"event"`
	Text          string    `json:"text,omitempty"`
	Key           string    `json:"key,omitempty"`
	Sender        string    `json:"sender,omitempty"`
	DurationMS    int64     `json:"duration_ms,omitempty"`
	Permanent     bool      `json:"permanent,omitempty"`
	Urgent        bool      `json:"urgent,omitempty"`
	Style         string    `json:"style,omitempty"`
	MissionTimeMS int64     `json:"mission_time_ms"`
	Timestamp     time.Time `json:"ts"`
}

// HudRow records a HUD section visibility toggle.
type HudRow struct {
	BattleID      string    `json:"battle_id"`
	Section       string    `json:"section"`
	Visible       bool      `json:"visible"`
	MissionTimeMS int64     `json:"mission_time_ms"`
	Timestamp     time.Time `json:"ts"`
}

// StateRow records a mission state transition or a per-tick battle
// summary.
type StateRow struct {
	BattleID      string    `json:"battle_id"`
	State         string    `json:"state"`
	AliveCraft    int       `json:"alive_craft"`
	Tick          int64     `json:"tick"`
	MissionTimeMS int64     `json:"mission_time_ms"`
	Timestamp     time.Time `json:"ts"`
}

// ActionTableName holds the GreptimeDB table for action rows. It defaults
// to "mission_actions" but can be overridden via the BATTLELOG_TABLE
// environment variable.
var ActionTableName = func() string {
	if env := os.Getenv("BATTLELOG_TABLE"); env != "" {
		return env
	}
	return "mission_actions"
}()
