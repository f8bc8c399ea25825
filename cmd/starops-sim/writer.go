package main

import (
	"os"

	"golang.org/x/term"

	"starops-sim/internal/mission"
	"starops-sim/internal/sim"
)

// newWriters sets up battle log writers based on flags and env vars. It
// returns the writer bundle and a cleanup function closing any resources.
func newWriters(def *mission.Mission, printOnly bool, logFile string) (sim.Writers, func(), error) {
	cleanup := func() {}

	base, err := baseWriters(def, printOnly)
	if err != nil {
		return sim.Writers{}, nil, err
	}
	if logFile == "" {
		return base, cleanup, nil
	}

	fw, err := sim.NewFileWriter(logFile, logFile+".messages", logFile+".hud", logFile+".state")
	if err != nil {
		return sim.Writers{}, nil, err
	}
	hudWriters := []sim.HudWriter{fw}
	if base.Hud != nil {
		hudWriters = append([]sim.HudWriter{base.Hud}, hudWriters...)
	}
	mw := sim.NewMultiWriter(
		[]sim.ActionWriter{base.Actions, fw},
		[]sim.MessageWriter{base.Messages, fw},
		hudWriters,
		[]sim.StateWriter{base.State, fw},
	)
	cleanup = func() { fw.Close() }
	return sim.Writers{Actions: mw, Messages: mw, Hud: mw, State: mw}, cleanup, nil
}

// baseWriters chooses the underlying writer based on the printOnly flag and
// env vars. Plain terminals get the colorized writer; pipes get JSON lines.
func baseWriters(def *mission.Mission, printOnly bool) (sim.Writers, error) {
	if printOnly || os.Getenv("GREPTIMEDB_ENDPOINT") == "" {
		if def != nil && term.IsTerminal(int(os.Stdout.Fd())) {
			cw := sim.NewColorStdoutWriter(def)
			return sim.Writers{Actions: cw, Messages: cw, Hud: cw, State: cw}, nil
		}
		sw := &sim.StdoutWriter{}
		return sim.Writers{Actions: sw, Messages: sw, Hud: sw, State: sw}, nil
	}

	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	actionTable := os.Getenv("BATTLELOG_TABLE")
	messageTable := os.Getenv("MISSION_MESSAGE_TABLE")
	stateTable := os.Getenv("MISSION_STATE_TABLE")
	w, err := sim.NewGreptimeDBWriter(endpoint, "public", actionTable, messageTable, stateTable)
	if err != nil {
		return sim.Writers{}, err
	}
	// HUD toggles stay local; they are UI state, not battle history
	return sim.Writers{Actions: w, Messages: w, State: w}, nil
}

// newActionWriter creates a standalone action writer for replays.
func newActionWriter(printOnly bool) (sim.ActionWriter, error) {
	w, _, err := newWriters(nil, printOnly, "")
	if err != nil {
		return nil, err
	}
	return w.Actions, nil
}
