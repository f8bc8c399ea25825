// ColorStdoutWriter prints human-friendly, colorized battle events to STDOUT.
package sim

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"starops-sim/internal/battlelog"
	"starops-sim/internal/mission"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

var teamPalette = []string{colorRed, colorGreen, colorYellow, colorBlue, colorMagenta, colorCyan}

// ColorStdoutWriter prints battle rows using ANSI colors, one color per
// mission event.
type ColorStdoutWriter struct {
	def         *mission.Mission
	out         io.Writer
	once        sync.Once
	eventColors map[string]string
	colorIdx    int
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter(def *mission.Mission) *ColorStdoutWriter {
	return &ColorStdoutWriter{
		def:         def,
		out:         os.Stdout,
		eventColors: make(map[string]string),
	}
}

func (w *ColorStdoutWriter) getEventColor(name string) string {
	if c, ok := w.eventColors[name]; ok {
		return c
	}
	c := teamPalette[w.colorIdx%len(teamPalette)]
	w.eventColors[name] = c
	w.colorIdx++
	return c
}

func (w *ColorStdoutWriter) printOverview() {
	if w.def == nil {
		return
	}
	fmt.Fprintf(w.out, "Mission: %s\n", w.def.Name)

	fmt.Fprintln(w.out, "\nTeams:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name\tFaction\n")
	for _, t := range w.def.Teams {
		fmt.Fprintf(tw, "%s\t%s\n", t.Name, t.Faction)
	}
	tw.Flush()

	fmt.Fprintln(w.out, "\nEvents:")
	tw = tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name\tConditions\tActions\n")
	for _, ev := range w.def.Events {
		col := w.getEventColor(ev.Name)
		fmt.Fprintf(tw, "%s%s%s\t%d\t%d\n", col, ev.Name, colorReset, len(ev.Trigger.Conditions), len(ev.Actions))
	}
	tw.Flush()
	fmt.Fprintln(w.out)
}

// WriteAction outputs a single action row in colorized format.
func (w *ColorStdoutWriter) WriteAction(row battlelog.ActionRow) error {
	w.once.Do(w.printOverview)
	eColor := w.getEventColor(row.Event)
	fmt.Fprintf(w.out, "%s[%s]%s %sACTION%s %sevent=%s%s kind=%s", colorGray,
		row.Timestamp.Format(time.RFC3339), colorReset,
		colorYellow, colorReset, eColor, row.Event, colorReset, row.Kind)
	if row.Command != "" {
		fmt.Fprintf(w.out, " command=%s", row.Command)
	}
	fmt.Fprintf(w.out, " subjects=%s\n", strings.Join(row.Subjects, ","))
	return nil
}

// WriteActions outputs multiple action rows.
func (w *ColorStdoutWriter) WriteActions(rows []battlelog.ActionRow) error {
	for _, r := range rows {
		_ = w.WriteAction(r)
	}
	return nil
}

// WriteMessage prints a scripted message to STDOUT.
func (w *ColorStdoutWriter) WriteMessage(row battlelog.MessageRow) error {
	w.once.Do(w.printOverview)
	style := colorCyan
	if row.Urgent {
		style = colorRed
	}
	text := row.Text
	if text == "" {
		text = "<" + row.Key + ">"
	}
	sender := row.Sender
	if sender == "" {
		sender = "mission"
	}
	fmt.Fprintf(w.out, "%s[%s]%s %sMSG%s %s: %s\n",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		style, colorReset, sender, text)
	return nil
}

// WriteHud prints a HUD section toggle.
func (w *ColorStdoutWriter) WriteHud(row battlelog.HudRow) error {
	w.once.Do(w.printOverview)
	fmt.Fprintf(w.out, "%s[%s]%s %sHUD%s section=%s visible=%t\n",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		colorMagenta, colorReset, row.Section, row.Visible)
	return nil
}

// WriteState prints a mission state row. Per-tick summaries repeat the
// current state; transitions stand out via color.
func (w *ColorStdoutWriter) WriteState(row battlelog.StateRow) error {
	w.once.Do(w.printOverview)
	stateColor := colorBlue
	switch mission.State(row.State) {
	case mission.StateCompleted:
		stateColor = colorGreen
	case mission.StateFailed:
		stateColor = colorRed
	}
	fmt.Fprintf(w.out, "%s[%s]%s %sSTATE%s state=%s%s%s alive=%d tick=%d t=%dms\n",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		colorBlue, colorReset, stateColor, row.State, colorReset,
		row.AliveCraft, row.Tick, row.MissionTimeMS)
	return nil
}
