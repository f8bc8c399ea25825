package sim

import (
	"encoding/json"
	"os"

	"starops-sim/internal/battlelog"
)

// FileWriter writes battle log rows to JSONL files. Action rows always go
// to the primary file; the message, hud, and state paths may be empty to
// skip those logs.
type FileWriter struct {
	actionFile *os.File
	msgFile    *os.File
	hudFile    *os.File
	stateFile  *os.File
	actionEnc  *json.Encoder
	msgEnc     *json.Encoder
	hudEnc     *json.Encoder
	stateEnc   *json.Encoder
}

// NewFileWriter creates a FileWriter.
func NewFileWriter(actionPath, messagePath, hudPath, statePath string) (*FileWriter, error) {
	af, err := os.Create(actionPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{actionFile: af, actionEnc: json.NewEncoder(af)}
	open := func(path string) (*os.File, *json.Encoder, error) {
		if path == "" {
			return nil, nil, nil
		}
		f, err := os.Create(path)
		if err != nil {
			fw.Close()
			return nil, nil, err
		}
		return f, json.NewEncoder(f), nil
	}
	if fw.msgFile, fw.msgEnc, err = open(messagePath); err != nil {
		return nil, err
	}
	if fw.hudFile, fw.hudEnc, err = open(hudPath); err != nil {
		return nil, err
	}
	if fw.stateFile, fw.stateEnc, err = open(statePath); err != nil {
		return nil, err
	}
	return fw, nil
}

// WriteAction logs a single action row.
func (f *FileWriter) WriteAction(row battlelog.ActionRow) error {
	return f.actionEnc.Encode(row)
}

// WriteActions logs multiple action rows.
func (f *FileWriter) WriteActions(rows []battlelog.ActionRow) error {
	for _, r := range rows {
		if err := f.WriteAction(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteMessage logs a message row, if enabled.
func (f *FileWriter) WriteMessage(row battlelog.MessageRow) error {
	if f.msgEnc == nil {
		return nil
	}
	return f.msgEnc.Encode(row)
}

// WriteMessages logs multiple message rows.
func (f *FileWriter) WriteMessages(rows []battlelog.MessageRow) error {
	for _, r := range rows {
		if err := f.WriteMessage(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteHud logs a HUD toggle row, if enabled.
func (f *FileWriter) WriteHud(row battlelog.HudRow) error {
	if f.hudEnc == nil {
		return nil
	}
	return f.hudEnc.Encode(row)
}

// WriteState logs a mission state row, if enabled.
func (f *FileWriter) WriteState(row battlelog.StateRow) error {
	if f.stateEnc == nil {
		return nil
	}
	return f.stateEnc.Encode(row)
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	for _, file := range []*os.File{f.actionFile, f.msgFile, f.hudFile, f.stateFile} {
		if file == nil {
			continue
		}
		if e := file.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
