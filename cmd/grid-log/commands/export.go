package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/gridtree/gridtree-go/pkg/log"
)

// Record is the flat export form of an event.
type Record struct {
	Timestamp  time.Time `json:"timestamp"`
	GridID     string    `json:"grid_id"`
	NodeID     string    `json:"node_id,omitempty"`
	NodeKind   string    `json:"node_kind"`
	Path       string    `json:"path"`
	Category   string    `json:"category"`
	Action     string    `json:"action,omitempty"`
	Device     string    `json:"device,omitempty"`
	ChildID    string    `json:"child_id,omitempty"`
	Outlets    int       `json:"outlets,omitempty"`
	Switch     string    `json:"switch,omitempty"`
	WasPowered *bool     `json:"was_powered,omitempty"`
	IsPowered  *bool     `json:"is_powered,omitempty"`
	Changed    int       `json:"changed,omitempty"`
	Op         string    `json:"op,omitempty"`
	Message    string    `json:"message,omitempty"`
}

// NewRecord flattens an event.
func NewRecord(event log.Event) Record {
	r := Record{
		Timestamp: event.Timestamp.UTC(),
		GridID:    event.GridID,
		NodeID:    event.NodeID,
		NodeKind:  event.NodeKind.String(),
		Path:      event.Path,
		Category:  event.Category.String(),
	}
	if t := event.Topology; t != nil {
		r.Action = t.Action.String()
		r.Device = t.Device
		r.ChildID = t.ChildID
		r.Outlets = t.Outlets
	}
	if p := event.Power; p != nil {
		was, is := p.WasPowered, p.IsPowered
		r.Switch = p.Switch.String()
		r.WasPowered = &was
		r.IsPowered = &is
		r.Changed = p.Changed
	}
	if e := event.Error; e != nil {
		r.Op = e.Op
		r.Message = e.Message
	}
	return r
}

// RunExport exports the log file to the specified format.
func RunExport(path, format, output string, stdout io.Writer) error {
	switch format {
	case "jsonl", "json", "csv":
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, json, csv)", format)
	}

	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	w := stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "json":
		return exportJSON(reader, w)
	default:
		return exportCSV(reader, w)
	}
}

func readAll(reader *log.Reader, fn func(Record) error) error {
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := fn(NewRecord(event)); err != nil {
			return err
		}
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	return readAll(reader, func(r Record) error {
		if err := encoder.Encode(r); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
		return nil
	})
}

func exportJSON(reader *log.Reader, w io.Writer) error {
	records := []Record{}
	if err := readAll(reader, func(r Record) error {
		records = append(records, r)
		return nil
	}); err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to encode events: %w", err)
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)

	header := []string{"timestamp", "grid_id", "node_id", "node_kind", "path", "category", "action", "device", "outlets", "switch", "changed", "message"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	err := readAll(reader, func(r Record) error {
		row := []string{
			r.Timestamp.Format(time.RFC3339Nano),
			r.GridID,
			r.NodeID,
			r.NodeKind,
			r.Path,
			r.Category,
			r.Action,
			r.Device,
			strconv.Itoa(r.Outlets),
			r.Switch,
			strconv.Itoa(r.Changed),
			r.Message,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}
