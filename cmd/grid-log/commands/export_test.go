package commands

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestExportToJSONL(t *testing.T) {
	path := createTestLogFile(t, sessionEvents())

	var buf bytes.Buffer
	if err := RunExport(path, "jsonl", "", &buf); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	var records []Record
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var r Record
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			t.Fatalf("invalid JSON line %q: %v", scanner.Text(), err)
		}
		records = append(records, r)
	}
	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}

	if records[0].Category != "TOPOLOGY" || records[0].Action != "INIT" {
		t.Errorf("unexpected first record: %+v", records[0])
	}
	if records[2].Device != "Electric kettle" {
		t.Errorf("expected device name, got %q", records[2].Device)
	}
	power := records[3]
	if power.Switch != "OFF" || power.WasPowered == nil || !*power.WasPowered || power.IsPowered == nil || *power.IsPowered {
		t.Errorf("unexpected power record: %+v", power)
	}
	if records[4].Op != "unplug" {
		t.Errorf("expected error op, got %q", records[4].Op)
	}
}

func TestExportToJSONFile(t *testing.T) {
	path := createTestLogFile(t, sessionEvents())
	out := filepath.Join(t.TempDir(), "events.json")

	if err := RunExport(path, "json", out, nil); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(records) != 5 {
		t.Errorf("expected 5 records, got %d", len(records))
	}
	if records[1].NodeKind != "OUTLET" || records[1].Path != "0" {
		t.Errorf("unexpected splice record: %+v", records[1])
	}
}

func TestExportEmptyJSON(t *testing.T) {
	path := createTestLogFile(t, nil)

	var buf bytes.Buffer
	if err := RunExport(path, "json", "", &buf); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}
	if got := bytes.TrimSpace(buf.Bytes()); string(got) != "[]" {
		t.Errorf("expected empty array, got %q", got)
	}
}

func TestExportToCSV(t *testing.T) {
	path := createTestLogFile(t, sessionEvents())

	var buf bytes.Buffer
	if err := RunExport(path, "csv", "", &buf); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("expected header + 5 rows, got %d", len(rows))
	}
	if rows[0][0] != "timestamp" || rows[0][6] != "action" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[2][6] != "SPLICE" || rows[2][8] != "3" {
		t.Errorf("unexpected splice row: %v", rows[2])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestLogFile(t, sessionEvents())
	if err := RunExport(path, "xml", "", &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown format")
	}
}
