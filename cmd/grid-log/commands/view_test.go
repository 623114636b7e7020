package commands

import (
	"bytes"
	"strings"
	"testing"
)

func TestViewFormatsEvents(t *testing.T) {
	path := createTestLogFile(t, sessionEvents())

	var buf bytes.Buffer
	if err := RunView(path, FilterOptions{}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"2026-01-28T10:00:00.000000Z [grid:11111111] TOPOLOGY INIT /",
		"SPLICE 0",
		"  Strip: strip-a",
		"  Device: Electric kettle",
		"POWER    SWITCH_OFF 0",
		"  Powered: ON -> OFF (4 nodes changed)",
		"  Op: unplug",
		"  Message: cannot detach the grid root",
		"  Node: 22222222 (OUTLET)",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestViewFilterByCategory(t *testing.T) {
	path := createTestLogFile(t, sessionEvents())

	var buf bytes.Buffer
	if err := RunView(path, FilterOptions{Category: "power"}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "SWITCH_OFF") {
		t.Error("expected power event in output")
	}
	if strings.Contains(output, "INIT") || strings.Contains(output, "Error") {
		t.Errorf("unexpected events in output:\n%s", output)
	}
}

func TestViewFilterByPath(t *testing.T) {
	path := createTestLogFile(t, sessionEvents())

	var buf bytes.Buffer
	if err := RunView(path, FilterOptions{Path: "0/1"}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	if got := strings.Count(buf.String(), "[grid:"); got != 1 {
		t.Errorf("expected 1 event under 0/1, got %d", got)
	}
}

func TestViewInvalidOptions(t *testing.T) {
	path := createTestLogFile(t, sessionEvents())

	tests := []FilterOptions{
		{Category: "wiring"},
		{TimeStart: "yesterday"},
		{TimeEnd: "2026-13-01"},
	}
	for _, opts := range tests {
		if err := RunView(path, opts, &bytes.Buffer{}); err == nil {
			t.Errorf("expected error for %+v", opts)
		}
	}
}

func TestViewMissingFile(t *testing.T) {
	if err := RunView("/nonexistent/test.glog", FilterOptions{}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseCategoryFlag(t *testing.T) {
	for _, s := range []string{"topology", "POWER", "error"} {
		if _, err := ParseCategoryFlag(s); err != nil {
			t.Errorf("ParseCategoryFlag(%q) failed: %v", s, err)
		}
	}
	if _, err := ParseCategoryFlag("message"); err == nil {
		t.Error("expected error for unknown category")
	}
}
