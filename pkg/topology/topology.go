// Package topology reads and writes declarative YAML descriptions of a
// power tree.
//
// A document names the wall strip, its outlet count, and what each outlet
// holds:
//
//	name: kitchen
//	outlets: 2
//	slots:
//	  - strip:
//	      outlets: 3
//	      slots:
//	        - device: iron
//	  - device: kettle
//
// Device entries may be catalog keys or free-form names.
package topology

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gridtree/gridtree-go/pkg/catalog"
	"github.com/gridtree/gridtree-go/pkg/grid"
)

// Parse decodes and validates a topology document. Unknown keys are rejected.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Message: "empty topology"}
		}
		return nil, &LoadError{Message: "failed to parse YAML", Cause: err}
	}
	if err := Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads and parses a topology file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}
	doc, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
		}
		return nil, err
	}
	return doc, nil
}

// Validate checks outlet counts and slot occupancy throughout the document.
func Validate(doc *Document) error {
	if doc == nil {
		return &LoadError{Message: "nil document"}
	}
	if err := checkVersion(doc.Version); err != nil {
		return &LoadError{Field: "version", Message: err.Error()}
	}
	return validateLevel("", doc.Outlets, doc.Slots)
}

func validateLevel(field string, outlets int, slots []Slot) error {
	if outlets <= 0 {
		f := "outlets"
		if field != "" {
			f = field + ".outlets"
		}
		return &LoadError{Field: f, Message: fmt.Sprintf("outlet count must be positive, got %d", outlets)}
	}
	if len(slots) > outlets {
		return &LoadError{Field: field, Message: fmt.Sprintf("%d slots for %d outlets", len(slots), outlets)}
	}
	for i, slot := range slots {
		f := slotField(field, i)
		if slot.Device != "" && slot.Strip != nil {
			return &LoadError{Field: f, Message: "slot holds both a device and a strip"}
		}
		if slot.Strip != nil {
			if err := validateLevel(f+".strip", slot.Strip.Outlets, slot.Strip.Slots); err != nil {
				return err
			}
		}
	}
	return nil
}

// Build constructs a live, powered tree from a validated document.
func Build(doc *Document) (*grid.Strip, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}
	root, err := grid.NewWallStrip(doc.Name, doc.Outlets)
	if err != nil {
		return nil, err
	}
	if err := fill(root, "", doc.Slots); err != nil {
		return nil, err
	}
	return root, nil
}

func fill(s *grid.Strip, field string, slots []Slot) error {
	for i, slot := range slots {
		if slot.IsEmpty() {
			continue
		}
		f := slotField(field, i)
		n, err := s.Child(i)
		if err != nil {
			return &LoadError{Field: f, Message: "missing outlet", Cause: err}
		}

		var item grid.Pluggable
		if slot.Strip != nil {
			child := grid.NewStrip(slot.Strip.Label)
			if err := child.SetOutlets(slot.Strip.Outlets); err != nil {
				return &LoadError{Field: f + ".strip", Message: "invalid strip", Cause: err}
			}
			if err := fill(child, f+".strip", slot.Strip.Slots); err != nil {
				return err
			}
			item = child
		} else {
			item = catalog.NewDevice(slot.Device)
		}
		if err := grid.Plug(n, item); err != nil {
			return &LoadError{Field: f, Message: "plug failed", Cause: err}
		}
	}
	return nil
}

// Export describes a live tree as a document. Trailing empty slots are omitted.
func Export(root *grid.Strip) *Document {
	return &Document{
		Version: CurrentVersion,
		Name:    root.Label(),
		Outlets: root.Len(),
		Slots:   exportSlots(root),
	}
}

func exportSlots(s *grid.Strip) []Slot {
	children := s.Children()
	slots := make([]Slot, len(children))
	for i, c := range children {
		switch v := c.(type) {
		case *grid.Outlet:
			if d := v.Device(); d != nil {
				slots[i].Device = d.Name()
			}
		case *grid.Strip:
			slots[i].Strip = &StripSpec{
				Label:   v.Label(),
				Outlets: v.Len(),
				Slots:   exportSlots(v),
			}
		}
	}

	end := len(slots)
	for end > 0 && slots[end-1].IsEmpty() {
		end--
	}
	if end == 0 {
		return nil
	}
	return slots[:end]
}

// Marshal encodes a document as YAML.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding topology: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding topology: %w", err)
	}
	return buf.Bytes(), nil
}

// Save exports root and writes it to path, creating parent directories.
func Save(path string, root *grid.Strip) error {
	data, err := Marshal(Export(root))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating topology directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing topology: %w", err)
	}
	return nil
}
