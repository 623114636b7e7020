package topology

import "strconv"

// Document is the YAML description of a wall-rooted tree.
type Document struct {
	// Version is the format version, "major.minor". Empty means current.
	Version string `yaml:"version,omitempty"`

	// Name labels the root strip.
	Name string `yaml:"name,omitempty"`

	// Outlets is the number of wall outlets.
	Outlets int `yaml:"outlets"`

	// Slots fills the root outlets left to right. Missing trailing slots
	// are empty.
	Slots []Slot `yaml:"slots,omitempty"`
}

// Slot describes what is plugged into one outlet. The zero Slot is an
// empty outlet.
type Slot struct {
	// Device is a device name or catalog key.
	Device string `yaml:"device,omitempty"`

	// Strip is a nested power strip.
	Strip *StripSpec `yaml:"strip,omitempty"`
}

// IsEmpty reports whether the slot leaves the outlet free.
func (s Slot) IsEmpty() bool {
	return s.Device == "" && s.Strip == nil
}

// StripSpec describes a nested strip.
type StripSpec struct {
	Label   string `yaml:"label,omitempty"`
	Outlets int    `yaml:"outlets"`
	Slots   []Slot `yaml:"slots,omitempty"`
}

// LoadError provides details about a topology that failed to load or validate.
type LoadError struct {
	// File is the path of the topology file, if any.
	File string

	// Field locates the offending entry, e.g. "slots[1].strip.outlets".
	Field string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

func slotField(parent string, i int) string {
	f := "slots[" + strconv.Itoa(i) + "]"
	if parent == "" {
		return f
	}
	return parent + "." + f
}
