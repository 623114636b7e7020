// Package catalog provides the embedded list of known appliance presets.
package catalog

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/gridtree/gridtree-go/pkg/grid"
)

//go:embed data/devices.yaml
var dataFS embed.FS

// Preset describes a known appliance.
type Preset struct {
	Key        string `yaml:"-"`
	Name       string `yaml:"name"`
	RatedWatts int    `yaml:"rated_watts"`
}

type catalogFile struct {
	Devices map[string]Preset `yaml:"devices"`
}

var (
	loadOnce sync.Once
	presets  map[string]Preset
	loadErr  error
)

func load() (map[string]Preset, error) {
	loadOnce.Do(func() {
		data, err := dataFS.ReadFile("data/devices.yaml")
		if err != nil {
			loadErr = fmt.Errorf("reading device catalog: %w", err)
			return
		}
		var f catalogFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			loadErr = fmt.Errorf("parsing device catalog: %w", err)
			return
		}
		presets = make(map[string]Preset, len(f.Devices))
		for key, p := range f.Devices {
			p.Key = key
			presets[key] = p
		}
	})
	return presets, loadErr
}

// Lookup returns the preset for key (case-insensitive).
func Lookup(key string) (Preset, bool) {
	all, err := load()
	if err != nil {
		return Preset{}, false
	}
	p, ok := all[strings.ToLower(strings.TrimSpace(key))]
	return p, ok
}

// All returns every preset, sorted by key.
func All() ([]Preset, error) {
	all, err := load()
	if err != nil {
		return nil, err
	}
	out := make([]Preset, 0, len(all))
	for _, p := range all {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// NewDevice returns a device named after the preset for key, or named key
// itself when no preset matches.
func NewDevice(key string) *grid.Device {
	if p, ok := Lookup(key); ok {
		return grid.NewDevice(p.Name)
	}
	return grid.NewDevice(key)
}
