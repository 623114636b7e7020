// Package interactive provides the command shell for gridctl.
package interactive

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gridtree/gridtree-go/pkg/catalog"
	"github.com/gridtree/gridtree-go/pkg/grid"
	"github.com/gridtree/gridtree-go/pkg/inspect"
	gridlog "github.com/gridtree/gridtree-go/pkg/log"
	"github.com/gridtree/gridtree-go/pkg/service"
	"github.com/gridtree/gridtree-go/pkg/topology"
)

// ErrUsage is returned for malformed command lines.
var ErrUsage = errors.New("usage")

// Shell executes gridctl commands against a grid service.
type Shell struct {
	svc       *service.GridService
	inspector *inspect.Inspector
	formatter *inspect.Formatter
}

// NewShell creates a shell for svc.
func NewShell(svc *service.GridService) *Shell {
	return &Shell{
		svc:       svc,
		inspector: inspect.NewInspector(),
		formatter: inspect.NewFormatter(),
	}
}

// Service returns the underlying grid service.
func (s *Shell) Service() *service.GridService {
	return s.svc
}

// Exec runs one command line, writing output to w. It reports whether the
// command asked the shell to exit.
func (s *Shell) Exec(line string, w io.Writer) (quit bool, err error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false, nil
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp(w)
	case "status", "s":
		err = s.svc.Status(w)
	case "inspect", "i":
		err = s.cmdInspect(w, args)
	case "free", "f":
		s.cmdFree(w)
	case "plug", "p":
		err = s.cmdPlug(w, args)
	case "strip":
		err = s.cmdStrip(w, args)
	case "outlets":
		err = s.cmdOutlets(w, args, false)
	case "reset":
		err = s.cmdOutlets(w, args, true)
	case "unplug", "u":
		err = s.cmdUnplug(w, args)
	case "on":
		err = s.cmdPower(w, args, true)
	case "off":
		err = s.cmdPower(w, args, false)
	case "catalog", "c":
		err = s.cmdCatalog(w)
	case "save":
		err = s.cmdSave(w, args)
	case "quit", "exit", "q":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command: %s (type 'help' for commands)", cmd)
	}
	return false, err
}

func (s *Shell) printHelp(w io.Writer) {
	fmt.Fprintln(w, `
Grid Commands:
  Inspection:
    status              - Print the status of every node
    inspect [path]      - Inspect the tree (or the subtree at path)
    free                - Show the first free outlet
    catalog             - List known devices

  Wiring:
    plug <path> <name>  - Plug a device (catalog key or name) into an outlet
    strip <path> <n> [label]
                        - Plug a new strip with n outlets into an outlet
    unplug <path>       - Unplug the device or strip at path
    outlets <path> <n>  - Initialise the strip at path with n outlets
                          (an initialised strip follows the reinit policy)
    reset <path> <n>    - Replace every slot of the strip at path with n empty outlets

  Power:
    on [path]           - Switch on the subtree at path (default: root)
    off [path]          - Switch off the subtree at path (default: root)

  Other:
    save <file>         - Write the tree as a topology file
    help                - Show this help
    quit                - Exit

Paths are slot indices from the root, e.g. 0/2/1. The root is /.`)
}

func (s *Shell) cmdInspect(w io.Writer, args []string) error {
	p := grid.Path{}
	if len(args) > 0 {
		var err error
		if p, err = grid.ParsePath(args[0]); err != nil {
			return err
		}
	}

	var infos []inspect.NodeInfo
	err := s.svc.Do(func(root *grid.Strip) error {
		n, err := grid.Resolve(root, p)
		if err != nil {
			return err
		}
		infos = s.inspector.Inspect(n)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprint(w, s.formatter.FormatTree(infos))
	fmt.Fprintln(w, s.formatter.FormatSummary(inspect.Summarize(infos)))
	return nil
}

func (s *Shell) cmdFree(w io.Writer) {
	p, ok := s.svc.FreeOutlet()
	if !ok {
		fmt.Fprintln(w, "No free outlet")
		return
	}
	fmt.Fprintf(w, "First free outlet: %s\n", p)
}

func (s *Shell) cmdPlug(w io.Writer, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: plug <path> <name>", ErrUsage)
	}
	p, err := grid.ParsePath(args[0])
	if err != nil {
		return err
	}
	d, err := s.svc.PlugDevice(p, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Plugged %s into %s\n", d.Name(), p)
	return nil
}

func (s *Shell) cmdStrip(w io.Writer, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: strip <path> <n> [label]", ErrUsage)
	}
	p, err := grid.ParsePath(args[0])
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: outlet count %q is not a number", ErrUsage, args[1])
	}
	label := strings.Join(args[2:], " ")

	if _, err := s.svc.PlugStrip(p, label, n); err != nil {
		return err
	}
	fmt.Fprintf(w, "Plugged %d-outlet strip into %s\n", n, p)
	return nil
}

func (s *Shell) cmdOutlets(w io.Writer, args []string, reset bool) error {
	name := "outlets"
	if reset {
		name = "reset"
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: %s <path> <n>", ErrUsage, name)
	}
	p, err := grid.ParsePath(args[0])
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: outlet count %q is not a number", ErrUsage, args[1])
	}

	if reset {
		err = s.svc.ResetOutlets(p, n)
	} else {
		err = s.svc.SetOutlets(p, n)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Strip at %s now has %d outlets\n", p, n)
	return nil
}

func (s *Shell) cmdUnplug(w io.Writer, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: unplug <path>", ErrUsage)
	}
	p, err := grid.ParsePath(args[0])
	if err != nil {
		return err
	}
	if err := s.svc.Unplug(p); err != nil {
		return err
	}
	fmt.Fprintf(w, "Unplugged %s\n", p)
	return nil
}

func (s *Shell) cmdPower(w io.Writer, args []string, on bool) error {
	p := grid.Path{}
	if len(args) > 0 {
		var err error
		if p, err = grid.ParsePath(args[0]); err != nil {
			return err
		}
	}

	if on {
		if err := s.svc.PowerUp(p); err != nil {
			return err
		}
		fmt.Fprintf(w, "Power on at %s\n", p)
		return nil
	}
	if err := s.svc.PowerOff(p); err != nil {
		return err
	}
	fmt.Fprintf(w, "Power off at %s\n", p)
	return nil
}

func (s *Shell) cmdCatalog(w io.Writer) error {
	presets, err := catalog.All()
	if err != nil {
		return err
	}
	for _, p := range presets {
		fmt.Fprintf(w, "  %-12s %-16s %5d W\n", p.Key, p.Name, p.RatedWatts)
	}
	return nil
}

func (s *Shell) cmdSave(w io.Writer, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: save <file>", ErrUsage)
	}
	err := s.svc.Do(func(root *grid.Strip) error {
		return topology.Save(args[0], root)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Saved topology to %s\n", args[0])
	return nil
}

// FormatEvent renders a grid event as a single line for display.
func FormatEvent(e gridlog.Event) string {
	switch {
	case e.Topology != nil:
		t := e.Topology
		switch t.Action {
		case gridlog.ActionPlugDevice, gridlog.ActionUnplugDevice:
			return fmt.Sprintf("[EVENT] %s %s at %s", t.Action, t.Device, e.Path)
		default:
			return fmt.Sprintf("[EVENT] %s at %s (%d outlets)", t.Action, e.Path, t.Outlets)
		}
	case e.Power != nil:
		return fmt.Sprintf("[EVENT] POWER %s at %s (%d changed)", e.Power.Switch, e.Path, e.Power.Changed)
	case e.Error != nil:
		return fmt.Sprintf("[EVENT] ERROR %s at %s: %s", e.Error.Op, e.Path, e.Error.Message)
	}
	return fmt.Sprintf("[EVENT] %s at %s", e.Category, e.Path)
}
