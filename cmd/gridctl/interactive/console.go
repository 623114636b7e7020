package interactive

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	gridlog "github.com/gridtree/gridtree-go/pkg/log"
)

// Console runs a Shell behind a readline prompt.
type Console struct {
	shell *Shell
	rl    *readline.Instance
}

// NewConsole creates a console for shell and subscribes to its events.
func NewConsole(shell *Shell) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "grid> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	c := &Console{shell: shell, rl: rl}
	shell.Service().OnEvent(c.handleEvent)
	return c, nil
}

// Stdout returns a writer that coordinates with the readline input.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Run starts the interactive command loop.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	out := c.rl.Stdout()
	c.shell.printHelp(out)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(out, "Exiting...")
			cancel()
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		quit, err := c.shell.Exec(line, out)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		if quit {
			fmt.Fprintln(out, "Exiting...")
			cancel()
			return
		}
	}
}

func (c *Console) handleEvent(e gridlog.Event) {
	if e.Category == gridlog.CategoryError {
		return
	}
	fmt.Fprintln(c.rl.Stdout(), FormatEvent(e))
}
