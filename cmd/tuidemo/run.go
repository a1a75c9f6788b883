package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	tui "github.com/grindlemire/tuicore"
	"github.com/grindlemire/tuicore/internal/config"
	"github.com/grindlemire/tuicore/internal/debug"
	"github.com/grindlemire/tuicore/internal/treefile"
	"github.com/spf13/cobra"
)

func newRunCommand(rootOpts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <tree.yaml>",
		Short: "Mount a tree file on the terminal",
		Long: `Mount a tree file on the terminal and show the last input event below it.

Press q or the configured interrupt key to exit. Host settings come from
--config and TUICORE_* environment variables.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runTree(ctx, cfg, args[0])
		},
	}
	return cmd
}

// runTree mounts the tree at path and runs the host until ctx is done, q is
// pressed or the interrupt key fires. extra options are applied after the
// configured ones.
func runTree(ctx context.Context, cfg *config.Config, path string, extra ...tui.HostOption) (err error) {
	node, err := treefile.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.InitLogging(); err != nil {
		return fmt.Errorf("open debug log: %w", err)
	}
	defer debug.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts, err := cfg.HostOptions()
	if err != nil {
		return err
	}
	opts = append(opts, tui.WithExitFunc(func(int) { cancel() }))
	opts = append(opts, extra...)

	host, err := tui.NewHost(opts...)
	if err != nil {
		return err
	}
	host.Subscribe(func(ev tui.HostEvent) {
		if ev.Kind == tui.EventInput {
			debug.Log("input", "event", fmt.Sprintf("%+v", ev.Input))
		}
	})

	if err := host.Mount(&viewer{tree: node, quit: cancel}, nil); err != nil {
		return fmt.Errorf("mount %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, host.Cleanup())
	}()
	return host.Run(ctx)
}

// viewer shows a static tree above a status line with the last input event.
type viewer struct {
	tree tui.RenderNode
	quit func()
}

func (v *viewer) Render(inst *tui.Instance) tui.RenderNode {
	status := "q quits"
	if last, _ := inst.Get("last").(string); last != "" {
		status = "last: " + last + "  q quits"
	}
	tree := v.tree
	// Auto-height containers start from zero in a column; let the tree take
	// whatever the status line leaves.
	if tree.Kind == tui.KindBox && tree.Style.Height.IsAuto() && tree.Style.FlexGrow == 0 {
		tree.Style.FlexGrow = 1
	}
	return tui.Box(tui.Style{Direction: tui.Column},
		tree,
		tui.StyledText(tui.Style{Attrs: tui.AttrDim}, status),
	)
}

func (v *viewer) HandleInput(inst *tui.Instance, ev tui.Event) bool {
	switch e := ev.(type) {
	case tui.KeyEvent:
		if e.Is("q") {
			v.quit()
			return true
		}
		inst.SetState(tui.State{"last": e.String()})
		return true
	case tui.MouseEvent:
		inst.SetState(tui.State{"last": fmt.Sprintf("%s %s at %d,%d", e.Button, e.Action, e.X, e.Y)})
		return true
	}
	return false
}
