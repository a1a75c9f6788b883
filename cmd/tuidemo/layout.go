package main

import (
	"fmt"
	"io"
	"strings"

	tui "github.com/grindlemire/tuicore"
	"github.com/grindlemire/tuicore/internal/treefile"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

type layoutOptions struct {
	width  int
	height int
	rects  bool
}

func newLayoutCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &layoutOptions{}

	cmd := &cobra.Command{
		Use:   "layout <tree.yaml>",
		Short: "Print the painted frame of a tree file",
		Long: `Lay out a tree file inside a fixed-size screen and print the frame.

With --rects the computed border box of every node is printed instead,
one node per line, indented by depth.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(rootOpts, opts, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVarP(&opts.width, "width", "W", 80, "screen width in cells")
	cmd.Flags().IntVarP(&opts.height, "height", "H", 24, "screen height in cells")
	cmd.Flags().BoolVar(&opts.rects, "rects", false, "print node rectangles instead of the frame")

	return cmd
}

func runLayout(rootOpts *rootOptions, opts *layoutOptions, path string, w io.Writer) error {
	if opts.width < 1 || opts.height < 1 {
		return fmt.Errorf("screen size must be positive, got %dx%d", opts.width, opts.height)
	}
	cfg, err := rootOpts.load()
	if err != nil {
		return err
	}
	node, err := treefile.Load(path)
	if err != nil {
		return err
	}

	scene := tui.NewScene(node)
	scene.Layout(opts.width, opts.height)

	if opts.rects {
		writeRects(w, scene, scene.Root(), 0)
		return nil
	}

	profile := termenv.Ascii
	if p, ok := cfg.Profile(); ok {
		profile = p
	}
	canvas := tui.NewCanvas(opts.width, opts.height)
	scene.Paint(canvas)
	for _, line := range canvas.Lines(profile) {
		fmt.Fprintln(w, line)
	}
	return nil
}

// writeRects prints id and its descendants in tree order.
func writeRects(w io.Writer, scene *tui.Scene, id tui.NodeID, depth int) {
	n := scene.Tree().Node(id)
	if n == nil {
		return
	}
	fmt.Fprintf(w, "%s%s %d,%d %dx%d", strings.Repeat("  ", depth), scene.Kind(id), n.X, n.Y, n.Width, n.Height)
	if n.IsText() {
		fmt.Fprintf(w, " %q", strings.Join(n.Lines, "\n"))
	}
	fmt.Fprintln(w)
	for _, child := range n.Children {
		writeRects(w, scene, child, depth+1)
	}
}
