package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tui "github.com/grindlemire/tuicore"
	"github.com/grindlemire/tuicore/internal/config"
	"github.com/muesli/termenv"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TUICORE_COLOR_PROFILE", "auto")
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "tuidemo", cmd.Use)

	for _, name := range []string{"layout", "run", "version"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	flag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "c", flag.Shorthand)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "tuidemo version "+version+"\n", out)
}

func TestLayout_Golden(t *testing.T) {
	type tc struct {
		args []string
	}

	tests := map[string]tc{
		"layout_frame": {args: []string{"layout", "-W", "20", "-H", "6", "testdata/card.yaml"}},
		"layout_rects": {args: []string{"layout", "--rects", "--width", "20", "--height", "6", "testdata/card.yaml"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)

			g := goldie.New(t,
				goldie.WithFixtureDir("testdata/golden"),
				goldie.WithNameSuffix(".golden"),
			)
			g.Assert(t, name, []byte(out))
		})
	}
}

func TestLayout_Errors(t *testing.T) {
	type tc struct {
		args []string
		msg  string
	}

	tests := map[string]tc{
		"no file":        {args: []string{"layout"}, msg: "accepts 1 arg"},
		"missing file":   {args: []string{"layout", filepath.Join(t.TempDir(), "none.yaml")}, msg: "read tree file"},
		"zero width":     {args: []string{"layout", "--width", "0", "testdata/card.yaml"}, msg: "screen size must be positive"},
		"missing config": {args: []string{"layout", "--config", filepath.Join(t.TempDir(), "none.yaml"), "testdata/card.yaml"}, msg: "read config"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestRunTree(t *testing.T) {
	term := tui.NewMockTerminal(30, 8)
	cfg := config.Default()
	cfg.InputLatencyMs = 5

	errCh := make(chan error, 1)
	go func() {
		errCh <- runTree(context.Background(), cfg, "testdata/card.yaml",
			tui.WithTerminal(term),
			tui.WithColorProfile(termenv.Ascii),
		)
	}()

	waitFor := func(want string) {
		t.Helper()
		require.Eventually(t, func() bool {
			return strings.Contains(term.Output(), want)
		}, 2*time.Second, 5*time.Millisecond, "output never contained %q", want)
	}

	waitFor("q quits")
	term.SendInput([]byte("x"))
	waitFor("last: x")
	term.SendInput([]byte("q"))

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runTree did not return after q")
	}
	assert.False(t, term.InRawMode())
	assert.Contains(t, term.Output(), "hello")
}

func TestRunTree_InterruptKey(t *testing.T) {
	term := tui.NewMockTerminal(30, 8)
	cfg := config.Default()
	cfg.InputLatencyMs = 5

	errCh := make(chan error, 1)
	go func() {
		errCh <- runTree(context.Background(), cfg, "testdata/card.yaml", tui.WithTerminal(term))
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(term.Output(), "hello")
	}, 2*time.Second, 5*time.Millisecond)
	term.SendInput([]byte{0x03})

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runTree did not return after ctrl+c")
	}
	assert.False(t, term.InRawMode())
}

func TestRunTree_BadTree(t *testing.T) {
	err := runTree(context.Background(), config.Default(), filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
}

func TestViewer_AutoHeightTreeFillsScreen(t *testing.T) {
	v := &viewer{tree: tui.Box(tui.Style{}, tui.Text("hi")), quit: func() {}}
	inst := tui.MustInstance(v, nil)

	scene := tui.NewScene(v.Render(inst))
	scene.Layout(10, 3)
	canvas := tui.NewCanvas(10, 3)
	scene.Paint(canvas)

	lines := canvas.Lines(termenv.Ascii)
	require.Len(t, lines, 3)
	assert.Equal(t, "hi", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Contains(t, lines[2], "q quits")
}
