// Package main provides tuidemo, a small exerciser for the tuicore host.
//
// Usage:
//
//	tuidemo layout [--width N] [--height N] [--rects] <tree.yaml>
//	tuidemo run [--config tui.yaml] <tree.yaml>
//	tuidemo version
//
// Tree files are described in internal/treefile.
package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
