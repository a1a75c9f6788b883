// Package layout implements a pure-Go flexbox layout engine for terminal UIs.
//
// Nodes live in an arena ([Tree]) addressed by [NodeID]; children are owned
// through ID lists and parents are reachable through a handle, so a tree
// never forms pointer cycles. It supports flex (row/column, wrapping,
// justify and align modes, grow/shrink/basis) and block display, padding,
// margin, borders, gap, min/max constraints, percentage and fixed
// dimensions, and intrinsic sizing of text leaves.
//
// The main entry point is [Calculate], which writes absolute cell
// coordinates into every node of a subtree. Types are re-exported through
// the root tui package for public consumption.
package layout
