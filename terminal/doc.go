// Package terminal hosts the animation in a tcell screen.
//
// Each character cell is one surface pixel; tiles become runs of cells sharing a background color.
// Character cells are taller than wide, so the terminal host defaults to a tile ratio of 0.5.
package terminal
