// Package viz plays mood canvases in the terminal.
//
// The player runs a [session.Session] behind a pump display: every Bubble Tea
// tick fires the pending frame, and the painted surface is downsampled onto a
// [Canvas] of half-block cells, two pixels per cell.
//
//   - [Model]: the live player with its status panel
//   - [Picker]: preset menu plus free-text mood entry that opens a player
//   - [Canvas]: truecolor half-block raster
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - New seed for the same mood
//	S     - Save the current frame as PNG
//	T     - Cycle panel themes
//	?     - Show help overlay
//	Q     - Quit
package viz
