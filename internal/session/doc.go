// Package session runs the animation loop for one active (mood, seed,
// viewport) activation.
//
// A [Session] owns its scene, its drawing surface and at most one pending
// frame request. Each frame paints the scene at the time elapsed since
// activation and then re-arms the next request, so cadence follows whatever
// [Display] delivers refreshes:
//
//   - [PumpDisplay] for hosts that run their own loop (terminal, window)
//   - [TickerDisplay] for a fixed-rate headless clock
//
// Stop cancels the pending request and no new frame is requested after it.
// A frame already in flight when Stop is called may still finish painting.
package session
