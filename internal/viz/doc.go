// Package viz renders the orb scene in the terminal.
//
// [Model] is a Bubble Tea program that ticks a sim.Driver at a fixed frame
// rate and draws a side view on a braille [Canvas].
//
// # Key Bindings
//
//	E / Space - Charge the orb while held
//	G         - Toggle gravity
//	R         - Reset the orb to its spawn point
//	X         - Save the orb state
//	Esc / Q   - Save and quit
//	T         - Cycle color themes
//	?         - Show help
//
// Terminals report key presses but not releases, so a key counts as held
// for Options.Hold after its last press event.
package viz
