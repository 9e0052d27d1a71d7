// Package viz draws cloth and galaxy systems in the terminal.
//
// A [Canvas] is a grid of braille cells with 2x4 dots each. Systems are turned
// into a [Wireframe] (structural springs and obstacle outlines for cloth;
// discs, trails and asteroid dots for a galaxy) and projected through a
// [Camera] onto the canvas.
//
// [Model] is a Bubble Tea program that advances a [sim.System] one frame per
// tick and shows the canvas next to energy and strain graphs.
//
// # Key Bindings
//
//	Space  - Pause/Resume
//	.      - Single frame while paused
//	R      - Reset to the initial state and parameters
//	Tab/N  - Select next parameter
//	Up/K   - Increase parameter (+5%)
//	Down/J - Decrease parameter (-5%)
//	A/D    - Add a random body / remove the farthest body (galaxy)
//	x/y/z  - Rotate the camera, shifted keys rotate back
//	+/-    - Zoom
//	?      - Show help
package viz
