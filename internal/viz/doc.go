// Package viz draws a running simulation in the terminal.
//
// Bodies, trails and particles are projected through an orbiting
// perspective [Camera] onto a braille [Canvas] with one color per cell.
// [Model] is the Bubble Tea program that steps the simulation each tick
// and shows an energy chart and the recent collisions beside the scene.
// [NewPicker] puts a scene menu in front of it.
//
// # Key Bindings
//
//	Space   pause / resume
//	c       toggle collisions
//	+ -     double / halve the time scale
//	x       remove the newest body
//	arrows  rotate the camera
//	z Z     zoom in / out
//	f       fit the camera to the bodies
//	t p     toggle trails / particles
//	g       toggle GIF recording
//	T       cycle themes
//	?       help overlay
package viz
