// Package gravity simulates a small N-body system of spherical bodies.
//
// Planets attract each other pairwise. Asteroids are pulled toward the first
// planet only and exert no force back. Every body advances with the
// per-step rule
//
//	new = pos + vel + F/m
//	vel = new - pos
//
// so velocities are displacements per sub-step and the sub-step length does
// not enter the update.
package gravity
