// Package cloth implements a mass-spring cloth sheet.
//
// A [Grid] owns every [PointMass] and [Spring] of one sheet. Point masses are
// stored row-major, so grid cell (i, j) lives at index j*numWidthPoints+i.
// Springs reference their endpoints by that index.
//
//   - Structural springs join left and upper neighbours
//   - Shearing springs join the two upper diagonals
//   - Bending springs join the neighbours two cells left and two cells up
//
// # Stepping
//
// [Grid.Step] advances one sub-step of length 1/(fps*substeps):
//
//  1. accumulate external and spring forces
//  2. Verlet-integrate every unpinned point mass
//  3. resolve self-collision through a [SpatialHash] rebuilt for the step
//  4. resolve collisions against the supplied primitives
//  5. limit every enabled spring to 110% of its rest length
//
// The order is load-bearing: strain limiting must see post-collision
// positions.
//
// # Example
//
//	g, _ := cloth.New(cloth.Options{
//	    Width: 1, Height: 1, NumWidthPoints: 32, NumHeightPoints: 32,
//	    Thickness: 0.01, Orientation: cloth.Vertical,
//	    Pinned: [][2]int{{0, 0}, {31, 0}},
//	})
//	p := cloth.DefaultParams()
//	gravity := []vecmath.Vec3{{Y: -9.8}}
//	for i := 0; i < 30; i++ {
//	    g.Step(90, 30, &p, gravity, nil)
//	}
//
// A Grid is not safe for concurrent use.
package cloth
