package gravity

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/clothsim/internal/vecmath"
)

func twoBody() (*Body, *Body) {
	heavy := NewBody(vecmath.Vec3{}, vecmath.Vec3{}, 1, 1e30, 0)
	light := NewBody(vecmath.Vec3{X: 1e11}, vecmath.Vec3{}, 1, 1e24, 0)
	return heavy, light
}

func solar() *Galaxy {
	planets, _, err := Generate(GenerateOptions{
		Planets: 3, StarMass: 1e13, StarRadius: 5,
		PlanetMass: 1e3, PlanetRadius: 1, InnerOrbit: 100, Spacing: 50, Seed: 1,
	})
	Expect(err).NotTo(HaveOccurred())
	g, err := New(planets, nil, Options{Trails: true, Seed: 9})
	Expect(err).NotTo(HaveOccurred())
	return g
}

var _ = Describe("Galaxy", func() {
	Describe("New", func() {
		It("rejects an empty planet list", func() {
			_, err := New(nil, nil, Options{})
			Expect(err).To(MatchError(ErrEmptyGalaxy))
		})

		It("rejects bodies without mass or radius", func() {
			_, err := New([]*Body{NewBody(vecmath.Vec3{}, vecmath.Vec3{}, 1, 0, 0)}, nil, Options{})
			Expect(err).To(MatchError(ErrInvalidBody))

			_, err = New([]*Body{NewBody(vecmath.Vec3{}, vecmath.Vec3{}, -1, 1, 0)}, nil, Options{})
			Expect(err).To(MatchError(ErrInvalidBody))
		})

		It("fills zero options with defaults", func() {
			heavy, light := twoBody()
			g, err := New([]*Body{heavy, light}, nil, Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Options().G).To(Equal(DefaultG))
			Expect(g.Options().Scale).To(Equal(1.0))
			Expect(g.Options().MinMultiplier).To(Equal(DefaultMinMultiplier))
			Expect(g.Options().MaxMultiplier).To(Equal(DefaultMaxMultiplier))
		})
	})

	Describe("Step", func() {
		It("pulls two bodies toward each other", func() {
			heavy, light := twoBody()
			g, err := New([]*Body{heavy, light}, nil, Options{})
			Expect(err).NotTo(HaveOccurred())

			g.Step(60, 1)

			Expect(heavy.Position.X).To(BeNumerically(">", 0))
			Expect(light.Position.X).To(BeNumerically("<", 1e11))
			Expect(heavy.Velocity.X).To(BeNumerically(">", 0))
			Expect(light.Velocity.X).To(BeNumerically("<", 0))
		})

		It("applies equal and opposite forces", func() {
			a := NewBody(vecmath.Vec3{}, vecmath.Vec3{}, 1, 1e10, 0)
			b := NewBody(vecmath.Vec3{X: 10}, vecmath.Vec3{}, 1, 3e10, 0)
			g, err := New([]*Body{a, b}, nil, Options{})
			Expect(err).NotTo(HaveOccurred())

			g.Step(60, 1)

			force := DefaultG * a.Mass * b.Mass / 100
			momentum := a.Velocity.Scale(a.Mass).Add(b.Velocity.Scale(b.Mass))
			Expect(a.Velocity.Scale(a.Mass).X).To(BeNumerically("~", force, force*1e-9))
			Expect(math.Abs(momentum.X)).To(BeNumerically("<", force*1e-6))
		})

		It("scales the pull with the gravity multiplier", func() {
			h1, l1 := twoBody()
			h2, l2 := twoBody()
			g1, _ := New([]*Body{h1, l1}, nil, Options{})
			g2, _ := New([]*Body{h2, l2}, nil, Options{Scale: 1e-5})

			g1.Step(60, 1)
			g2.Step(60, 1)

			Expect(h2.Velocity.X / h1.Velocity.X).To(BeNumerically("~", 1e-5, 1e-12))
		})

		It("skips coincident bodies", func() {
			a := NewBody(vecmath.Vec3{}, vecmath.Vec3{}, 1, 1e10, 0)
			b := NewBody(vecmath.Vec3{}, vecmath.Vec3{}, 1, 1e10, 0)
			g, err := New([]*Body{a, b}, nil, Options{})
			Expect(err).NotTo(HaveOccurred())

			g.Step(60, 1)

			Expect(a.Position.IsFinite()).To(BeTrue())
			Expect(a.Position).To(Equal(vecmath.Vec3{}))
		})

		It("pulls asteroids one way toward the first planet", func() {
			star := NewBody(vecmath.Vec3{}, vecmath.Vec3{}, 1, 1e12, 0)
			rock := NewBody(vecmath.Vec3{X: 10}, vecmath.Vec3{}, 0.1, 1e12, 0)
			g, err := New([]*Body{star}, []*Body{rock}, Options{})
			Expect(err).NotTo(HaveOccurred())

			g.Step(60, 1)

			Expect(star.Position).To(Equal(vecmath.Vec3{}))
			Expect(rock.Position.X).To(BeNumerically("<", 10))
		})

		It("does nothing for a non-positive rate", func() {
			heavy, light := twoBody()
			g, _ := New([]*Body{heavy, light}, nil, Options{})
			g.Step(0, 1)
			g.Step(60, 0)
			Expect(heavy.Position).To(Equal(vecmath.Vec3{}))
		})

		It("is bit-for-bit reproducible for a generated system", func() {
			build := func() *Galaxy {
				planets, asteroids, err := Generate(GenerateOptions{
					Planets: 3, Asteroids: 20, StarMass: 1e13, StarRadius: 5,
					PlanetMass: 1e3, PlanetRadius: 1, InnerOrbit: 100, Spacing: 50,
					BeltInner: 60, BeltOuter: 90, Seed: 4,
				})
				Expect(err).NotTo(HaveOccurred())
				g, err := New(planets, asteroids, Options{Seed: 4})
				Expect(err).NotTo(HaveOccurred())
				return g
			}
			a, b := build(), build()
			for i := 0; i < 300; i++ {
				a.Step(60, 2)
				b.Step(60, 2)
			}
			for i, body := range a.Bodies() {
				Expect(body.Position).To(Equal(b.Bodies()[i].Position))
				Expect(body.Velocity).To(Equal(b.Bodies()[i].Velocity))
			}
			for i, ast := range a.Asteroids() {
				Expect(ast.Position).To(Equal(b.Asteroids()[i].Position))
			}
			Expect(a.Asteroids()).To(HaveLen(20))
		})

		It("keeps a generated circular orbit near its radius", func() {
			g := solar()
			inner := g.Bodies()[1]
			r0 := inner.Position.Norm()
			for i := 0; i < 500; i++ {
				g.Step(60, 1)
			}
			Expect(vecmath.Dist(inner.Position, g.Bodies()[0].Position)).To(BeNumerically("~", r0, r0*0.05))
		})
	})

	Describe("farthest body", func() {
		It("tracks the largest initial origin through adds and removes", func() {
			g := solar()
			check := func() {
				var want *Body
				for _, b := range g.Bodies() {
					if want == nil || b.InitialOrigin.Norm() > want.InitialOrigin.Norm() {
						want = b
					}
				}
				Expect(g.Farthest()).To(BeIdenticalTo(want))
			}
			check()

			near := NewBody(vecmath.Vec3{X: 120}, vecmath.Vec3{}, 1, 1, 0)
			Expect(g.AddBody(near)).To(Succeed())
			check()

			for i := 0; i < 3; i++ {
				_, err := g.AddRandomBody()
				Expect(err).NotTo(HaveOccurred())
				check()
			}

			Expect(g.RemoveLast()).To(Succeed())
			check()
			Expect(g.RemoveAt(1)).To(Succeed())
			check()
		})

		It("scales a random body from the farthest within the multiplier range", func() {
			g := solar()
			ref := g.Farthest()
			b, err := g.AddRandomBody()
			Expect(err).NotTo(HaveOccurred())

			m := b.Mass / ref.Mass
			Expect(m).To(BeNumerically(">=", DefaultMinMultiplier))
			Expect(m).To(BeNumerically("<=", DefaultMaxMultiplier))
			Expect(b.Radius / ref.Radius).To(BeNumerically("~", m, 1e-9))
			Expect(b.InitialOrigin.Norm() / ref.InitialOrigin.Norm()).To(BeNumerically("~", m, 1e-9))
			Expect(g.Farthest()).To(BeIdenticalTo(b))
			Expect(b.Name).To(Equal("planet-4"))
		})

		It("is deterministic for a seed", func() {
			a, _ := solar().AddRandomBody()
			b, _ := solar().AddRandomBody()
			Expect(a.InitialOrigin).To(Equal(b.InitialOrigin))
		})
	})

	Describe("removal", func() {
		It("refuses to remove the last body", func() {
			g, err := New([]*Body{NewBody(vecmath.Vec3{}, vecmath.Vec3{}, 1, 1, 0)}, nil, Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(g.RemoveLast()).To(MatchError(ErrLastBody))
			Expect(g.Size()).To(Equal(1))
		})

		It("rejects an out of range index without mutating", func() {
			g := solar()
			Expect(g.RemoveAt(10)).To(MatchError(ErrIndexOutOfRange))
			Expect(g.RemoveAt(-1)).To(MatchError(ErrIndexOutOfRange))
			Expect(g.Size()).To(Equal(4))
		})

		It("rejects an invalid added body", func() {
			g := solar()
			Expect(g.AddBody(NewBody(vecmath.Vec3{X: 1}, vecmath.Vec3{}, 1, -5, 0))).To(MatchError(ErrInvalidBody))
			Expect(g.Size()).To(Equal(4))
		})
	})

	Describe("Reset", func() {
		It("restores initial positions and clears trails", func() {
			g := solar()
			start := g.Bodies()[2].Position
			for i := 0; i < 20; i++ {
				g.Step(60, 1)
				g.RecordTrails()
			}
			Expect(g.Bodies()[2].Position).NotTo(Equal(start))
			Expect(g.Bodies()[2].Trail).NotTo(BeEmpty())

			g.Reset()

			Expect(g.Bodies()[2].Position).To(Equal(start))
			Expect(g.Bodies()[2].Trail).To(BeEmpty())
		})
	})

	Describe("trails", func() {
		It("stops recording once the orbit closes", func() {
			g := solar()
			inner := g.Bodies()[1]
			period := 2 * math.Pi * inner.Position.Norm() / inner.Speed()
			for i := 0; i < int(2*period); i++ {
				g.Step(60, 1)
				g.RecordTrails()
			}
			Expect(inner.TrailDone()).To(BeTrue())
			Expect(len(inner.Trail)).To(BeNumerically("<", int(1.5*period)))
		})

		It("records nothing when disabled", func() {
			heavy, light := twoBody()
			g, _ := New([]*Body{heavy, light}, nil, Options{})
			g.Step(60, 1)
			g.RecordTrails()
			Expect(light.Trail).To(BeEmpty())
		})
	})

	Describe("energy", func() {
		It("stays close to its starting value on a circular orbit", func() {
			g := solar()
			e0 := g.TotalEnergy()
			for i := 0; i < 300; i++ {
				g.Step(60, 1)
			}
			Expect(math.Abs((g.TotalEnergy() - e0) / e0)).To(BeNumerically("<", 0.05))
		})
	})

	It("exposes a body as a collision sphere", func() {
		b := NewBody(vecmath.Vec3{Y: 2}, vecmath.Vec3{}, 0.5, 1, 0.2)
		s := b.Collider()
		Expect(s.Origin).To(Equal(b.Position))
		Expect(s.Radius).To(Equal(0.5))
		Expect(s.Friction).To(Equal(0.2))
	})

	It("clones independently", func() {
		g := solar()
		c := g.Clone(3)
		c.Step(60, 1)
		Expect(c.Bodies()[1].Position).NotTo(Equal(g.Bodies()[1].Position))
		Expect(c.Size()).To(Equal(g.Size()))
	})
})
