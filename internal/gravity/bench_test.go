package gravity

import "testing"

func BenchmarkGalaxyStep(b *testing.B) {
	planets, asteroids, err := Generate(GenerateOptions{
		Planets: 8, Asteroids: 200, StarMass: 1e13, StarRadius: 5,
		PlanetMass: 1e3, PlanetRadius: 1, InnerOrbit: 100, Spacing: 40,
		BeltInner: 300, BeltOuter: 360,
	})
	if err != nil {
		b.Fatal(err)
	}
	g, err := New(planets, asteroids, Options{})
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Step(60, 1)
	}
}
