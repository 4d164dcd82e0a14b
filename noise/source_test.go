package noise

import "testing"

func TestEval2DDeterministic(t *testing.T) {
	s := New(42, Params{Frequency: 0.05, Octaves: 4, Persistence: 0.5, Lacunarity: 2})
	a := s.Eval2D(12.5, -7.25)
	b := s.Eval2D(12.5, -7.25)
	if a != b {
		t.Fatalf("same (seed, x, z) must yield identical values: %v != %v", a, b)
	}
}

func TestEval2DDiffersBySeed(t *testing.T) {
	a := New(1, Params{Frequency: 0.05, Octaves: 3}).Eval2D(3, 3)
	b := New(2, Params{Frequency: 0.05, Octaves: 3}).Eval2D(3, 3)
	if a == b {
		t.Fatalf("different seeds should (almost always) produce different values")
	}
}

func TestEval2DBounded(t *testing.T) {
	s := New(7, Params{Frequency: 0.1, Octaves: 5, Persistence: 0.5, Lacunarity: 2})
	for x := 0.0; x < 50; x += 3.1 {
		for z := 0.0; z < 50; z += 4.3 {
			v := s.Eval2D(x, z)
			if v < -1.0001 || v > 1.0001 {
				t.Fatalf("Eval2D(%v,%v) = %v out of [-1,1]", x, z, v)
			}
		}
	}
}

func TestCloneIsIndependentAndEquivalent(t *testing.T) {
	s := New(99, Params{Frequency: 0.05, Octaves: 4})
	clone := s.Clone()
	if clone == s {
		t.Fatalf("clone must be a distinct value")
	}
	if s.Eval2D(5, 5) != clone.Eval2D(5, 5) {
		t.Fatalf("clone must reproduce identical samples")
	}
}

func TestEval3DDeterministic(t *testing.T) {
	s := New(5, Params{Frequency: 0.08, Octaves: 2})
	if s.Eval3D(1, 2, 3) != s.Eval3D(1, 2, 3) {
		t.Fatalf("Eval3D must be deterministic")
	}
}
