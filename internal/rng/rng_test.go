package rng

import "testing"

func TestDeterministicReplay(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		if af, bf := a.Float64(), b.Float64(); af != bf {
			t.Fatalf("stream divergence at draw %d: %v != %v", i, af, bf)
		}
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := New(1)
	b := New(2)
	same := true
	for i := 0; i < 20; i++ {
		if a.Float64() != b.Float64() {
			same = false
			break
		}
	}
	if same {
		t.Fatal("expected streams seeded differently to diverge within 20 draws")
	}
}

func TestWeightedChoiceAllZeroReturnsNegOne(t *testing.T) {
	s := New(7)
	if idx := s.WeightedChoice([]float64{0, 0, 0}); idx != -1 {
		t.Fatalf("expected -1 for all-zero weights, got %d", idx)
	}
	if idx := s.WeightedChoice(nil); idx != -1 {
		t.Fatalf("expected -1 for empty weights, got %d", idx)
	}
}

func TestWeightedChoiceSingleNonZero(t *testing.T) {
	s := New(7)
	idx := s.WeightedChoice([]float64{0, 0, 5, 0})
	if idx != 2 {
		t.Fatalf("expected the only non-zero weight's index, got %d", idx)
	}
}

func TestWeightedChoiceDistribution(t *testing.T) {
	s := New(99)
	counts := make([]int, 3)
	for i := 0; i < 10000; i++ {
		idx := s.WeightedChoice([]float64{1, 2, 3})
		counts[idx]++
	}
	if counts[2] <= counts[0] {
		t.Fatalf("expected heavier weight to draw more often, got counts %v", counts)
	}
}

func TestShuffleIsDeterministic(t *testing.T) {
	a := []int{0, 1, 2, 3, 4, 5, 6, 7}
	b := make([]int, len(a))
	copy(b, a)

	New(5).Shuffle(len(a), func(i, j int) { a[i], a[j] = a[j], a[i] })
	New(5).Shuffle(len(b), func(i, j int) { b[i], b[j] = b[j], b[i] })

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("shuffle with identical seed diverged at index %d: %v vs %v", i, a, b)
		}
	}
}
