package rng

import "testing"

func TestSeedRepeatsSequence(t *testing.T) {
	r := NewRNG(42)
	first := []float64{r.Float64(), r.Float64(), r.Float64()}
	r.Seed(42)
	for i, want := range first {
		if got := r.Float64(); got != want {
			t.Fatalf("draw %d: got %v want %v", i, got, want)
		}
	}
}

func TestRanges(t *testing.T) {
	r := NewRNG(7)
	for i := 0; i < 1000; i++ {
		if v := r.Float64(); v < 0 || v >= 1 {
			t.Fatalf("Float64 draw %d out of range: %v", i, v)
		}
		if v := r.IntN(5); v < 0 || v >= 5 {
			t.Fatalf("IntN draw %d out of range: %v", i, v)
		}
		if v := r.Jitter(10); v < -5 || v >= 5 {
			t.Fatalf("Jitter draw %d out of range: %v", i, v)
		}
	}
	if r.IntN(0) != 0 || r.IntN(-3) != 0 {
		t.Fatal("IntN with non-positive n must return 0")
	}
}
