package rand

import "testing"

func TestDeterministic(t *testing.T) {
	a, b := New(1234), New(1234)
	for i := 0; i < 1000; i++ {
		if x, y := a.Uint64(), b.Uint64(); x != y {
			t.Fatalf("%d: same seed gave %d and %d", i, x, y)
		}
	}
}

func TestRanges(t *testing.T) {
	r := New(99)
	for i := 0; i < 10000; i++ {
		if f := r.Float64(); f < 0 || f >= 1 {
			t.Fatalf("Float64 out of range: %v", f)
		}
		if f := r.Bipolar(); f < -1 || f >= 1 {
			t.Fatalf("Bipolar out of range: %v", f)
		}
	}
}

func TestBipolarIsCentered(t *testing.T) {
	r := New(7)
	sum := 0.0
	const n = 100000
	for i := 0; i < n; i++ {
		sum += r.Bipolar()
	}
	if mean := sum / n; mean < -0.02 || mean > 0.02 {
		t.Errorf("white noise mean too far from zero: %v", mean)
	}
}
