package ratecontainer

import "testing"

func TestTree_SetAndTotal(t *testing.T) {
	tr := NewTree(5)
	for i, r := range []float64{1, 2, 3, 4, 5} {
		if err := tr.Set(i, r); err != nil {
			t.Fatalf("Set(%d) unexpected error: %v", i, err)
		}
	}
	if got, want := tr.Total(), 15.0; got != want {
		t.Fatalf("Total() = %v, want %v", got, want)
	}
	if err := tr.Set(2, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := tr.Total(), 22.0; got != want {
		t.Fatalf("Total() after update = %v, want %v", got, want)
	}
}

func TestTree_SetRejectsNegativeAndOutOfRange(t *testing.T) {
	tr := NewTree(3)
	if err := tr.Set(0, -1); err != ErrNegativeRate {
		t.Fatalf("Set(negative) err = %v, want ErrNegativeRate", err)
	}
	if err := tr.Set(10, 1); err != ErrIndexOutOfRange {
		t.Fatalf("Set(out of range) err = %v, want ErrIndexOutOfRange", err)
	}
}

func TestTree_PickProportional(t *testing.T) {
	tr := NewTree(3)
	tr.Set(0, 1)
	tr.Set(1, 2)
	tr.Set(2, 3)
	cases := []struct {
		u    float64
		want int
	}{
		{0, 0},
		{0.999, 0},
		{1, 1},
		{2.999, 1},
		{3, 2},
		{5.999, 2},
	}
	for _, c := range cases {
		got, err := tr.Pick(c.u)
		if err != nil {
			t.Fatalf("Pick(%v) unexpected error: %v", c.u, err)
		}
		if got != c.want {
			t.Fatalf("Pick(%v) = %d, want %d", c.u, got, c.want)
		}
	}
}

func TestTree_PickEmptyDistribution(t *testing.T) {
	tr := NewTree(4)
	if _, err := tr.Pick(0); err != ErrEmptyDistribution {
		t.Fatalf("Pick() on empty tree err = %v, want ErrEmptyDistribution", err)
	}
}

func TestTree_NonPowerOfTwoSize(t *testing.T) {
	tr := NewTree(3)
	if tr.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tr.Len())
	}
	tr.Set(0, 1)
	tr.Set(1, 1)
	tr.Set(2, 1)
	got, err := tr.Pick(2.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2 {
		t.Fatalf("Pick(2.5) = %d, want 2", got)
	}
}
