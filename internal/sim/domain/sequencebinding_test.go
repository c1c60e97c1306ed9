package domain

import "testing"

func TestSequenceBinding_RateAndApply(t *testing.T) {
	s := newFakeState()
	s.free[1] = 5 // free chemical
	s.familyW[10] = 3.5
	s.pickSite[10] = 100
	s.sites[100] = SiteInterval{SequenceID: 7, First: 0, Last: 9, Width: 3, Frame: 0}
	s.freeOff[100] = 2

	b := &SequenceBinding{FreeID: 1, BoundID: 2, FamilyID: 10, RateConstant: 2}
	if got, want := b.Rate(s), 2*5*3.5; got != want {
		t.Fatalf("Rate() = %v, want %v", got, want)
	}

	applied, err := b.Apply(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !applied {
		t.Fatal("expected applied=true")
	}
	if s.free[1] != 4 {
		t.Fatalf("free[1] = %d, want 4", s.free[1])
	}
	if len(s.bound[2]) != 1 {
		t.Fatalf("expected one bound unit, got %d", len(s.bound[2]))
	}
	got := s.bound[2][0]
	want := BoundUnit{SequenceID: 7, Position: 2, Frame: 0}
	if got != want {
		t.Fatalf("bound unit = %+v, want %+v", got, want)
	}
	if !s.occupied[[3]int{7, 2, 4}] {
		t.Fatal("expected occupancy [2,4] on sequence 7")
	}
}

func TestSequenceBinding_NoOpWhenRateZero(t *testing.T) {
	s := newFakeState()
	s.free[1] = 0
	b := &SequenceBinding{FreeID: 1, BoundID: 2, FamilyID: 10, RateConstant: 2}
	applied, err := b.Apply(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied {
		t.Fatal("expected applied=false when rate is zero")
	}
}

func TestSequenceBinding_ReactantsProducts(t *testing.T) {
	b := &SequenceBinding{FreeID: 1, BoundID: 2, FamilyID: 10}
	if got := b.Reactants(); len(got) != 2 || got[0] != 1 || got[1] != 10 {
		t.Fatalf("Reactants() = %v, want [1 10]", got)
	}
	if got := b.Products(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("Products() = %v", got)
	}
}
