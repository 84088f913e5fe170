package cpudispatch

import (
	"math/rand"
	"testing"
)

func TestFeatureSetSetClearTest(t *testing.T) {
	s := NewFeatureSet(2)
	if s.Test(5) {
		t.Fatal("bit 5 should start unset")
	}
	s.Set(5)
	if !s.Test(5) {
		t.Fatal("bit 5 should be set")
	}
	s.Clear(5)
	if s.Test(5) {
		t.Fatal("bit 5 should be cleared")
	}

	// Sentinel is always a no-op and never reads as set.
	s.Set(NoFeatureBit)
	s.Clear(NoFeatureBit)
	if s.Test(NoFeatureBit) {
		t.Fatal("NoFeatureBit must never test as set")
	}
}

func TestFeatureSetAlgebra(t *testing.T) {
	a := NewFeatureSet(1)
	b := NewFeatureSet(1)
	a.Set(0)
	a.Set(1)
	b.Set(1)
	b.Set(2)

	or := a.Or(b)
	for _, bit := range []uint32{0, 1, 2} {
		if !or.Test(bit) {
			t.Errorf("Or: bit %d should be set", bit)
		}
	}

	and := a.And(b)
	if !and.Test(1) || and.Test(0) || and.Test(2) {
		t.Errorf("And: expected only bit 1 set, got %v", and.words)
	}

	not := a.Not()
	if not.Test(0) || not.Test(1) {
		t.Errorf("Not: bits 0 and 1 should be cleared")
	}
	if !not.Test(3) {
		t.Errorf("Not: bit 3 should be set")
	}
}

func TestFeatureSetSubsetCorrectness(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		a := NewFeatureSet(3)
		b := NewFeatureSet(3)
		for w := 0; w < 3; w++ {
			a.words[w] = rng.Uint32()
			b.words[w] = rng.Uint32()
		}
		want := true
		for w := 0; w < 3; w++ {
			if a.words[w]&^b.words[w] != 0 {
				want = false
				break
			}
		}
		if got := a.Subset(b); got != want {
			t.Fatalf("Subset mismatch: a=%v b=%v got=%v want=%v", a.words, b.words, got, want)
		}
	}
}

func TestFeatureSetPopCount(t *testing.T) {
	tests := []struct {
		name string
		bits []uint32
		want int
	}{
		{"empty", nil, 0},
		{"four bits", []uint32{0, 5, 31, 63}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewFeatureSet(2)
			for _, b := range tt.bits {
				s.Set(b)
			}
			if got := s.PopCount(); got != tt.want {
				t.Errorf("PopCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFeatureSetEmpty(t *testing.T) {
	s := NewFeatureSet(4)
	if !s.Empty() {
		t.Fatal("freshly created FeatureSet should be empty")
	}
	s.Set(100)
	if s.Empty() {
		t.Fatal("FeatureSet with a set bit should not be empty")
	}
}

func TestFeatureSetMismatchedWidthPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on mismatched FeatureSet width")
		}
	}()
	a := NewFeatureSet(1)
	b := NewFeatureSet(2)
	a.Or(b)
}
