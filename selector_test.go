package cpudispatch

import "testing"

// fakeRegistry implements just enough of Registry for selector tests:
// RegisterClass ranks bit 2 (avx512) above bit 1 (avx2/avx) above bit 0
// (sse), mirroring AVX512 > AVX2/AVX > SSE on x86.
type fakeRegistry struct{}

func (fakeRegistry) NumFeatureWords() int                { return 1 }
func (fakeRegistry) CPUs() []CPUSpec                      { return nil }
func (fakeRegistry) Features() []FeatureName              { return nil }
func (fakeRegistry) Deps() []FeatureDep                   { return nil }
func (fakeRegistry) FindCPUByID(CPUID) (CPUSpec, bool)    { return CPUSpec{}, false }
func (fakeRegistry) FindCPUByName(string) (CPUSpec, bool) { return CPUSpec{}, false }
func (fakeRegistry) FindFeatureBit(string) uint32         { return NoFeatureBit }
func (fakeRegistry) HostProbe() (CPUID, FeatureSet)       { return 0, NewFeatureSet(1) }

func (fakeRegistry) RegisterClass(fs FeatureSet) int {
	switch {
	case fs.Test(2):
		return 2
	case fs.Test(1):
		return 1
	case fs.Test(0):
		return 0
	default:
		return -1
	}
}

func fsWithBits(bits ...uint32) FeatureSet {
	s := NewFeatureSet(1)
	for _, b := range bits {
		s.Set(b)
	}
	return s
}

func TestSelectRegisterClassDominance(t *testing.T) {
	candidates := []TargetData{
		{Name: "generic", EnFeatures: fsWithBits(0, 3, 4)},
		{Name: "avx", EnFeatures: fsWithBits(1)},
		{Name: "avx512", EnFeatures: fsWithBits(2)},
	}
	jitMax := fsWithBits(0, 1, 2, 3, 4)

	idx, err := Select(jitMax, 0, "host", candidates, fakeRegistry{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 2 {
		t.Fatalf("expected index 2 (avx512), got %d", idx)
	}
}

func TestSelectDeterministic(t *testing.T) {
	candidates := []TargetData{
		{Name: "generic", EnFeatures: fsWithBits(0)},
		{Name: "haswell", EnFeatures: fsWithBits(1)},
	}
	jitMax := fsWithBits(0, 1)

	first, err := Select(jitMax, 0, "haswell", candidates, fakeRegistry{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		got, err := Select(jitMax, 0, "haswell", candidates, fakeRegistry{}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != first {
			t.Fatalf("selection not deterministic: first=%d got=%d", first, got)
		}
	}
}

func TestSelectNoEligibleTarget(t *testing.T) {
	candidates := []TargetData{
		{Name: "avx512", EnFeatures: fsWithBits(2)},
	}
	jitMax := fsWithBits(0)

	_, err := Select(jitMax, 0, "host", candidates, fakeRegistry{}, nil)
	if !IsSelectionError(err) {
		t.Fatalf("expected selection error, got %v", err)
	}
}

func TestSelectExactNameRestriction(t *testing.T) {
	candidates := []TargetData{
		{Name: "generic", EnFeatures: fsWithBits(1)},
		{Name: "haswell", EnFeatures: fsWithBits(0)},
	}
	jitMax := fsWithBits(0, 1)

	idx, err := Select(jitMax, 0, "haswell", candidates, fakeRegistry{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 1 {
		t.Fatalf("expected exact name match to win (index 1), got %d", idx)
	}
}

func TestSelectDeclarationOrderTieBreak(t *testing.T) {
	candidates := []TargetData{
		{Name: "a", EnFeatures: fsWithBits(0)},
		{Name: "b", EnFeatures: fsWithBits(0)},
	}
	jitMax := fsWithBits(0)

	idx, err := Select(jitMax, 0, "host", candidates, fakeRegistry{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 1 {
		t.Fatalf("expected the later declared target to win (index 1), got %d", idx)
	}
}

type testAliasResolver struct {
	from, to string
}

func (r testAliasResolver) Resolve(name string) (string, bool) {
	if name == r.from {
		return r.to, true
	}
	return "", false
}

func TestSelectAliasResolver(t *testing.T) {
	candidates := []TargetData{
		{Name: "generic", EnFeatures: fsWithBits(1)},
		{Name: "znver4", EnFeatures: fsWithBits(0)},
	}
	jitMax := fsWithBits(0, 1)

	idx, err := Select(jitMax, 0, "ryzen-9", candidates, fakeRegistry{}, testAliasResolver{from: "ryzen-9", to: "znver4"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 1 {
		t.Fatalf("expected alias-resolved exact match to win (index 1), got %d", idx)
	}
}
