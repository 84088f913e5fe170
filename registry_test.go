package cpudispatch

import "testing"

func testCPUs() []CPUSpec {
	return []CPUSpec{
		{Name: "generic", ID: 0, Fallback: 0},
		{Name: "haswell", ID: 1, Fallback: 0, Baseline: fsWithBits(0, 1)},
	}
}

func testFeatureNames() []FeatureName {
	return []FeatureName{
		{Name: "sse4_1", Bit: 0},
		{Name: "avx2", Bit: 1},
	}
}

func TestFindCPUByID(t *testing.T) {
	cpus := testCPUs()
	spec, ok := FindCPUByID(cpus, 1)
	if !ok || spec.Name != "haswell" {
		t.Fatalf("FindCPUByID(1) = %+v, %v", spec, ok)
	}
	if _, ok := FindCPUByID(cpus, 99); ok {
		t.Fatal("FindCPUByID(99) should not be found")
	}
}

func TestFindCPUByName(t *testing.T) {
	cpus := testCPUs()
	spec, ok := FindCPUByName(cpus, "haswell")
	if !ok || spec.ID != 1 {
		t.Fatalf("FindCPUByName(haswell) = %+v, %v", spec, ok)
	}
	if _, ok := FindCPUByName(cpus, "doesnotexist"); ok {
		t.Fatal("FindCPUByName(doesnotexist) should not be found")
	}
}

func TestFindFeatureBit(t *testing.T) {
	names := testFeatureNames()
	if bit := FindFeatureBit(names, "avx2"); bit != 1 {
		t.Fatalf("FindFeatureBit(avx2) = %d, want 1", bit)
	}
	if bit := FindFeatureBit(names, "unknown"); bit != NoFeatureBit {
		t.Fatalf("FindFeatureBit(unknown) = %d, want NoFeatureBit", bit)
	}
}

func TestCPUBaseline(t *testing.T) {
	cpus := testCPUs()
	base := CPUBaseline(cpus, "haswell", 1)
	if !base.Test(0) || !base.Test(1) {
		t.Fatalf("haswell baseline missing expected bits: %v", base)
	}

	generic := CPUBaseline(cpus, "unknown-cpu", 1)
	if !generic.Empty() {
		t.Fatalf("unknown CPU name should yield an empty baseline, got %v", generic)
	}
}
