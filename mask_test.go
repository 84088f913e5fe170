package cpudispatch

import "testing"

func TestMaskComposesBaselineAndHost(t *testing.T) {
	cpus := []CPUSpec{
		{Name: "haswell", ID: 1, Baseline: fsWithBits(0)}, // sse baseline
	}
	target := TargetData{
		Name:        "haswell",
		EnFeatures:  fsWithBits(1), // explicitly enable avx2
		DisFeatures: NewFeatureSet(1),
	}
	host := fsWithBits(0, 1, 2)

	effective, eligible := Mask(target, cpus, host, nil)
	if !eligible {
		t.Fatal("target should be eligible: host has every explicitly-enabled bit")
	}
	if !effective.Test(0) || !effective.Test(1) {
		t.Errorf("expected baseline bit 0 and explicit bit 1 set, got %v", effective)
	}
	if effective.Test(2) {
		t.Error("bit 2 was never requested and should not appear")
	}
}

func TestMaskIneligibleWhenHostLacksRequestedFeature(t *testing.T) {
	target := TargetData{
		Name:        "generic",
		EnFeatures:  fsWithBits(5), // host doesn't have this
		DisFeatures: NewFeatureSet(1),
	}
	host := fsWithBits(0, 1)

	_, eligible := Mask(target, nil, host, nil)
	if eligible {
		t.Fatal("target requiring a feature absent from the host should be ineligible")
	}
}

func TestMaskExplicitDisableWins(t *testing.T) {
	target := TargetData{
		Name:        "generic",
		EnFeatures:  fsWithBits(0),
		DisFeatures: fsWithBits(0),
	}
	host := fsWithBits(0)

	effective, _ := Mask(target, nil, host, nil)
	if effective.Test(0) {
		t.Fatal("a feature both enabled and disabled must resolve to disabled")
	}
}
