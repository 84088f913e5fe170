// Package fallback is the trivial Registry for architectures outside
// x86-64 and AArch64: a single "generic" target and no feature bits to
// multiversion over. HostProbe always reports the zero CPUID with an
// empty FeatureSet, so Select degenerates to "pick the one target."
package fallback

import "github.com/LynnColeArt/cpudispatch"

const NumFeatureWords = 1

var cpuTable = []cpudispatch.CPUSpec{
	{Name: "generic", ID: 0, Fallback: 0},
}

// Registry is the zero-capability cpudispatch.Registry used on
// architectures cpudispatch does not multiversion for.
type Registry struct{}

func (Registry) NumFeatureWords() int { return NumFeatureWords }

func (Registry) CPUs() []cpudispatch.CPUSpec { return cpuTable }

func (Registry) Features() []cpudispatch.FeatureName { return nil }

func (Registry) Deps() []cpudispatch.FeatureDep { return nil }

func (Registry) FindCPUByID(id cpudispatch.CPUID) (cpudispatch.CPUSpec, bool) {
	return cpudispatch.FindCPUByID(cpuTable, id)
}

func (Registry) FindCPUByName(name string) (cpudispatch.CPUSpec, bool) {
	return cpudispatch.FindCPUByName(cpuTable, name)
}

func (Registry) FindFeatureBit(string) uint32 {
	return cpudispatch.NoFeatureBit
}

func (Registry) HostProbe() (cpudispatch.CPUID, cpudispatch.FeatureSet) {
	return 0, cpudispatch.NewFeatureSet(NumFeatureWords)
}

func (Registry) RegisterClass(cpudispatch.FeatureSet) int {
	return 0
}
