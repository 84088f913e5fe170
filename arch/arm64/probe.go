package arm64

import (
	"golang.org/x/sys/cpu"

	"github.com/LynnColeArt/cpudispatch"
)

// Registry is the AArch64 cpudispatch.Registry.
type Registry struct{}

func (Registry) NumFeatureWords() int { return NumFeatureWords }

func (Registry) CPUs() []cpudispatch.CPUSpec { return cpuTable }

func (Registry) Features() []cpudispatch.FeatureName { return featureTable }

func (Registry) Deps() []cpudispatch.FeatureDep { return depTable }

func (Registry) FindCPUByID(id cpudispatch.CPUID) (cpudispatch.CPUSpec, bool) {
	return cpudispatch.FindCPUByID(cpuTable, id)
}

func (Registry) FindCPUByName(name string) (cpudispatch.CPUSpec, bool) {
	return cpudispatch.FindCPUByName(cpuTable, name)
}

func (Registry) FindFeatureBit(name string) uint32 {
	return cpudispatch.FindFeatureBit(featureTable, name)
}

func (r Registry) HostProbe() (cpudispatch.CPUID, cpudispatch.FeatureSet) {
	host := cpudispatch.NewFeatureSet(NumFeatureWords)
	set := func(bit uint32, present bool) {
		if present {
			host.Set(bit)
		}
	}
	set(BitASIMD, cpu.ARM64.HasASIMD)
	set(BitFP, cpu.ARM64.HasFP)
	set(BitCRC32, cpu.ARM64.HasCRC32)
	set(BitFPHP, cpu.ARM64.HasFPHP)
	set(BitASIMDHP, cpu.ARM64.HasASIMDHP)
	set(BitSVE, cpu.ARM64.HasSVE)
	set(BitDOTPROD, cpu.ARM64.HasASIMDDP)

	id := cpudispatch.CPUID(0)
	for _, spec := range cpuTable {
		if spec.Baseline.Subset(host) && spec.ID >= id {
			id = spec.ID
		}
	}
	return id, host
}

// RegisterClass ranks by the widest vector ISA family: SVE2 > SVE >
// NEON/ASIMD > scalar.
func (Registry) RegisterClass(fs cpudispatch.FeatureSet) int {
	switch {
	case fs.Test(BitSVE2):
		return 3
	case fs.Test(BitSVE):
		return 2
	case fs.Test(BitASIMD):
		return 1
	default:
		return 0
	}
}
