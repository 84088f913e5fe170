package amd64

import (
	"golang.org/x/sys/cpu"

	"github.com/LynnColeArt/cpudispatch"
)

// Registry is the x86-64 cpudispatch.Registry. The zero value is ready
// to use; all state is the package-level tables in tables.go.
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

// HostProbe reads golang.org/x/sys/cpu's one-time CPUID detection and
// maps it onto the bit table in tables.go, then picks the best-fitting named
// CPUSpec whose baseline the host's features satisfy.
func (r Registry) HostProbe() (cpudispatch.CPUID, cpudispatch.FeatureSet) {
	host := cpudispatch.NewFeatureSet(NumFeatureWords)
	set := func(bit uint32, present bool) {
		if present {
			host.Set(bit)
		}
	}
	set(BitSSE3, cpu.X86.HasSSE3)
	set(BitSSSE3, cpu.X86.HasSSSE3)
	set(BitSSE41, cpu.X86.HasSSE41)
	set(BitSSE42, cpu.X86.HasSSE42)
	set(BitPOPCNT, cpu.X86.HasPOPCNT)
	set(BitAVX, cpu.X86.HasAVX)
	set(BitFMA, cpu.X86.HasFMA)
	set(BitBMI1, cpu.X86.HasBMI1)
	set(BitBMI2, cpu.X86.HasBMI2)
	set(BitAVX2, cpu.X86.HasAVX2)
	set(BitAVX512F, cpu.X86.HasAVX512F)
	set(BitAVX512DQ, cpu.X86.HasAVX512DQ)
	set(BitAVX512BW, cpu.X86.HasAVX512BW)
	set(BitAVX512VL, cpu.X86.HasAVX512VL)
	set(BitAVX512VNNI, cpu.X86.HasAVX512VNNI)

	id := cpudispatch.CPUID(0)
	for _, spec := range cpuTable {
		if spec.Baseline.Subset(host) && spec.ID >= id {
			id = spec.ID
		}
	}
	return id, host
}

// RegisterClass ranks by the widest vector ISA family the set enables:
// AVX-512 > AVX2 > AVX > SSE > scalar.
func (Registry) RegisterClass(fs cpudispatch.FeatureSet) int {
	switch {
	case fs.Test(BitAVX512F):
		return 4
	case fs.Test(BitAVX2):
		return 3
	case fs.Test(BitAVX):
		return 2
	case fs.Test(BitSSE41) || fs.Test(BitSSE42):
		return 1
	default:
		return 0
	}
}
