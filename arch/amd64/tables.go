// Package amd64 supplies the x86-64 Registry: the named-CPU table, the
// feature bit table, and the feature dependency edges that
// cpudispatch's parser and selector consult for this architecture.
package amd64

import "github.com/LynnColeArt/cpudispatch"

// NumFeatureWords is the x86-64 FeatureSet width. The features table
// below fits in one word; the other two are headroom, matching the generic_dispatch.h
// pattern of reserving bits for future extensions.
const NumFeatureWords = 3

// Feature bit indices. Ordering is append-only: bit positions are
// baked into compiled sysimgs and must never be renumbered.
const (
	BitSSE3 uint32 = iota
	BitSSSE3
	BitSSE41
	BitSSE42
	BitPOPCNT
	BitAVX
	BitFMA
	BitBMI1
	BitBMI2
	BitAVX2
	BitAVX512F
	BitAVX512DQ
	BitAVX512BW
	BitAVX512VL
	BitAVX512VNNI
	BitAVX512BF16
)

var featureTable = []cpudispatch.FeatureName{
	{Name: "sse3", Bit: BitSSE3},
	{Name: "ssse3", Bit: BitSSSE3},
	{Name: "sse4_1", Bit: BitSSE41},
	{Name: "sse4_2", Bit: BitSSE42},
	{Name: "popcnt", Bit: BitPOPCNT},
	{Name: "avx", Bit: BitAVX},
	{Name: "fma", Bit: BitFMA},
	{Name: "bmi", Bit: BitBMI1},
	{Name: "bmi2", Bit: BitBMI2},
	{Name: "avx2", Bit: BitAVX2},
	{Name: "avx512f", Bit: BitAVX512F},
	{Name: "avx512dq", Bit: BitAVX512DQ},
	{Name: "avx512bw", Bit: BitAVX512BW},
	{Name: "avx512vl", Bit: BitAVX512VL},
	{Name: "avx512vnni", Bit: BitAVX512VNNI},
	{Name: "avx512bf16", Bit: BitAVX512BF16, MinCompilerVersion: 12},
}

// depTable encodes the real instruction-set prerequisites: AVX2 needs
// AVX, the AVX-512 extensions need AVX512F, FMA needs AVX. Ordered so a
// last-to-first walk reaches a fixpoint in one pass for these short
// chains.
var depTable = []cpudispatch.FeatureDep{
	{Feature: BitFMA, Dep: BitAVX},
	{Feature: BitAVX2, Dep: BitAVX},
	{Feature: BitAVX512F, Dep: BitAVX2},
	{Feature: BitAVX512DQ, Dep: BitAVX512F},
	{Feature: BitAVX512BW, Dep: BitAVX512F},
	{Feature: BitAVX512VL, Dep: BitAVX512F},
	{Feature: BitAVX512VNNI, Dep: BitAVX512F},
	{Feature: BitAVX512BF16, Dep: BitAVX512VL},
}

func fs(bits ...uint32) cpudispatch.FeatureSet {
	out := cpudispatch.NewFeatureSet(NumFeatureWords)
	for _, b := range bits {
		out.Set(b)
	}
	return out
}

// cpuTable mirrors the microarchitecture ladder from generic up through
// the current server/client parts with AVX-512, each baseline being the
// union of everything the previous rung guaranteed.
var cpuTable = []cpudispatch.CPUSpec{
	{Name: "generic", ID: 0, Fallback: 0},
	{Name: "x86-64-v2", ID: 1, Fallback: 0, Baseline: fs(BitSSE3, BitSSSE3, BitSSE41, BitSSE42, BitPOPCNT)},
	{Name: "sandybridge", ID: 2, Fallback: 1, Baseline: fs(BitSSE3, BitSSSE3, BitSSE41, BitSSE42, BitPOPCNT, BitAVX)},
	{Name: "haswell", ID: 3, Fallback: 2, Baseline: fs(BitSSE3, BitSSSE3, BitSSE41, BitSSE42, BitPOPCNT, BitAVX, BitFMA, BitBMI1, BitBMI2, BitAVX2)},
	{Name: "skylake", ID: 4, Fallback: 3, Baseline: fs(BitSSE3, BitSSSE3, BitSSE41, BitSSE42, BitPOPCNT, BitAVX, BitFMA, BitBMI1, BitBMI2, BitAVX2)},
	{Name: "skylake-avx512", ID: 5, Fallback: 4, Baseline: fs(BitSSE3, BitSSSE3, BitSSE41, BitSSE42, BitPOPCNT, BitAVX, BitFMA, BitBMI1, BitBMI2, BitAVX2, BitAVX512F, BitAVX512DQ, BitAVX512BW, BitAVX512VL)},
	{Name: "icelake-server", ID: 6, Fallback: 5, Baseline: fs(BitSSE3, BitSSSE3, BitSSE41, BitSSE42, BitPOPCNT, BitAVX, BitFMA, BitBMI1, BitBMI2, BitAVX2, BitAVX512F, BitAVX512DQ, BitAVX512BW, BitAVX512VL, BitAVX512VNNI)},
}

// aliasTable stands in for the LLVM alias query the original consults;
// here it just folds common marketing/-march spellings onto the table
// above.
var aliasTable = map[string]string{
	"znver3":      "skylake-avx512",
	"cascadelake": "skylake-avx512",
	"cooperlake":  "icelake-server",
	"native":      "generic",
}

// AliasResolver implements cpudispatch.CPUAliasResolver over aliasTable.
type AliasResolver struct{}

func (AliasResolver) Resolve(name string) (string, bool) {
	alias, ok := aliasTable[name]
	return alias, ok
}
