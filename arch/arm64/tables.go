// Package arm64 supplies the AArch64 Registry: named-CPU table,
// feature bits, and dependency edges for cpudispatch's parser and
// selector on this architecture.
package arm64

import "github.com/LynnColeArt/cpudispatch"

// NumFeatureWords is the AArch64 FeatureSet width.
const NumFeatureWords = 2

const (
	BitASIMD uint32 = iota
	BitFP
	BitCRC32
	BitFPHP
	BitASIMDHP
	BitSVE
	BitSVE2
	BitDOTPROD
	BitBF16
)

var featureTable = []cpudispatch.FeatureName{
	{Name: "neon", Bit: BitASIMD},
	{Name: "fp", Bit: BitFP},
	{Name: "crc", Bit: BitCRC32},
	{Name: "fp16", Bit: BitFPHP},
	{Name: "fp16fml", Bit: BitASIMDHP},
	{Name: "sve", Bit: BitSVE},
	{Name: "sve2", Bit: BitSVE2},
	{Name: "dotprod", Bit: BitDOTPROD},
	{Name: "bf16", Bit: BitBF16},
}

var depTable = []cpudispatch.FeatureDep{
	{Feature: BitASIMDHP, Dep: BitFPHP},
	{Feature: BitASIMDHP, Dep: BitASIMD},
	{Feature: BitSVE2, Dep: BitSVE},
	{Feature: BitBF16, Dep: BitSVE},
}

func fs(bits ...uint32) cpudispatch.FeatureSet {
	out := cpudispatch.NewFeatureSet(NumFeatureWords)
	for _, b := range bits {
		out.Set(b)
	}
	return out
}

var cpuTable = []cpudispatch.CPUSpec{
	{Name: "generic", ID: 0, Fallback: 0},
	{Name: "apple-m1", ID: 1, Fallback: 0, Baseline: fs(BitASIMD, BitFP, BitCRC32, BitFPHP, BitASIMDHP)},
	{Name: "neoverse-n1", ID: 2, Fallback: 0, Baseline: fs(BitASIMD, BitFP, BitCRC32)},
	{Name: "neoverse-v1", ID: 3, Fallback: 2, Baseline: fs(BitASIMD, BitFP, BitCRC32, BitSVE)},
	{Name: "neoverse-v2", ID: 4, Fallback: 3, Baseline: fs(BitASIMD, BitFP, BitCRC32, BitSVE, BitSVE2, BitBF16)},
}

var aliasTable = map[string]string{
	"graviton2": "neoverse-n1",
	"graviton3": "neoverse-v1",
	"native":    "generic",
}

// AliasResolver implements cpudispatch.CPUAliasResolver over aliasTable.
type AliasResolver struct{}

func (AliasResolver) Resolve(name string) (string, bool) {
	alias, ok := aliasTable[name]
	return alias, ok
}
