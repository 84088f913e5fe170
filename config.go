// Package cpudispatch configuration constants
package cpudispatch

import "github.com/xyproto/env/v2"

// CloneAllFlag is the only defined bit in TargetData.EnFlags/DisFlags.
// It requests that every function in the sysimg be cloned for a target,
// as opposed to a sparse override set layered atop a base target.
const CloneAllFlag uint32 = 1 << 0

// NoFeatureBit is the sentinel bit index meaning "no such feature".
// It is silently ignored by all FeatureSet operations.
const NoFeatureBit uint32 = ^uint32(0)

// bitsPerWord is the width of a single FeatureSet word.
const bitsPerWord = 32

// TargetEnvVar names the environment variable that supplies a target
// string when none is given on the command line; cpu-target-debug reads
// it only when its -target flag is empty.
const TargetEnvVar = "CPUDISPATCH_TARGET"

// TargetOverride returns the value of CPUDISPATCH_TARGET, or the empty
// string if it is unset.
func TargetOverride() string {
	return env.Str(TargetEnvVar, "")
}
