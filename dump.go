package cpudispatch

import (
	"fmt"
	"io"
)

// DumpCPUSpec writes the resolved CPU name and an ordered list of
// enabled feature names to w, for diagnostic builds. It is the only
// logging this package does.
func DumpCPUSpec(w io.Writer, cpu CPUID, features FeatureSet, names []FeatureName, cpus []CPUSpec) {
	name := "generic"
	if spec, ok := FindCPUByID(cpus, cpu); ok {
		name = spec.Name
	}
	fmt.Fprintf(w, "CPU: %s\n", name)

	fmt.Fprint(w, "Features:")
	first := true
	for _, f := range names {
		if !features.Test(f.Bit) {
			continue
		}
		if first {
			fmt.Fprintf(w, " %s", f.Name)
			first = false
		} else {
			fmt.Fprintf(w, ", %s", f.Name)
		}
	}
	fmt.Fprint(w, "\n")
}
