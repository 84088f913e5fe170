// Copyright ©2024 The GUDA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command cpu-target-debug parses a -C target option string, probes
// the host CPU, and prints which of the requested targets would be
// selected and what feature set it would run with. It is the
// command-line face of the parse+select half of cpudispatch; it has no
// sysimg to load and so stops short of relocation.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/LynnColeArt/cpudispatch"
	"github.com/LynnColeArt/cpudispatch/arch/amd64"
	"github.com/LynnColeArt/cpudispatch/arch/arm64"
	"github.com/LynnColeArt/cpudispatch/arch/fallback"
)

func registryFor(goarch string) cpudispatch.Registry {
	switch goarch {
	case "amd64":
		return amd64.Registry{}
	case "arm64":
		return arm64.Registry{}
	default:
		return fallback.Registry{}
	}
}

func aliasResolverFor(goarch string) cpudispatch.CPUAliasResolver {
	switch goarch {
	case "amd64":
		return amd64.AliasResolver{}
	case "arm64":
		return arm64.AliasResolver{}
	default:
		return nil
	}
}

func main() {
	var (
		target = flag.String("target", "", "-C target option string, e.g. \"generic;haswell,base(0)\" (falls back to "+cpudispatch.TargetEnvVar+")")
		arch   = flag.String("arch", runtime.GOARCH, "architecture to evaluate against (amd64, arm64, or anything else for the trivial fallback)")
	)
	flag.Parse()

	option := *target
	if option == "" {
		option = cpudispatch.TargetOverride()
	}

	reg := registryFor(*arch)
	alias := aliasResolverFor(*arch)

	targets, err := cpudispatch.ParseTargets(option, reg.NumFeatureWords(), reg.FindFeatureBit)
	if err != nil {
		log.Fatalf("parsing target option %q: %v", option, err)
	}
	if len(targets) == 0 {
		targets = []cpudispatch.TargetData{{Name: "generic", EnFeatures: cpudispatch.NewFeatureSet(reg.NumFeatureWords()), DisFeatures: cpudispatch.NewFeatureSet(reg.NumFeatureWords())}}
	}

	hostCPU, hostFeatures := reg.HostProbe()
	hostName := "generic"
	if spec, ok := reg.FindCPUByID(hostCPU); ok {
		hostName = spec.Name
	}

	resolved := make([]cpudispatch.TargetData, 0, len(targets))
	positions := make([]int, 0, len(targets))
	for i, t := range targets {
		effective, eligible := cpudispatch.Mask(t, reg.CPUs(), hostFeatures, reg.Deps())
		if !eligible {
			fmt.Fprintf(os.Stderr, "target %q: requested feature not available on host, excluding from selection\n", t.Name)
			continue
		}
		t.EnFeatures = effective
		resolved = append(resolved, t)
		positions = append(positions, i)
	}

	idx, err := cpudispatch.Select(hostFeatures, hostCPU, hostName, resolved, reg, alias)
	if err != nil {
		log.Fatalf("selecting a sysimg target: %v", err)
	}

	fmt.Printf("host CPU: %s\n", hostName)
	cpudispatch.DumpCPUSpec(os.Stdout, hostCPU, hostFeatures, reg.Features(), reg.CPUs())
	fmt.Printf("selected target %d: %q\n", positions[idx], resolved[idx].Name)
	cpudispatch.DumpCPUSpec(os.Stdout, hostCPU, resolved[idx].EnFeatures, reg.Features(), reg.CPUs())
}
