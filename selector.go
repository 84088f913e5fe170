package cpudispatch

// CPUAliasResolver extends exact-name CPU matching with compiler-
// recognized aliases, standing in for an LLVM alias query when no such
// compiler is in the loop; a nil resolver behaves as identity (no
// additional aliases).
type CPUAliasResolver interface {
	// Resolve returns an alias for name and true if one exists.
	Resolve(name string) (alias string, ok bool)
}

// Mask composes a parsed target with the host:
// effective-enable = ((baseline(target.Name) | target.EnFeatures) &
// host) &^ target.DisFeatures, with the enable/disable dependency
// closures applied afterward and a final re-mask against the host.
// eligible reports whether every feature the target explicitly asked to
// enable survived masking against the host's feature set.
func Mask(target TargetData, cpus []CPUSpec, host FeatureSet, deps []FeatureDep) (effective FeatureSet, eligible bool) {
	baseline := CPUBaseline(cpus, target.Name, host.NWords())
	enabled := baseline.Or(target.EnFeatures).And(host).AndNot(target.DisFeatures)
	EnableDepends(enabled, deps)

	disabled := target.DisFeatures.Clone()
	DisableDepends(disabled, deps)

	enabled = enabled.And(host).AndNot(disabled)
	eligible = target.EnFeatures.Subset(host)
	return enabled, eligible
}

// Select picks, by index into candidates, the
// sysimg target best suited to a host described by jitMax (the
// host-derived max feature set) and hostName/hostCPU (the host's CPU
// identity). candidates' EnFeatures are assumed already fully resolved
// (as serialized into the sysimg, see sysimg.DecodeTargetIDs) rather
// than raw command-line deltas.
func Select(jitMax FeatureSet, hostCPU CPUID, hostName string, candidates []TargetData, reg Registry, alias CPUAliasResolver) (int, error) {
	type scored struct {
		index int
		data  TargetData
	}

	var eligible []scored
	for i, t := range candidates {
		if t.EnFeatures.Subset(jitMax) {
			eligible = append(eligible, scored{i, t})
		}
	}
	if len(eligible) == 0 {
		return -1, ErrNoEligibleTarget
	}

	names := []string{hostName}
	if alias != nil {
		if aliasName, ok := alias.Resolve(hostName); ok {
			names = append(names, aliasName)
		}
	}
	var nameMatched []scored
	for _, c := range eligible {
		for _, n := range names {
			if c.data.Name == n {
				nameMatched = append(nameMatched, c)
				break
			}
		}
	}
	if len(nameMatched) > 0 {
		eligible = nameMatched
	}

	maxClass := -1
	for _, c := range eligible {
		if cls := reg.RegisterClass(c.data.EnFeatures); cls > maxClass {
			maxClass = cls
		}
	}
	var classMatched []scored
	for _, c := range eligible {
		if reg.RegisterClass(c.data.EnFeatures) == maxClass {
			classMatched = append(classMatched, c)
		}
	}
	eligible = classMatched

	maxPop := -1
	for _, c := range eligible {
		if pc := c.data.EnFeatures.PopCount(); pc > maxPop {
			maxPop = pc
		}
	}
	var popMatched []scored
	for _, c := range eligible {
		if c.data.EnFeatures.PopCount() == maxPop {
			popMatched = append(popMatched, c)
		}
	}
	eligible = popMatched

	best := eligible[0]
	for _, c := range eligible[1:] {
		if c.index > best.index {
			best = c
		}
	}
	return best.index, nil
}
