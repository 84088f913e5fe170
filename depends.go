package cpudispatch

// EnableDepends computes the transitive closure of enabling dependencies
// in place: to fixpoint, for each edge walked from last to first, if the
// edge's feature is in set and its dependency isn't, the dependency is
// added. Enabling a leaf feature therefore implies enabling every
// feature it ultimately depends on. EnableDepends only ever adds bits.
func EnableDepends(set FeatureSet, deps []FeatureDep) {
	for changed := true; changed; {
		changed = false
		for i := len(deps) - 1; i >= 0; i-- {
			d := deps[i]
			if !set.Test(d.Feature) || set.Test(d.Dep) {
				continue
			}
			set.Set(d.Dep)
			changed = true
		}
	}
}

// DisableDepends computes the transitive closure of disabling
// dependents in place, using the corrected reading of the dependency
// graph (see DESIGN.md): disabling a feature F cascades to disabling
// every feature G for which an edge (G, F) exists, i.e. G depends on F
// and can no longer be validly enabled once F is gone. To fixpoint, for
// each edge walked from last to first, if the edge's dependency is in
// set and its feature isn't, the feature is added.
func DisableDepends(set FeatureSet, deps []FeatureDep) {
	for changed := true; changed; {
		changed = false
		for i := len(deps) - 1; i >= 0; i-- {
			d := deps[i]
			if !set.Test(d.Dep) || set.Test(d.Feature) {
				continue
			}
			set.Set(d.Feature)
			changed = true
		}
	}
}
