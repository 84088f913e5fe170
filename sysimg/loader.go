package sysimg

import (
	"fmt"
	"unsafe"

	"github.com/LynnColeArt/cpudispatch"
)

// FnPtrs is the result of Load: the base addresses and offset tables a
// caller's JIT needs to resolve the chosen target's pre-compiled
// functions. It is created once at startup and is immutable thereafter.
type FnPtrs struct {
	TextBase        uintptr // fvars_base: text section anchor
	RelocBase       uintptr // gvars_base: data section anchor
	DefaultOffsets  []int32
	OverrideOffsets []int32
	OverrideIndices []uint32
	OverrideCount   uint32
}

// TargetSelector discovers the chosen target index k from the raw bytes
// of jl_dispatch_target_ids. This is the integration seam described in
// the design: the caller re-parses the embedded target descriptions
// (DecodeTargetIDsAt) and runs cpudispatch.Select against them.
type TargetSelector func(ids unsafe.Pointer) (uint32, error)

// DefaultTargetSelector builds a TargetSelector that decodes the
// embedded target list with DecodeTargetIDsAt and runs
// cpudispatch.Select against it using the supplied host description.
func DefaultTargetSelector(jitMax cpudispatch.FeatureSet, hostCPU cpudispatch.CPUID, hostName string, reg cpudispatch.Registry, alias cpudispatch.CPUAliasResolver) TargetSelector {
	return func(ids unsafe.Pointer) (uint32, error) {
		targets, err := DecodeTargetIDsAt(ids)
		if err != nil {
			return 0, err
		}
		idx, err := cpudispatch.Select(jitMax, hostCPU, hostName, targets, reg, alias)
		if err != nil {
			return 0, err
		}
		return uint32(idx), nil
	}
}

// fvarsWalker steps through the paired dispatch_fvars_idxs /
// dispatch_fvars_offsets streams one target at a time. Encapsulating
// the cursor arithmetic here keeps the tag/length bit-trick (the high
// bit of each header word flags CLONE_ALL) in one place.
type fvarsWalker struct {
	idxs    unsafe.Pointer
	offsets unsafe.Pointer
	nfunc   uint32
	header  uint32 // tag/length word for the target about to be visited
}

func newFvarsWalker(idxsBase, offsetsBase unsafe.Pointer, nfunc uint32) *fvarsWalker {
	return &fvarsWalker{
		idxs:    advance(idxsBase, 1),
		offsets: offsetsBase,
		nfunc:   nfunc,
		header:  readU32(idxsBase),
	}
}

// visit returns the current target's header info and the pointers to
// its index list and offsets block, then advances state so the next
// call to visit describes the following target. targetIndex is this
// target's 0-based position, needed because CLONE_ALL targets other
// than index 0 store a full nfunc-sized offsets block.
func (w *fvarsWalker) visit(targetIndex uint32) (cloneAll bool, length uint32, idxPtr, offPtr unsafe.Pointer) {
	tagLen := w.header
	cloneAll = tagLen&cloneAllTag != 0
	length = tagLen & lenMask
	idxPtr = w.idxs
	offPtr = w.offsets

	if cloneAll {
		if targetIndex != 0 {
			w.offsets = advance(w.offsets, int(w.nfunc))
		}
		w.idxs = advance(w.idxs, int(length)+1)
	} else {
		w.offsets = advance(w.offsets, int(length))
		w.idxs = advance(w.idxs, int(length)+2)
	}
	w.header = readU32(advance(w.idxs, -1))
	return cloneAll, length, idxPtr, offPtr
}

// Load resolves the seven sysimg dispatch symbols via res, uses
// selectTarget to discover which target index the caller wants, walks
// the dispatch_fvars_idxs/offsets streams up to that index, and
// performs the GOT-slot relocation pass into the data section reached
// through gvars_base. Any missing symbol or missing GOT entry is
// reported as a corruption error; there is no retry.
func Load(res Resolver, selectTarget TargetSelector) (FnPtrs, error) {
	gvarsBase, err := symbol(res, SymGvarsBase)
	if err != nil {
		return FnPtrs{}, err
	}
	fvarsBase, err := symbol(res, SymFvarsBase)
	if err != nil {
		return FnPtrs{}, err
	}
	fvarsOffsetsRaw, err := symbol(res, SymFvarsOffsets)
	if err != nil {
		return FnPtrs{}, err
	}
	nfunc := readU32(fvarsOffsetsRaw)
	defaultOffsets := i32Slice(advance(fvarsOffsetsRaw, 1), int(nfunc))

	idsPtr, err := symbol(res, SymDispatchTargetIDs)
	if err != nil {
		return FnPtrs{}, err
	}
	targetIdx, err := selectTarget(idsPtr)
	if err != nil {
		return FnPtrs{}, err
	}

	relocRaw, err := symbol(res, SymDispatchRelocSlots)
	if err != nil {
		return FnPtrs{}, err
	}
	nreloc := readU32(relocRaw)
	relocSlots := advance(relocRaw, 1)

	idxsRaw, err := symbol(res, SymDispatchFvarsIdxs)
	if err != nil {
		return FnPtrs{}, err
	}
	offsRaw, err := symbol(res, SymDispatchFvarsOffs)
	if err != nil {
		return FnPtrs{}, err
	}

	walker := newFvarsWalker(idxsRaw, offsRaw, nfunc)
	baseOffsets := map[uint32][]int32{0: defaultOffsets}
	var cloneAll bool
	var length uint32
	var idxPtr, offPtr unsafe.Pointer
	for i := uint32(0); i <= targetIdx; i++ {
		cloneAll, length, idxPtr, offPtr = walker.visit(i)
		// Target 0's clone, if any, is the default offsets array already
		// seeded above; the stream never stores a redundant copy of it.
		if cloneAll && i != 0 {
			baseOffsets[i] = i32Slice(offPtr, int(nfunc))
		}
	}

	result := FnPtrs{
		TextBase:       uintptr(fvarsBase),
		RelocBase:      uintptr(gvarsBase),
		DefaultOffsets: defaultOffsets,
	}

	var overrideIdxs []uint32
	if cloneAll {
		result.DefaultOffsets = baseOffsets[targetIdx]
		overrideIdxs = u32Slice(idxPtr, int(length))
		result.OverrideIndices = overrideIdxs
		result.OverrideCount = length
	} else {
		baseIdx := readU32(idxPtr)
		if baseIdx >= targetIdx {
			return FnPtrs{}, cpudispatch.NewCorruptionError("sysimg.Load",
				fmt.Sprintf("base target index %d must precede target %d", baseIdx, targetIdx), nil)
		}
		base, ok := baseOffsets[baseIdx]
		if !ok {
			return FnPtrs{}, cpudispatch.NewCorruptionError("sysimg.Load",
				fmt.Sprintf("base target %d was not recorded as clone_all", baseIdx), nil)
		}
		result.DefaultOffsets = base
		overrideIdxs = u32Slice(advance(idxPtr, 1), int(length))
		overrideOffsets := i32Slice(offPtr, int(length))
		result.OverrideIndices = overrideIdxs
		result.OverrideOffsets = overrideOffsets
		result.OverrideCount = length
	}

	if err := relocate(gvarsBase, result, relocSlots, nreloc, cloneAll, length, overrideIdxs); err != nil {
		return FnPtrs{}, err
	}
	return result, nil
}

// relocate writes text_base+code_offset into the GOT slot for every
// overridden function of the chosen target.
func relocate(gvarsBase unsafe.Pointer, fp FnPtrs, relocSlots unsafe.Pointer, nreloc uint32, cloneAll bool, length uint32, overrideIdxs []uint32) error {
	relocCursor := uint32(0)
	for i := uint32(0); i < length; i++ {
		var idx uint32
		var offset int32
		if cloneAll {
			idx = overrideIdxs[i]
			offset = fp.DefaultOffsets[idx]
		} else {
			raw := overrideIdxs[i]
			if raw&cloneAllTag == 0 {
				continue // not overridden by this sparse target
			}
			idx = raw &^ cloneAllTag
			offset = fp.OverrideOffsets[i]
		}

		found := false
		for ; relocCursor < nreloc; relocCursor++ {
			slot := advance(relocSlots, int(relocCursor)*2)
			relocIdx := readU32(slot)
			if relocIdx == idx {
				found = true
				dataOffset := readI32(advance(slot, 1))
				slotAddr := unsafe.Pointer(uintptr(gvarsBase) + uintptr(dataOffset))
				*(*uintptr)(slotAddr) = fp.TextBase + uintptr(offset)
				break
			} else if relocIdx > idx {
				break
			}
		}
		if !found {
			return cpudispatch.NewCorruptionError("sysimg.Load",
				fmt.Sprintf("no GOT entry for cloned function %d", idx), nil)
		}
	}
	return nil
}

func symbol(res Resolver, name string) (unsafe.Pointer, error) {
	p, err := res.Symbol(name)
	if err != nil {
		return nil, cpudispatch.NewCorruptionError("sysimg.Load", "missing symbol "+name, err)
	}
	return p, nil
}
