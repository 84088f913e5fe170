package sysimg

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/LynnColeArt/cpudispatch"
)

// pad4 returns n rounded up to the next multiple of 4.
func pad4(n int) int {
	return (n + 3) &^ 3
}

// EncodeTargetIDs serializes targets into the jl_dispatch_target_ids
// wire format: uint32 ntarget, then per target uint32 flags; uint32
// nfeature; uint32 en[nfeature]; uint32 dis[nfeature]; uint32 namelen;
// char name[namelen]; uint32 extlen; char ext[extlen]. Multi-byte
// integers are written host-endian.
func EncodeTargetIDs(targets []cpudispatch.TargetData) []byte {
	var buf []byte
	buf = appendU32(buf, uint32(len(targets)))
	for _, t := range targets {
		buf = appendU32(buf, t.EnFlags)
		nfeature := uint32(t.EnFeatures.NWords())
		buf = appendU32(buf, nfeature)
		for _, w := range t.EnFeatures.Words() {
			buf = appendU32(buf, w)
		}
		dis := t.DisFeatures.Words()
		for i := 0; i < int(nfeature); i++ {
			var w uint32
			if i < len(dis) {
				w = dis[i]
			}
			buf = appendU32(buf, w)
		}
		buf = appendU32(buf, uint32(len(t.Name)))
		buf = appendPadded(buf, t.Name)
		buf = appendU32(buf, uint32(len(t.ExtFeatures)))
		buf = appendPadded(buf, t.ExtFeatures)
	}
	return buf
}

// appendPadded appends s followed by zero bytes up to the next 4-byte
// word boundary, matching the alignment of the surrounding uint32
// fields.
func appendPadded(buf []byte, s string) []byte {
	buf = append(buf, s...)
	for i := len(s); i < pad4(len(s)); i++ {
		buf = append(buf, 0)
	}
	return buf
}

// DecodeTargetIDs parses the jl_dispatch_target_ids wire format back
// into TargetData values. DisFlags is not part of the wire format and
// always decodes to 0, so an encode/decode round trip does not preserve
// it. Base is always 0: base() relationships are a parser-time
// concept, not part of the serialized sysimg record.
func DecodeTargetIDs(data []byte) ([]cpudispatch.TargetData, error) {
	r := byteReader{data: data}

	ntarget, err := r.u32()
	if err != nil {
		return nil, err
	}
	targets := make([]cpudispatch.TargetData, ntarget)
	for i := range targets {
		flags, err := r.u32()
		if err != nil {
			return nil, err
		}
		nfeature, err := r.u32()
		if err != nil {
			return nil, err
		}
		en, err := r.u32s(int(nfeature))
		if err != nil {
			return nil, err
		}
		dis, err := r.u32s(int(nfeature))
		if err != nil {
			return nil, err
		}
		name, err := r.str()
		if err != nil {
			return nil, err
		}
		ext, err := r.str()
		if err != nil {
			return nil, err
		}
		targets[i] = cpudispatch.TargetData{
			Name:        name,
			ExtFeatures: ext,
			EnFeatures:  cpudispatch.FeatureSetFromWords(en),
			DisFeatures: cpudispatch.FeatureSetFromWords(dis),
			EnFlags:     flags,
		}
	}
	return targets, nil
}

// DecodeTargetIDsAt parses the jl_dispatch_target_ids wire format
// starting at a raw symbol address, where the total byte length is not
// known in advance. It trusts the embedded length prefixes the way the
// rest of this package trusts sysimg-provided offsets.
func DecodeTargetIDsAt(p unsafe.Pointer) ([]cpudispatch.TargetData, error) {
	r := ptrReader{pos: p}
	ntarget := r.u32()
	targets := make([]cpudispatch.TargetData, ntarget)
	for i := range targets {
		flags := r.u32()
		nfeature := r.u32()
		en := r.u32s(int(nfeature))
		dis := r.u32s(int(nfeature))
		name := r.str()
		ext := r.str()
		targets[i] = cpudispatch.TargetData{
			Name:        name,
			ExtFeatures: ext,
			EnFeatures:  cpudispatch.FeatureSetFromWords(en),
			DisFeatures: cpudispatch.FeatureSetFromWords(dis),
			EnFlags:     flags,
		}
	}
	return targets, nil
}

// ptrReader reads the target-id wire format directly out of foreign
// memory, advancing a raw cursor. Unlike byteReader there is no upper
// bound to check against; a malformed stream reads garbage rather than
// erroring, which matches this package's no-retry-on-corruption stance
// for data that is supposed to have been produced by a trusted build
// step.
type ptrReader struct {
	pos unsafe.Pointer
}

func (r *ptrReader) u32() uint32 {
	v := readU32(r.pos)
	r.pos = advance(r.pos, 1)
	return v
}

func (r *ptrReader) u32s(n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = r.u32()
	}
	return out
}

func (r *ptrReader) str() string {
	n := r.u32()
	var s string
	if n > 0 {
		s = string(unsafe.Slice((*byte)(r.pos), int(n)))
	}
	r.pos = unsafe.Pointer(uintptr(r.pos) + uintptr(pad4(int(n))))
	return s
}

func appendU32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.NativeEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

type byteReader struct {
	data []byte
	pos  int
}

func (r *byteReader) u32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("sysimg: target id stream truncated reading uint32 at offset %d", r.pos)
	}
	v := binary.NativeEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *byteReader) u32s(n int) ([]uint32, error) {
	out := make([]uint32, n)
	for i := range out {
		v, err := r.u32()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (r *byteReader) str() (string, error) {
	n, err := r.u32()
	if err != nil {
		return "", err
	}
	padded := pad4(int(n))
	if r.pos+padded > len(r.data) {
		return "", fmt.Errorf("sysimg: target id stream truncated reading %d-byte string at offset %d", n, r.pos)
	}
	s := string(r.data[r.pos : r.pos+int(n)])
	r.pos += padded
	return s, nil
}
