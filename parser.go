package cpudispatch

import (
	"strconv"
	"strings"
)

// TargetData is one parsed entry of the ';'-separated target list
// produced by ParseTargets.
type TargetData struct {
	// Name is a CPU name, or "generic"/empty, treated as the
	// architecture baseline.
	Name string
	// ExtFeatures is a comma-separated list of unrecognized features,
	// each prefixed '+'/'-', passed verbatim to codegen.
	ExtFeatures string
	// EnFeatures, DisFeatures are the features explicitly enabled /
	// disabled by this target.
	EnFeatures, DisFeatures FeatureSet
	// EnFlags, DisFlags hold CloneAllFlag when clone_all / -clone_all
	// was requested.
	EnFlags, DisFlags uint32
	// Base is 0 for the default target, otherwise the 0-based index of
	// a previously declared target this one derives from.
	Base int
}

// FeatureLookup resolves a feature name to its bit index, returning
// NoFeatureBit if the name is unrecognized.
type FeatureLookup func(name string) uint32

// ParseTargets parses the -C target grammar:
//
//	TargetList := Target (';' Target)*
//	Target     := CPUName (',' Token)*
//	Token      := ('+'|'-'|ε) Identifier | 'clone_all' | '-clone_all' | 'base(' DecimalInteger ')'
//
// nwords is the architecture's FeatureSet word count; findBit resolves
// feature tokens via the architecture's registry. An empty option string
// (no -C target given at all) returns a nil slice with no error;
// anything else follows the grammar above, including its requirement
// that every target name a non-empty CPU.
func ParseTargets(option string, nwords int, findBit FeatureLookup) ([]TargetData, error) {
	if option == "" {
		return nil, nil
	}

	segments := strings.Split(option, ";")
	targets := make([]TargetData, 0, len(segments))

	for _, seg := range segments {
		tokens := strings.Split(seg, ",")
		if tokens[0] == "" {
			return nil, ErrEmptyCPUName
		}
		target := TargetData{
			Name:        tokens[0],
			EnFeatures:  NewFeatureSet(nwords),
			DisFeatures: NewFeatureSet(nwords),
		}
		for _, tok := range tokens[1:] {
			if err := applyTargetToken(&target, tok, len(targets), targets, findBit); err != nil {
				return nil, err
			}
		}
		targets = append(targets, target)
	}
	return targets, nil
}

func applyTargetToken(target *TargetData, tok string, selfIndex int, prior []TargetData, findBit FeatureLookup) error {
	disable := false
	name := tok
	switch {
	case strings.HasPrefix(tok, "-"):
		disable = true
		name = tok[1:]
	case strings.HasPrefix(tok, "+"):
		name = tok[1:]
	}

	switch {
	case name == "clone_all":
		if disable {
			target.DisFlags |= CloneAllFlag
			target.EnFlags &^= CloneAllFlag
		} else {
			target.EnFlags |= CloneAllFlag
			target.DisFlags &^= CloneAllFlag
		}
		return nil

	case strings.HasPrefix(name, "base(") && strings.HasSuffix(name, ")"):
		if disable {
			return NewParseError("ParseTargets", "disabled base index")
		}
		digits := name[len("base(") : len(name)-1]
		if digits == "" || !isAllDigits(digits) {
			return NewParseError("ParseTargets", "malformed base(...) clause")
		}
		base, err := strconv.Atoi(digits)
		if err != nil {
			return NewParseError("ParseTargets", "malformed base(...) clause")
		}
		if base >= selfIndex {
			return NewParseError("ParseTargets", "base index must refer to a previous target")
		}
		baseTarget := prior[base]
		if baseTarget.DisFlags&CloneAllFlag != 0 || baseTarget.EnFlags&CloneAllFlag == 0 {
			return NewParseError("ParseTargets", "base target must be clone_all")
		}
		target.Base = base
		return nil

	default:
		bit := findBit(name)
		if bit != NoFeatureBit {
			if disable {
				target.DisFeatures.Set(bit)
			} else {
				target.EnFeatures.Set(bit)
			}
			return nil
		}
		if target.ExtFeatures != "" {
			target.ExtFeatures += ","
		}
		if disable {
			target.ExtFeatures += "-" + name
		} else {
			target.ExtFeatures += "+" + name
		}
		return nil
	}
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
