package imagetable

import (
	"fmt"
	"strconv"
	"strings"
)

type sourceKind uint8

const (
	sourceBlank sourceKind = iota
	sourceFile
	sourceBase
	sourceCSG
	sourceObject
	sourceArchive
)

const (
	prefixBase    = "$G1"
	prefixCSG     = "$CSG"
	prefixObject  = "$RCT2:OBJDATA/"
	prefixArchive = "$LGX:"
)

// sourceRef is a parsed source string.
type sourceRef struct {
	kind sourceKind
	name string

	// indices is nil when the reference selects every image.
	indices []int
}

func parseSource(s string) (sourceRef, error) {
	var ref sourceRef
	rest := s
	switch {
	case s == "":
		return sourceRef{kind: sourceBlank}, nil
	case strings.HasPrefix(s, prefixObject):
		ref.kind, rest = sourceObject, s[len(prefixObject):]
	case strings.HasPrefix(s, prefixArchive):
		ref.kind, rest = sourceArchive, s[len(prefixArchive):]
	case strings.HasPrefix(s, prefixCSG):
		ref.kind, rest = sourceCSG, s[len(prefixCSG):]
	case strings.HasPrefix(s, prefixBase):
		ref.kind, rest = sourceBase, s[len(prefixBase):]
	default:
		return sourceRef{kind: sourceFile, name: s}, nil
	}

	name, rng := rest, ""
	if i := strings.LastIndexByte(rest, '['); i >= 0 {
		name, rng = rest[:i], rest[i:]
	}
	ref.name = name

	switch ref.kind {
	case sourceBase, sourceCSG:
		if name != "" {
			return ref, fmt.Errorf("%w: %q", ErrMalformedRange, s)
		}
	default:
		if name == "" {
			return ref, fmt.Errorf("%w: missing name in %q", ErrUnresolvedSource, s)
		}
	}

	if rng == "" {
		return ref, nil
	}
	indices, err := ParseRange(rng)
	if err != nil {
		return ref, err
	}
	ref.indices = indices
	return ref, nil
}

// MaxRangeLen is the most indices one range may select. It is above the
// element count of any legacy sprite file.
const MaxRangeLen = 1 << 17

// ParseRange expands "[n]" or "[a..b]" into the indices it selects, in the
// order written: "[5..3]" yields 5, 4, 3. Ranges longer than MaxRangeLen
// are malformed.
func ParseRange(s string) ([]int, error) {
	if len(s) < 3 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("%w: %q", ErrMalformedRange, s)
	}
	body := s[1 : len(s)-1]

	lo, hi, isRange := strings.Cut(body, "..")
	a, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil || a < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedRange, s)
	}
	if !isRange {
		return []int{a}, nil
	}
	b, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil || b < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedRange, s)
	}

	if abs(b-a) >= MaxRangeLen {
		return nil, fmt.Errorf("%w: %q selects more than %d images", ErrMalformedRange, s, MaxRangeLen)
	}

	step := 1
	if b < a {
		step = -1
	}
	out := make([]int, 0, abs(b-a)+1)
	for i := a; ; i += step {
		out = append(out, i)
		if i == b {
			break
		}
	}
	return out, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
