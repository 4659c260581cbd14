package palette

import "fmt"

// IndexType classifies a palette index by how the renderer treats it.
type IndexType uint8

// Index classes.
const (
	Normal IndexType = iota
	PrimaryRemap
	SecondaryRemap
	TertiaryRemap
	Special
)

// String returns the class name.
func (t IndexType) String() string {
	switch t {
	case Normal:
		return "normal"
	case PrimaryRemap:
		return "primary-remap"
	case SecondaryRemap:
		return "secondary-remap"
	case TertiaryRemap:
		return "tertiary-remap"
	case Special:
		return "special"
	default:
		return fmt.Sprintf("IndexType(%d)", uint8(t))
	}
}

// Classify returns the class of a palette index.
func Classify(index uint8) IndexType {
	switch {
	case index <= 9, index >= 230 && index <= 239, index == 255:
		return Special
	case index >= 243 && index <= 254:
		return PrimaryRemap
	case index >= 202 && index <= 213:
		return SecondaryRemap
	case index >= 46 && index <= 57:
		return TertiaryRemap
	default:
		return Normal
	}
}

// IsChangeable reports whether an index may be recoloured, i.e. it is not
// Special.
func IsChangeable(index uint8) bool {
	return Classify(index) != Special
}

// Policy selects which indices closest-colour matching may pick.
type Policy uint8

const (
	// ExcludeSpecialAndPrimary skips Special and PrimaryRemap entries. This is
	// what the legacy importer does and is the default.
	ExcludeSpecialAndPrimary Policy = iota

	// ExcludeSpecial skips Special entries only.
	ExcludeSpecial
)

// ParsePolicy maps a configuration name to a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "", "exclude-primary":
		return ExcludeSpecialAndPrimary, nil
	case "exclude-special":
		return ExcludeSpecial, nil
	default:
		return 0, fmt.Errorf("unknown closest-match policy %q", name)
	}
}

// String returns the configuration name of the policy.
func (p Policy) String() string {
	if p == ExcludeSpecial {
		return "exclude-special"
	}
	return "exclude-primary"
}

// Changeable reports whether index is eligible under the policy.
func (p Policy) Changeable(index uint8) bool {
	t := Classify(index)
	if p == ExcludeSpecial {
		return t != Special
	}
	return t != Special && t != PrimaryRemap
}
