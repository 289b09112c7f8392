package chem

import (
	"fmt"
	"sort"
	"strings"
)

// Kind selects which formula set applies to a solution.
type Kind int

const (
	Water Kind = iota
	StrongAcid
	WeakAcid
	StrongBase
	WeakBase
)

var kindNames = [...]string{
	Water:      "water",
	StrongAcid: "strong_acid",
	WeakAcid:   "weak_acid",
	StrongBase: "strong_base",
	WeakBase:   "weak_base",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= Water && k <= WeakBase
}

// IsWeak reports whether k takes a user-adjustable strength.
func (k Kind) IsWeak() bool { return k == WeakAcid || k == WeakBase }

// IsStrong reports whether k dissociates completely.
func (k Kind) IsStrong() bool { return k == StrongAcid || k == StrongBase }

// IsAcid reports whether k is an acid.
func (k Kind) IsAcid() bool { return k == StrongAcid || k == WeakAcid }

// IsBase reports whether k is a base.
func (k Kind) IsBase() bool { return k == StrongBase || k == WeakBase }

// Kinds returns every solution kind in declaration order.
func Kinds() []Kind {
	return []Kind{Water, StrongAcid, WeakAcid, StrongBase, WeakBase}
}

// ParseKind accepts a kind name such as "weak_acid". Dashes and case are ignored.
func ParseKind(name string) (Kind, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for k, s := range kindNames {
		if s == n {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Species identifies a chemical species in solution.
type Species string

const (
	H2O Species = "H2O"
	H3O Species = "H3O"
	OH  Species = "OH"
	HA  Species = "HA"
	A   Species = "A"
	MOH Species = "MOH"
	M   Species = "M"
	B   Species = "B"
	BH  Species = "BH"
)

// SpeciesInfo describes how a species is shown to people.
type SpeciesInfo struct {
	Symbol string
	Name   string
}

// SpeciesTable maps every species to its display metadata.
type SpeciesTable map[Species]SpeciesInfo

// NewSpeciesTable builds the species display table. Callers hold on to the
// result and pass it to whatever renders species.
func NewSpeciesTable() SpeciesTable {
	return SpeciesTable{
		H2O: {Symbol: "H2O", Name: "water"},
		H3O: {Symbol: "H3O+", Name: "hydronium"},
		OH:  {Symbol: "OH-", Name: "hydroxide"},
		HA:  {Symbol: "HA", Name: "acid"},
		A:   {Symbol: "A-", Name: "conjugate base"},
		MOH: {Symbol: "MOH", Name: "metal hydroxide"},
		M:   {Symbol: "M+", Name: "metal ion"},
		B:   {Symbol: "B", Name: "base"},
		BH:  {Symbol: "BH+", Name: "conjugate acid"},
	}
}

// Symbol returns the display symbol of s, or s itself when unknown.
func (t SpeciesTable) Symbol(s Species) string {
	if info, ok := t[s]; ok {
		return info.Symbol
	}
	return string(s)
}

// Pair returns the undissociated solute and its dissociated product for k.
// Water has no pair.
func Pair(k Kind) (solute, product Species, ok bool) {
	switch k {
	case StrongAcid, WeakAcid:
		return HA, A, true
	case StrongBase:
		return MOH, M, true
	case WeakBase:
		return B, BH, true
	}
	return "", "", false
}

// speciesOrder is the display order of species for each kind.
func speciesOrder(k Kind) []Species {
	switch k {
	case StrongAcid, WeakAcid:
		return []Species{HA, A, H3O, OH, H2O}
	case StrongBase:
		return []Species{MOH, M, OH, H3O, H2O}
	case WeakBase:
		return []Species{B, BH, OH, H3O, H2O}
	default:
		return []Species{H3O, OH, H2O}
	}
}

// Concentrations is the equilibrium concentration set of one solution, in mol/L.
// The zero value is empty.
type Concentrations struct {
	kind   Kind
	values map[Species]float64
}

// Kind returns the kind the set was computed for.
func (c Concentrations) Kind() Kind { return c.kind }

// Get returns the concentration of s and whether s is present.
func (c Concentrations) Get(s Species) (float64, bool) {
	v, ok := c.values[s]
	return v, ok
}

// Value returns the concentration of s, or 0 when s is not present.
func (c Concentrations) Value(s Species) float64 {
	return c.values[s]
}

// Species returns the species present, in display order.
func (c Concentrations) Species() []Species {
	if c.values == nil {
		return nil
	}
	return speciesOrder(c.kind)
}

// Map returns a copy of the set keyed by species identifier.
func (c Concentrations) Map() map[string]float64 {
	out := make(map[string]float64, len(c.values))
	for s, v := range c.values {
		out[string(s)] = v
	}
	return out
}

func (c Concentrations) String() string {
	keys := make([]string, 0, len(c.values))
	for s := range c.values {
		keys = append(keys, string(s))
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(c.kind.String())
	b.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s:%g", k, c.values[Species(k)])
	}
	b.WriteString("}")
	return b.String()
}
