package nomial

import (
	"errors"
	"fmt"

	"github.com/vk/nomial/internal/units"
	"github.com/vk/nomial/internal/varkey"
)

// ErrAmbiguousRef is returned when a differentiation (or substitution)
// target resolves to more than one variable under the current lineage
// rules.
var ErrAmbiguousRef = errors.New("nomial: multiple matching variables")

// Data is the read-mostly aggregate over one canonical Map. It is built at
// the boundary where algebra hands off to inspection code and is
// conceptually immutable: the producer must not keep mutating a Map after
// publishing a Data over it.
//
// The participating-variable set and the posynomial-safety flag are
// computed eagerly; everything else (Exps, Cs, Varlocs, the KeySet and
// Values lookup views, and the content hash) is realized together on first
// access and cached. There are exactly two states, unrealized and fully
// realized; Reset returns to the first atomically.
type Data struct {
	hmap      *Map
	vks       []*varkey.VarKey
	anyNonpos bool

	realized bool
	exps     []*ExpVec
	cs       []float64
	varlocs  map[string][]int
	keyset   *varkey.KeySet
	values   map[*varkey.VarKey]float64
	hash     uint64
}

// NewData wraps an already-canonical map. Ownership of m transfers to the
// aggregate.
func NewData(m *Map) *Data {
	d := &Data{}
	d.Reset(m)
	return d
}

// Reset replaces the underlying map and drops every derived view as a
// group. Partial invalidation is deliberately impossible.
func (d *Data) Reset(m *Map) {
	d.hmap = m
	d.vks = d.vks[:0]
	seen := make(map[string]struct{})
	d.anyNonpos = false
	for _, t := range m.terms {
		if t.C <= 0 {
			d.anyNonpos = true
		}
		t.Exp.Range(func(k *varkey.VarKey, _ float64) {
			if _, ok := seen[k.EqStr()]; !ok {
				seen[k.EqStr()] = struct{}{}
				d.vks = append(d.vks, k)
			}
		})
	}

	d.realized = false
	d.exps = nil
	d.cs = nil
	d.varlocs = nil
	d.keyset = nil
	d.values = nil
	d.hash = 0
}

// realize computes every lazy view in one step. Single-threaded access is
// assumed throughout the core.
func (d *Data) realize() {
	if d.realized {
		return
	}
	d.exps = make([]*ExpVec, len(d.hmap.terms))
	d.cs = make([]float64, len(d.hmap.terms))
	d.varlocs = make(map[string][]int, len(d.vks))
	for i, t := range d.hmap.terms {
		d.exps[i] = t.Exp
		d.cs[i] = t.C
		t.Exp.Range(func(k *varkey.VarKey, _ float64) {
			d.varlocs[k.EqStr()] = append(d.varlocs[k.EqStr()], i)
		})
	}
	d.keyset = varkey.NewKeySet(d.vks)
	d.values = make(map[*varkey.VarKey]float64)
	for _, k := range d.vks {
		if v, ok := k.Value(); ok {
			d.values[k] = v
		}
	}
	d.hash = d.hmap.Hash()
	d.realized = true
}

// Map returns the underlying canonical map.
func (d *Data) Map() *Map { return d.hmap }

// Units returns the unit shared by every term.
func (d *Data) Units() *units.Unit { return d.hmap.units }

// Vks returns the distinct participating variables in first-appearance
// order.
func (d *Data) Vks() []*varkey.VarKey { return d.vks }

// AnyNonpositiveCs reports whether any coefficient is zero or negative,
// i.e. whether the aggregate must be treated as a signomial rather than a
// posynomial.
func (d *Data) AnyNonpositiveCs() bool { return d.anyNonpos }

// Exps returns the exponent vectors exactly as enumerated from the map.
// The order is the map's insertion order and is significant only through
// its pairing with Cs: Exps()[i] belongs with Cs()[i].
func (d *Data) Exps() []*ExpVec {
	d.realize()
	return d.exps
}

// Cs returns the coefficient for each term, paired index-wise with Exps
// and carrying the map's unit.
func (d *Data) Cs() []float64 {
	d.realize()
	return d.cs
}

// Varlocs returns the ordered term indices in which k appears, so
// variable-by-variable passes need not rescan every term.
func (d *Data) Varlocs(k *varkey.VarKey) []int {
	d.realize()
	return d.varlocs[k.EqStr()]
}

// Varkeys returns the KeySet view over the participating variables.
func (d *Data) Varkeys() *varkey.KeySet {
	d.realize()
	return d.keyset
}

// Values returns the fixed-value substitution view: every participating
// variable that was declared with a value, mapped to it.
func (d *Data) Values() map[*varkey.VarKey]float64 {
	d.realize()
	return d.values
}

// Hash returns the memoized content hash over the map's terms and its unit
// string. Equal aggregates hash equally.
func (d *Data) Hash() uint64 {
	d.realize()
	return d.hash
}

// Equal reports structural equality on map content and units; two
// aggregates with identical terms enumerated in different orders still
// compare equal.
func (d *Data) Equal(other *Data) bool {
	if d == nil || other == nil {
		return d == other
	}
	if d.realized && other.realized && d.hash != other.hash {
		return false
	}
	return d.hmap.Equal(other.hmap)
}

// Diff returns the derivative with respect to v as a new aggregate. An
// exact identity match wins; a vector-level key (shape, no index) falls
// back to its index-less rendering, which reaches every participating
// component, so it is ambiguous whenever more than one component appears.
// A variable that does not appear at all yields the zero constant:
// differentiating with respect to an absent variable is mathematically
// valid, not an error.
func (d *Data) Diff(v *varkey.VarKey) (*Data, error) {
	member := d.Varkeys().ByKey(v)
	if member == nil && v.Shape() != nil && v.Idx() == nil {
		matches := d.Varkeys().ByName(v.String())
		switch len(matches) {
		case 0:
		case 1:
			member = matches[0]
		default:
			return nil, fmt.Errorf("%w for %q: %v", ErrAmbiguousRef, v, matches)
		}
	}
	if member == nil {
		return NewData(Zero()), nil
	}
	return NewData(Diff(d.hmap, member)), nil
}

// DiffName differentiates with respect to a variable referenced by name
// (any alias: short name, clean or full rendering). More than one match
// under the current lineage rules is a usage error; no match yields the
// zero constant.
func (d *Data) DiffName(name string) (*Data, error) {
	matches := d.Varkeys().ByName(name)
	if len(matches) > 1 {
		return nil, fmt.Errorf("%w for %q: %v", ErrAmbiguousRef, name, matches)
	}
	if len(matches) == 0 {
		return NewData(Zero()), nil
	}
	return NewData(Diff(d.hmap, matches[0])), nil
}
