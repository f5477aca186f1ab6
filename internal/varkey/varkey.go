package varkey

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nomial/internal/units"
)

// ErrIdentityConflict is returned when a descriptor is internally
// inconsistent, e.g. a vector index with no declared shape.
var ErrIdentityConflict = errors.New("varkey: conflicting descriptor attributes")

// Descr is the enumerated descriptor a key is built from. All fields are
// optional except that Idx requires Shape. Extra holds open-ended metadata
// that downstream layers may attach; it never participates in identity.
type Descr struct {
	Name     string
	UnitRepr string
	Units    *units.Unit
	Label    string
	Lineage  Lineage
	Shape    []int
	Idx      []int
	Value    *float64
	Extra    map[string]cty.Value
}

// VarKey is the immutable identity token for one scalar variable. Two keys
// are interchangeable iff their EqStr values match.
type VarKey struct {
	descr    Descr
	veckey   *VarKey
	fullstr  string
	cleanstr string
	eqstr    string
	hash     uint64
}

// newFromDescr validates d, resolves its unit field, and computes the
// identity strings and hash. It does not touch the veckey table; that is
// the Registry's job.
func newFromDescr(d Descr) (*VarKey, error) {
	if d.Idx != nil {
		if d.Shape == nil {
			return nil, fmt.Errorf("%w: index %v without a vector shape", ErrIdentityConflict, d.Idx)
		}
		if len(d.Idx) != len(d.Shape) {
			return nil, fmt.Errorf("%w: index %v does not match shape %v", ErrIdentityConflict, d.Idx, d.Shape)
		}
		for i, x := range d.Idx {
			if x < 0 || x >= d.Shape[i] {
				return nil, fmt.Errorf("%w: index %v out of range for shape %v", ErrIdentityConflict, d.Idx, d.Shape)
			}
		}
	}

	switch {
	case d.Units != nil && d.UnitRepr == "":
		d.UnitRepr = d.Units.String()
	case d.Units == nil:
		u, err := units.Parse(d.UnitRepr)
		if err != nil {
			return nil, err
		}
		d.Units = u
		if u == nil {
			d.UnitRepr = "-"
		}
	}

	k := &VarKey{descr: d}
	k.fullstr = k.strWithout(nil)
	k.cleanstr = k.strWithout([]string{"modelnums"})
	k.eqstr = k.cleanstr + k.descr.Lineage.String() + k.descr.UnitRepr

	h := fnv.New64a()
	h.Write([]byte(k.eqstr))
	k.hash = h.Sum64()
	return k, nil
}

// strWithout renders the key's name with lineage and index subscripts,
// omitting the listed fields ("lineage", "modelnums", "idx").
func (k *VarKey) strWithout(excluded []string) string {
	skip := func(field string) bool {
		for _, e := range excluded {
			if e == field {
				return true
			}
		}
		return false
	}

	var sb strings.Builder
	sb.WriteString(k.descr.Name)
	if len(k.descr.Lineage) > 0 && !skip("lineage") {
		sb.WriteRune('_')
		if skip("modelnums") {
			sb.WriteString(k.descr.Lineage.StringWithoutNums())
		} else {
			sb.WriteString(k.descr.Lineage.String())
		}
	}
	if k.descr.Idx != nil && !skip("idx") {
		sb.WriteString(idxString(k.descr.Idx))
	}
	return sb.String()
}

func idxString(idx []int) string {
	parts := make([]string, len(idx))
	for i, x := range idx {
		parts[i] = strconv.Itoa(x)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// String returns the full rendered name, including lineage (with instance
// numbers) and index subscripts.
func (k *VarKey) String() string { return k.fullstr }

// CleanStr is the display rendering: lineage without instance numbers.
func (k *VarKey) CleanStr() string { return k.cleanstr }

// EqStr is the canonical identity string; equality and hashing are defined
// on it alone.
func (k *VarKey) EqStr() string { return k.eqstr }

// Hash returns the precomputed FNV-64a hash of EqStr.
func (k *VarKey) Hash() uint64 { return k.hash }

// Equal reports identity equality: same rendered name, same lineage path,
// same unit representation.
func (k *VarKey) Equal(other *VarKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	return k.eqstr == other.eqstr
}

func (k *VarKey) Name() string                { return k.descr.Name }
func (k *VarKey) Label() string               { return k.descr.Label }
func (k *VarKey) Units() *units.Unit          { return k.descr.Units }
func (k *VarKey) UnitRepr() string            { return k.descr.UnitRepr }
func (k *VarKey) Lineage() Lineage            { return k.descr.Lineage }
func (k *VarKey) Shape() []int                { return k.descr.Shape }
func (k *VarKey) Idx() []int                  { return k.descr.Idx }
func (k *VarKey) Extra() map[string]cty.Value { return k.descr.Extra }

// Value returns the fixed (substituted) value attached at declaration, if any.
func (k *VarKey) Value() (float64, bool) {
	if k.descr.Value == nil {
		return 0, false
	}
	return *k.descr.Value, true
}

// Veckey returns the shared identity of the whole vectorized variable this
// key is a component of, or nil for scalar keys.
func (k *VarKey) Veckey() *VarKey { return k.veckey }

// Descr returns a copy of the key's descriptor, suitable for deriving a new
// key (a rename or rehome) from an existing one.
func (k *VarKey) Descr() Descr {
	d := k.descr
	d.Lineage = append(Lineage(nil), k.descr.Lineage...)
	d.Shape = append([]int(nil), k.descr.Shape...)
	d.Idx = append([]int(nil), k.descr.Idx...)
	return d
}
