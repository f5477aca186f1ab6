package nomial

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"strconv"
	"strings"

	"github.com/vk/nomial/internal/units"
	"github.com/vk/nomial/internal/varkey"
)

// ErrMalformedTerm is returned when a supplied exponent-vector/coefficient
// pair fails basic shape checks (non-finite coefficient or exponent).
var ErrMalformedTerm = errors.New("nomial: malformed term")

// ErrUnitMismatch is returned when two maps whose units cannot be
// reconciled are combined.
var ErrUnitMismatch = errors.New("nomial: incompatible units")

// Term pairs one exponent vector with its signed coefficient.
type Term struct {
	Exp *ExpVec
	C   float64
}

// Map is the canonical sum-of-monomials representation: an
// insertion-ordered mapping from exponent vector to coefficient, with a
// single unit attached to the whole sum. Construction combines duplicate
// exponent vectors; arithmetic prunes terms that cancel to exact zero.
//
// Zero coefficients supplied explicitly at construction are retained: a
// constant created intentionally as zero (say, the derivative of a
// constant) is a legitimate term, and only zeros produced by cancellation
// are dead.
type Map struct {
	terms []Term
	index map[uint64][]int // ExpVec content hash → indices into terms
	units *units.Unit
}

// accum merges term contributions, tracking per-slot whether any nonzero
// coefficient ever arrived so cancellation can be told apart from
// explicit zeros.
type accum struct {
	exps  []*ExpVec
	sums  []float64
	live  []bool
	index map[uint64][]int
}

func newAccum(capacity int) *accum {
	return &accum{index: make(map[uint64][]int, capacity)}
}

func (a *accum) add(e *ExpVec, c float64) {
	h := e.Hash()
	for _, i := range a.index[h] {
		if a.exps[i].Equal(e) {
			a.sums[i] += c
			a.live[i] = a.live[i] || c != 0
			return
		}
	}
	a.index[h] = append(a.index[h], len(a.exps))
	a.exps = append(a.exps, e)
	a.sums = append(a.sums, c)
	a.live = append(a.live, c != 0)
}

// finish builds the Map. When prune is set, slots that summed to exact
// zero from nonzero contributions are dropped; slots that only ever saw
// zeros are kept either way.
func (a *accum) finish(u *units.Unit, prune bool) *Map {
	m := &Map{units: u, index: make(map[uint64][]int, len(a.exps))}
	for i, e := range a.exps {
		if prune && a.sums[i] == 0 && a.live[i] {
			continue
		}
		m.index[e.Hash()] = append(m.index[e.Hash()], len(m.terms))
		m.terms = append(m.terms, Term{Exp: e, C: a.sums[i]})
	}
	return m
}

// NewMap constructs a canonical Map from a term list. Duplicate exponent
// vectors are summed into a single entry; explicit zero coefficients are
// retained. Non-finite coefficients or exponents are rejected.
func NewMap(u *units.Unit, terms ...Term) (*Map, error) {
	acc := newAccum(len(terms))
	for _, t := range terms {
		if err := checkTerm(t); err != nil {
			return nil, err
		}
		acc.add(t.Exp, t.C)
	}
	return acc.finish(u, false), nil
}

func checkTerm(t Term) error {
	if t.Exp == nil {
		return fmt.Errorf("%w: nil exponent vector", ErrMalformedTerm)
	}
	if math.IsNaN(t.C) || math.IsInf(t.C, 0) {
		return fmt.Errorf("%w: non-finite coefficient %v", ErrMalformedTerm, t.C)
	}
	var bad error
	t.Exp.Range(func(k *varkey.VarKey, e float64) {
		if bad == nil && (math.IsNaN(e) || math.IsInf(e, 0)) {
			bad = fmt.Errorf("%w: non-finite exponent %v for %s", ErrMalformedTerm, e, k)
		}
	})
	return bad
}

// FromVarKey returns the monomial view of a single variable: one term,
// exponent one, coefficient one, the variable's own unit.
func FromVarKey(k *varkey.VarKey) *Map {
	m, _ := NewMap(k.Units(), Term{Exp: EmptyExpVec().With(k, 1), C: 1})
	return m
}

// Const returns the constant map c with unit u.
func Const(c float64, u *units.Unit) *Map {
	m, _ := NewMap(u, Term{Exp: EmptyExpVec(), C: c})
	return m
}

// Zero returns the canonical zero constant: one empty-exponent term with
// coefficient zero and no unit. This is the value of any derivative with
// respect to an absent variable.
func Zero() *Map {
	return Const(0, nil)
}

// Len returns the number of terms.
func (m *Map) Len() int { return len(m.terms) }

// Terms returns the terms in insertion order. Callers must treat the
// returned slice as read-only; the pairing of exponent vector and
// coefficient, not the absolute order, is the invariant.
func (m *Map) Terms() []Term { return m.terms }

// Units returns the unit shared by every term of the sum.
func (m *Map) Units() *units.Unit { return m.units }

// IsMonomial reports whether the sum is a single term with a positive
// coefficient.
func (m *Map) IsMonomial() bool {
	return len(m.terms) == 1 && m.terms[0].C > 0
}

// IsPosynomial reports whether every coefficient is strictly positive.
// Posynomials are the geometric-programming-safe subset; anything else
// must be handled as a signomial.
func (m *Map) IsPosynomial() bool {
	for _, t := range m.terms {
		if t.C <= 0 {
			return false
		}
	}
	return true
}

// Coeff returns the coefficient stored for an exponent vector.
func (m *Map) Coeff(e *ExpVec) (float64, bool) {
	for _, i := range m.index[e.Hash()] {
		if m.terms[i].Exp.Equal(e) {
			return m.terms[i].C, true
		}
	}
	return 0, false
}

// Add merges two maps: coefficients sum per exponent vector, terms that
// cancel to exact zero are pruned, and units are reconciled (b's
// coefficients are converted into a's unit). Incompatible units are an
// error. A result whose terms all cancel keeps the reconciled unit.
func Add(a, b *Map) (*Map, error) {
	k, err := units.Conversion(b.units, a.units)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot add %q and %q",
			ErrUnitMismatch, a.units, b.units)
	}

	acc := newAccum(len(a.terms) + len(b.terms))
	for _, t := range a.terms {
		acc.add(t.Exp, t.C)
	}
	for _, t := range b.terms {
		acc.add(t.Exp, t.C*k)
	}
	return acc.finish(a.units, true), nil
}

// Scale multiplies every coefficient by the dimensionless scalar k. The
// unit is unchanged. Scaling by zero turns every previously nonzero term
// into an arithmetic zero, so they are pruned.
func Scale(m *Map, k float64) *Map {
	return ScaleQuantity(m, k, nil)
}

// ScaleQuantity multiplies every coefficient by k carrying unit ku; the
// map's unit combines with ku.
func ScaleQuantity(m *Map, k float64, ku *units.Unit) *Map {
	out := &Map{
		units: units.Mul(m.units, ku),
		index: make(map[uint64][]int, len(m.terms)),
	}
	for _, t := range m.terms {
		c := t.C * k
		if c == 0 && t.C != 0 {
			continue
		}
		out.index[t.Exp.Hash()] = append(out.index[t.Exp.Hash()], len(out.terms))
		out.terms = append(out.terms, Term{Exp: t.Exp, C: c})
	}
	return out
}

// Mul returns the distributed product of two maps: every pair of terms
// multiplies (exponents sum entry-wise, with exponents that cancel to zero
// removed from the vector), like terms combine, and cross terms that
// cancel are pruned. Units multiply.
func Mul(a, b *Map) *Map {
	acc := newAccum(len(a.terms) * len(b.terms))
	for _, ta := range a.terms {
		for _, tb := range b.terms {
			acc.add(mulExps(ta.Exp, tb.Exp), ta.C*tb.C)
		}
	}
	return acc.finish(units.Mul(a.units, b.units), true)
}

// mulExps sums two exponent vectors entry-wise. An entry that sums to
// exactly zero is an arithmetic artifact (x * 1/x) and is dropped.
func mulExps(x, y *ExpVec) *ExpVec {
	out := x
	y.Range(func(k *varkey.VarKey, ey float64) {
		ex, ok := out.Exp(k)
		switch e := ex + ey; {
		case ok && e == 0:
			out = out.Without(k)
		default:
			out = out.With(k, e)
		}
	})
	return out
}

// Diff differentiates the map with respect to v. Each term with exponent e
// for v maps to exponent e-1 (the entry is removed entirely when that hits
// zero) and coefficient multiplied by e. Terms in which v does not appear
// contribute an explicit zero term with their exponent vector unchanged,
// so the result is always a well-formed map. The result's unit is the
// original unit divided by v's unit.
//
// Resolving v against the map's variable set (including the
// multiple-match error) is the caller's concern; see Data.Diff.
func Diff(m *Map, v *varkey.VarKey) *Map {
	acc := newAccum(len(m.terms))
	for _, t := range m.terms {
		e, ok := t.Exp.Exp(v)
		if !ok || e == 0 {
			acc.add(t.Exp, 0)
			continue
		}
		exp := t.Exp.With(v, e-1)
		if e-1 == 0 {
			exp = t.Exp.Without(v)
		}
		acc.add(exp, t.C*e)
	}
	return acc.finish(units.Div(m.units, v.Units()), false)
}

// Equal reports structural equality: identical units and identical term
// content. Enumeration order does not participate.
func (m *Map) Equal(other *Map) bool {
	if m == nil || other == nil {
		return m == other
	}
	if len(m.terms) != len(other.terms) || !units.Equal(m.units, other.units) {
		return false
	}
	for _, t := range m.terms {
		c, ok := other.Coeff(t.Exp)
		if !ok || c != t.C {
			return false
		}
	}
	return true
}

// Hash returns a content hash over the terms and the unit's canonical
// string. Terms combine commutatively, so it agrees with Equal for maps
// built in any order.
func (m *Map) Hash() uint64 {
	var h uint64
	for _, t := range m.terms {
		h ^= mix64(t.Exp.Hash() ^ math.Float64bits(t.C))
	}
	f := fnv.New64a()
	f.Write([]byte(m.units.String()))
	return mix64(h ^ f.Sum64())
}

// String renders the sum in insertion order with the unit appended, e.g.
// "3*x + -1*y^2 [m/s]". Dimensionless maps omit the bracket.
func (m *Map) String() string {
	if len(m.terms) == 0 {
		return m.withUnitSuffix("0")
	}
	parts := make([]string, len(m.terms))
	for i, t := range m.terms {
		c := strconv.FormatFloat(t.C, 'g', -1, 64)
		if t.Exp.Len() == 0 {
			parts[i] = c
		} else {
			parts[i] = c + "*" + t.Exp.String()
		}
	}
	return m.withUnitSuffix(strings.Join(parts, " + "))
}

func (m *Map) withUnitSuffix(s string) string {
	if m.units == nil {
		return s
	}
	return s + " [" + m.units.String() + "]"
}
