package nomial

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vk/nomial/internal/varkey"
)

// ExpVec is a sparse mapping from variable identity to a real exponent: one
// monomial's algebraic shape. The empty vector is a pure numeric constant.
//
// An ExpVec is immutable once published; the With/Without helpers return
// amended copies. Equality is exact structural equality (same key set, same
// exponents, no tolerance), and the content hash is a pure commutative
// function of the entries, so identical patterns collide into the same
// bucket regardless of construction order.
type ExpVec struct {
	keys []*varkey.VarKey
	es   []float64
	pos  map[string]int // identity string → index into keys/es

	hash   uint64
	hashed bool
}

// EmptyExpVec returns the exponent vector of a constant term.
func EmptyExpVec() *ExpVec {
	return &ExpVec{pos: map[string]int{}}
}

// NewExpVec builds a vector from parallel keys and exponents; the slices
// must have equal length. A repeated key overwrites the earlier exponent.
// Zero exponents given explicitly are kept; use Without to drop an entry.
func NewExpVec(keys []*varkey.VarKey, exps []float64) *ExpVec {
	if len(keys) != len(exps) {
		panic(fmt.Sprintf("nomial: NewExpVec: %d keys for %d exponents", len(keys), len(exps)))
	}
	v := &ExpVec{pos: make(map[string]int, len(keys))}
	for i, k := range keys {
		v.set(k, exps[i])
	}
	return v
}

func (v *ExpVec) set(k *varkey.VarKey, e float64) {
	if i, ok := v.pos[k.EqStr()]; ok {
		v.es[i] = e
		return
	}
	v.pos[k.EqStr()] = len(v.keys)
	v.keys = append(v.keys, k)
	v.es = append(v.es, e)
}

// Len returns the number of entries, explicit zeros included.
func (v *ExpVec) Len() int { return len(v.keys) }

// Exp returns the exponent for k, and whether an entry exists.
func (v *ExpVec) Exp(k *varkey.VarKey) (float64, bool) {
	i, ok := v.pos[k.EqStr()]
	if !ok {
		return 0, false
	}
	return v.es[i], true
}

// Vars returns the entry keys in insertion order. Callers must not modify
// the returned slice.
func (v *ExpVec) Vars() []*varkey.VarKey { return v.keys }

// Range calls fn for every entry in insertion order.
func (v *ExpVec) Range(fn func(k *varkey.VarKey, e float64)) {
	for i, k := range v.keys {
		fn(k, v.es[i])
	}
}

// With returns a copy with k's exponent set to e (entry created if absent).
func (v *ExpVec) With(k *varkey.VarKey, e float64) *ExpVec {
	out := v.clone()
	out.set(k, e)
	return out
}

// Without returns a copy with k's entry removed, or v itself if absent.
func (v *ExpVec) Without(k *varkey.VarKey) *ExpVec {
	if _, ok := v.pos[k.EqStr()]; !ok {
		return v
	}
	out := EmptyExpVec()
	for i, key := range v.keys {
		if !key.Equal(k) {
			out.set(key, v.es[i])
		}
	}
	return out
}

func (v *ExpVec) clone() *ExpVec {
	out := &ExpVec{
		keys: append([]*varkey.VarKey(nil), v.keys...),
		es:   append([]float64(nil), v.es...),
		pos:  make(map[string]int, len(v.pos)),
	}
	for eq, i := range v.pos {
		out.pos[eq] = i
	}
	return out
}

// Equal reports exact structural equality: identical key sets and
// exponents, independent of entry order.
func (v *ExpVec) Equal(other *ExpVec) bool {
	if v.Len() != other.Len() {
		return false
	}
	for eq, i := range v.pos {
		j, ok := other.pos[eq]
		if !ok || v.es[i] != other.es[j] {
			return false
		}
	}
	return true
}

// Hash returns the content hash, computed once and cached. Entries combine
// commutatively so construction order cannot leak into the value.
func (v *ExpVec) Hash() uint64 {
	if !v.hashed {
		var h uint64
		for i, k := range v.keys {
			h ^= mix64(k.Hash() ^ math.Float64bits(v.es[i]))
		}
		v.hash = h
		v.hashed = true
	}
	return v.hash
}

// mix64 is the splitmix64 finalizer; it scrambles each entry before the
// commutative XOR so that structured inputs do not cancel.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// String renders entries as "x^2*y" in insertion order; the empty vector
// renders as "1".
func (v *ExpVec) String() string {
	if v.Len() == 0 {
		return "1"
	}
	parts := make([]string, 0, len(v.keys))
	for i, k := range v.keys {
		switch e := v.es[i]; e {
		case 1:
			parts = append(parts, k.String())
		default:
			parts = append(parts, k.String()+"^"+strconv.FormatFloat(e, 'g', -1, 64))
		}
	}
	return strings.Join(parts, "*")
}
