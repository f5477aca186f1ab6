package units

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrMismatch is returned when two units with different dimensions are
// combined additively (e.g. during monomial-map reconciliation).
var ErrMismatch = errors.New("units: incompatible dimensions")

// Base dimension indices. The rendering order in String follows this order.
const (
	dimMass = iota
	dimLength
	dimTime
	dimCurrent
	dimTemperature
	dimAmount
	dimLuminosity
	numDims
)

var baseSymbols = [numDims]string{"kg", "m", "s", "A", "K", "mol", "cd"}

// Unit is an immutable unit of measure. The nil *Unit is dimensionless;
// every method tolerates a nil receiver.
type Unit struct {
	dims  [numDims]float64
	scale float64 // multiplicative factor to SI base units
}

// Dimensionless is the canonical "no unit" sentinel.
var Dimensionless *Unit

func (u *Unit) dimensions() [numDims]float64 {
	if u == nil {
		return [numDims]float64{}
	}
	return u.dims
}

func (u *Unit) factor() float64 {
	if u == nil {
		return 1
	}
	return u.scale
}

// IsDimensionless reports whether u carries no physical dimension. A unit
// with zero dimension exponents but a non-unity scale (e.g. "percent") is
// still dimensionless.
func (u *Unit) IsDimensionless() bool {
	return u.dimensions() == [numDims]float64{}
}

// normalize collapses a computed unit back to the dimensionless sentinel
// when both dimensions and scale are trivial, so algebraic round trips like
// Div(u, u) hash identically to a never-united value.
func normalize(dims [numDims]float64, scale float64) *Unit {
	if dims == ([numDims]float64{}) && scale == 1 {
		return nil
	}
	return &Unit{dims: dims, scale: scale}
}

// Mul returns the product unit of a and b.
func Mul(a, b *Unit) *Unit {
	dims := a.dimensions()
	for i, d := range b.dimensions() {
		dims[i] += d
	}
	return normalize(dims, a.factor()*b.factor())
}

// Div returns the quotient unit a/b.
func Div(a, b *Unit) *Unit {
	dims := a.dimensions()
	for i, d := range b.dimensions() {
		dims[i] -= d
	}
	return normalize(dims, a.factor()/b.factor())
}

// Pow raises u to the real exponent e.
func Pow(u *Unit, e float64) *Unit {
	if u == nil || e == 0 {
		return nil
	}
	var dims [numDims]float64
	for i, d := range u.dims {
		dims[i] = d * e
	}
	return normalize(dims, math.Pow(u.scale, e))
}

// Compatible reports whether quantities in a and b can be summed, i.e.
// whether they share the same physical dimensions. Scale may differ.
func Compatible(a, b *Unit) bool {
	return a.dimensions() == b.dimensions()
}

// Equal reports full structural equality: same dimensions and same scale.
func Equal(a, b *Unit) bool {
	return a.dimensions() == b.dimensions() && a.factor() == b.factor()
}

// Conversion returns the factor k such that a value expressed in `from` is
// k times the same value expressed in `to`. Returns ErrMismatch when the
// dimensions differ.
func Conversion(from, to *Unit) (float64, error) {
	if !Compatible(from, to) {
		return 0, ErrMismatch
	}
	return from.factor() / to.factor(), nil
}

// String renders the canonical display form: the scale factor (omitted when
// unity) followed by base-dimension symbols with exponents, positive powers
// before a single "/" and negative powers after it. The dimensionless
// sentinel renders as "-". The rendering is a pure function of content, so
// it is safe to fold into identity strings and hashes.
func (u *Unit) String() string {
	if u.IsDimensionless() && u.factor() == 1 {
		return "-"
	}

	var num, den []string
	for i, d := range u.dimensions() {
		switch {
		case d == 0:
		case d > 0:
			num = append(num, dimString(baseSymbols[i], d))
		default:
			den = append(den, dimString(baseSymbols[i], -d))
		}
	}

	var sb strings.Builder
	if f := u.factor(); f != 1 {
		sb.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		if len(num) > 0 || len(den) > 0 {
			sb.WriteRune('*')
		}
	}
	if len(num) == 0 && len(den) > 0 {
		num = append(num, "1")
	}
	sb.WriteString(strings.Join(num, "*"))
	if len(den) > 0 {
		sb.WriteRune('/')
		sb.WriteString(strings.Join(den, "*"))
	}
	return sb.String()
}

func dimString(symbol string, exp float64) string {
	if exp == 1 {
		return symbol
	}
	return symbol + "^" + strconv.FormatFloat(exp, 'g', -1, 64)
}
