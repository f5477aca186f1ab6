package units

import (
	"fmt"
	"strconv"
	"strings"
)

func base(dim int) Unit {
	u := Unit{scale: 1}
	u.dims[dim] = 1
	return u
}

func scaled(u Unit, k float64) Unit {
	u.scale *= k
	return u
}

func derived(scale float64, mass, length, time float64) Unit {
	u := Unit{scale: scale}
	u.dims[dimMass] = mass
	u.dims[dimLength] = length
	u.dims[dimTime] = time
	return u
}

// symbols maps unit symbols to their definitions. Enough SI and common
// engineering units to cover the models this core is asked to canonicalize;
// unknown symbols are a parse error, not a silent dimensionless fallback.
var symbols = map[string]Unit{
	"kg":  base(dimMass),
	"g":   scaled(base(dimMass), 1e-3),
	"lb":  scaled(base(dimMass), 0.45359237),
	"t":   scaled(base(dimMass), 1e3),
	"m":   base(dimLength),
	"cm":  scaled(base(dimLength), 1e-2),
	"mm":  scaled(base(dimLength), 1e-3),
	"km":  scaled(base(dimLength), 1e3),
	"in":  scaled(base(dimLength), 0.0254),
	"ft":  scaled(base(dimLength), 0.3048),
	"s":   base(dimTime),
	"min": scaled(base(dimTime), 60),
	"h":   scaled(base(dimTime), 3600),
	"A":   base(dimCurrent),
	"K":   base(dimTemperature),
	"mol": base(dimAmount),
	"cd":  base(dimLuminosity),

	"Hz":  derived(1, 0, 0, -1),
	"N":   derived(1, 1, 1, -2),
	"lbf": derived(4.4482216152605, 1, 1, -2),
	"Pa":  derived(1, 1, -1, -2),
	"kPa": derived(1e3, 1, -1, -2),
	"J":   derived(1, 1, 2, -2),
	"kJ":  derived(1e3, 1, 2, -2),
	"W":   derived(1, 1, 2, -3),
	"kW":  derived(1e3, 1, 2, -3),

	// Dimensionless but named; scale distinguishes them from the sentinel.
	"rad":     {scale: 1},
	"percent": {scale: 0.01},
	"count":   {scale: 1},
}

// Parse resolves a unit expression like "N*m", "kg*m/s^2", or "m^0.5" to a
// canonical Unit. The inputs "" and "-" both denote the dimensionless
// sentinel and resolve to nil.
func Parse(s string) (*Unit, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return nil, nil
	}

	// At most one solidus; everything after it divides.
	numStr, denStr, hasDen := strings.Cut(s, "/")
	result := Unit{scale: 1}

	apply := func(part string, sign float64) error {
		for _, factor := range strings.Split(part, "*") {
			u, err := parseFactor(strings.TrimSpace(factor))
			if err != nil {
				return err
			}
			p := Pow(&u, sign)
			result = *mulValue(result, p)
		}
		return nil
	}

	if err := apply(numStr, 1); err != nil {
		return nil, err
	}
	if hasDen {
		if strings.Contains(denStr, "/") {
			return nil, fmt.Errorf("units: %q: at most one '/' allowed", s)
		}
		if err := apply(denStr, -1); err != nil {
			return nil, err
		}
	}

	return normalize(result.dims, result.scale), nil
}

// MustParse is Parse for trusted, compile-time-constant inputs.
func MustParse(s string) *Unit {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

func mulValue(a Unit, b *Unit) *Unit {
	out := a
	for i, d := range b.dimensions() {
		out.dims[i] += d
	}
	out.scale *= b.factor()
	return &out
}

// parseFactor parses a single "symbol", "symbol^exp", or bare numeric
// scale factor. Numeric factors keep canonical strings like "1000*m"
// round-trippable through Parse.
func parseFactor(s string) (Unit, error) {
	if s == "" || s == "1" {
		return Unit{scale: 1}, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Unit{scale: f}, nil
	}
	symbol, expStr, hasExp := strings.Cut(s, "^")
	u, ok := symbols[symbol]
	if !ok {
		return Unit{}, fmt.Errorf("units: unknown unit %q", symbol)
	}
	if !hasExp {
		return u, nil
	}
	exp, err := strconv.ParseFloat(expStr, 64)
	if err != nil {
		return Unit{}, fmt.Errorf("units: bad exponent in %q: %w", s, err)
	}
	p := Pow(&u, exp)
	if p == nil {
		return Unit{scale: 1}, nil
	}
	return *p, nil
}
