package export

import (
	"encoding/json"
	"fmt"

	"github.com/vk/nomial/internal/nomial"
	"github.com/vk/nomial/internal/units"
	"github.com/vk/nomial/internal/varkey"
)

// Term is the persisted form of one monomial: exponents keyed by the
// variable's full rendered name, plus the coefficient.
type Term struct {
	Exponents   map[string]float64 `json:"exponents,omitempty"`
	Coefficient float64            `json:"coefficient"`
}

// Document is the persisted form of one aggregate: the ordered term list
// and the unit's canonical string ("-" when dimensionless).
type Document struct {
	Terms []Term `json:"terms"`
	Units string `json:"units"`
}

// Marshal renders d as its persisted JSON form. Term order follows the
// map's enumeration order; each term's exponent map is keyed by the full
// variable rendering, which is resolvable back through a KeySet.
func Marshal(d *nomial.Data) ([]byte, error) {
	doc := Document{
		Terms: make([]Term, len(d.Exps())),
		Units: d.Units().String(),
	}
	for i, exp := range d.Exps() {
		t := Term{Coefficient: d.Cs()[i]}
		if exp.Len() > 0 {
			t.Exponents = make(map[string]float64, exp.Len())
			exp.Range(func(k *varkey.VarKey, e float64) {
				t.Exponents[k.String()] = e
			})
		}
		doc.Terms[i] = t
	}
	return json.Marshal(doc)
}

// Unmarshal reconstructs an aggregate from its persisted form, resolving
// every exponent key through keys. Unknown or ambiguous references are
// errors; the caller owns deciding which keys are in scope.
func Unmarshal(data []byte, keys *varkey.KeySet) (*nomial.Data, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	u, err := units.Parse(doc.Units)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	terms := make([]nomial.Term, len(doc.Terms))
	for i, t := range doc.Terms {
		exp := nomial.EmptyExpVec()
		for name, e := range t.Exponents {
			matches := keys.ByName(name)
			switch len(matches) {
			case 0:
				return nil, fmt.Errorf("export: no key for %q", name)
			case 1:
				exp = exp.With(matches[0], e)
			default:
				return nil, fmt.Errorf("export: %w for %q", nomial.ErrAmbiguousRef, name)
			}
		}
		terms[i] = nomial.Term{Exp: exp, C: t.Coefficient}
	}

	m, err := nomial.NewMap(u, terms...)
	if err != nil {
		return nil, err
	}
	return nomial.NewData(m), nil
}
