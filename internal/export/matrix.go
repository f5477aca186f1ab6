package export

import (
	"gonum.org/v1/gonum/mat"

	"github.com/vk/nomial/internal/nomial"
	"github.com/vk/nomial/internal/varkey"
)

// Views is the solver-ready numeric form of one aggregate: A[i][j] holds
// the exponent of variable Vars[j] in term i, Cs[i] its coefficient. Row
// order matches the aggregate's Exps/Cs pairing; column order is the
// aggregate's first-appearance variable order.
type Views struct {
	A    *mat.Dense
	Cs   *mat.VecDense
	Vars []*varkey.VarKey
}

// Matrix lowers d into its dense exponent matrix and coefficient vector.
// A constant-only aggregate (no variables) yields a nil A and a populated
// coefficient vector; a fully cancelled (empty) aggregate yields nil for
// both.
func Matrix(d *nomial.Data) *Views {
	vks := d.Vks()
	exps := d.Exps()

	v := &Views{Vars: vks}
	if len(exps) == 0 {
		return v
	}
	v.Cs = mat.NewVecDense(len(exps), append([]float64(nil), d.Cs()...))
	if len(vks) == 0 {
		return v
	}

	v.A = mat.NewDense(len(exps), len(vks), nil)
	for j, k := range vks {
		// varlocs keeps this from rescanning terms the variable is absent from.
		for _, i := range d.Varlocs(k) {
			if e, ok := exps[i].Exp(k); ok {
				v.A.Set(i, j, e)
			}
		}
	}
	return v
}
