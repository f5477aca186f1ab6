package export

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/nomial/internal/nomial"
	"github.com/vk/nomial/internal/units"
	"github.com/vk/nomial/internal/varkey"
)

func dragData(t *testing.T) (*nomial.Data, *varkey.KeySet) {
	t.Helper()
	r := varkey.NewRegistry()
	x, err := r.New(varkey.Descr{Name: "x", UnitRepr: "m"})
	require.NoError(t, err)
	y, err := r.New(varkey.Descr{Name: "y", UnitRepr: "m"})
	require.NoError(t, err)

	m, err := nomial.NewMap(units.MustParse("m^2"),
		nomial.Term{Exp: nomial.EmptyExpVec().With(x, 1).With(y, 1), C: 2},
		nomial.Term{Exp: nomial.EmptyExpVec().With(x, 2), C: -0.5},
		nomial.Term{Exp: nomial.EmptyExpVec(), C: 3},
	)
	require.NoError(t, err)
	return nomial.NewData(m), varkey.NewKeySet([]*varkey.VarKey{x, y})
}

func TestMarshal_Shape(t *testing.T) {
	d, _ := dragData(t)

	raw, err := Marshal(d)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "m^2", doc.Units)
	require.Len(t, doc.Terms, 3)
	assert.Empty(t, cmp.Diff(map[string]float64{"x": 1, "y": 1}, doc.Terms[0].Exponents))
	assert.Equal(t, -0.5, doc.Terms[1].Coefficient)
	assert.Nil(t, doc.Terms[2].Exponents, "constant term has no exponents")
}

func TestRoundTrip(t *testing.T) {
	d, keys := dragData(t)

	raw, err := Marshal(d)
	require.NoError(t, err)

	back, err := Unmarshal(raw, keys)
	require.NoError(t, err)
	assert.True(t, d.Equal(back))
	assert.Equal(t, d.Hash(), back.Hash())
}

func TestRoundTrip_Dimensionless(t *testing.T) {
	r := varkey.NewRegistry()
	x, err := r.New(varkey.Descr{Name: "x"})
	require.NoError(t, err)

	m, err := nomial.NewMap(nil, nomial.Term{Exp: nomial.EmptyExpVec().With(x, 3), C: 7})
	require.NoError(t, err)
	d := nomial.NewData(m)

	raw, err := Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"units":"-"`)

	back, err := Unmarshal(raw, varkey.NewKeySet([]*varkey.VarKey{x}))
	require.NoError(t, err)
	assert.True(t, d.Equal(back))
}

func TestUnmarshal_UnknownKey(t *testing.T) {
	_, err := Unmarshal([]byte(`{"terms":[{"exponents":{"ghost":1},"coefficient":1}],"units":"-"}`),
		varkey.NewKeySet(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no key")
}

func TestMatrix(t *testing.T) {
	d, _ := dragData(t)

	v := Matrix(d)
	require.NotNil(t, v.A)
	rows, cols := v.A.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 2, cols)

	// Row/column layout follows the Exps/Cs pairing and Vks order.
	assert.Equal(t, 1.0, v.A.At(0, 0))
	assert.Equal(t, 1.0, v.A.At(0, 1))
	assert.Equal(t, 2.0, v.A.At(1, 0))
	assert.Equal(t, 0.0, v.A.At(1, 1))
	assert.Equal(t, 0.0, v.A.At(2, 0))

	require.Equal(t, 3, v.Cs.Len())
	assert.Equal(t, 2.0, v.Cs.AtVec(0))
	assert.Equal(t, -0.5, v.Cs.AtVec(1))
	assert.Equal(t, 3.0, v.Cs.AtVec(2))
}

func TestMatrix_ConstantOnly(t *testing.T) {
	d := nomial.NewData(nomial.Const(4, nil))
	v := Matrix(d)
	assert.Nil(t, v.A)
	require.NotNil(t, v.Cs)
	assert.Equal(t, 4.0, v.Cs.AtVec(0))
}
