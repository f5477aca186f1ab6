package nomial

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/nomial/internal/units"
	"github.com/vk/nomial/internal/varkey"
)

func TestData_EagerViews(t *testing.T) {
	vars := newVars(t, "x", "y")
	x, y := vars[0], vars[1]

	d := NewData(mustMap(t, nil,
		Term{Exp: EmptyExpVec().With(x, 1).With(y, 1), C: 2},
		Term{Exp: EmptyExpVec().With(x, 2), C: 3},
	))

	require.Len(t, d.Vks(), 2)
	assert.Same(t, x, d.Vks()[0], "first-appearance order")
	assert.Same(t, y, d.Vks()[1])
	assert.False(t, d.AnyNonpositiveCs())

	signomial := NewData(mustMap(t, nil, Term{Exp: EmptyExpVec().With(x, 1), C: -2}))
	assert.True(t, signomial.AnyNonpositiveCs())
}

func TestData_ExpsCsPairing(t *testing.T) {
	vars := newVars(t, "x", "y")
	x, y := vars[0], vars[1]
	ex := EmptyExpVec().With(x, 1)
	ey := EmptyExpVec().With(y, 2)

	d := NewData(mustMap(t, nil, Term{Exp: ex, C: 3}, Term{Exp: ey, C: -1}))

	exps, cs := d.Exps(), d.Cs()
	require.Len(t, exps, 2)
	require.Len(t, cs, 2)
	for i := range exps {
		c, ok := d.Map().Coeff(exps[i])
		require.True(t, ok)
		assert.Equal(t, c, cs[i], "Exps()[i] must pair with Cs()[i]")
	}
}

func TestData_Varlocs(t *testing.T) {
	vars := newVars(t, "x", "y")
	x, y := vars[0], vars[1]

	d := NewData(mustMap(t, nil,
		Term{Exp: EmptyExpVec().With(x, 1), C: 1},
		Term{Exp: EmptyExpVec().With(x, 1).With(y, 1), C: 2},
		Term{Exp: EmptyExpVec().With(y, 2), C: 3},
	))

	assert.Empty(t, cmp.Diff([]int{0, 1}, d.Varlocs(x)))
	assert.Empty(t, cmp.Diff([]int{1, 2}, d.Varlocs(y)))

	absent := newVars(t, "z")[0]
	assert.Empty(t, d.Varlocs(absent))
}

func TestData_Values(t *testing.T) {
	r := varkey.NewRegistry()
	val := 9.81
	g, err := r.New(varkey.Descr{Name: "g", UnitRepr: "m/s^2", Value: &val})
	require.NoError(t, err)
	h, err := r.New(varkey.Descr{Name: "h", UnitRepr: "m"})
	require.NoError(t, err)

	d := NewData(mustMap(t, units.MustParse("J"),
		Term{Exp: EmptyExpVec().With(g, 1).With(h, 1), C: 1}))

	values := d.Values()
	require.Len(t, values, 1)
	assert.Equal(t, 9.81, values[g])
}

func TestData_HashEqualityAgreement(t *testing.T) {
	vars := newVars(t, "x", "y")
	x, y := vars[0], vars[1]
	tx := Term{Exp: EmptyExpVec().With(x, 1), C: 2}
	ty := Term{Exp: EmptyExpVec().With(y, 1), C: 5}

	a := NewData(mustMap(t, nil, tx, ty))
	b := NewData(mustMap(t, nil, ty, tx))

	assert.True(t, a.Equal(b), "enumeration order must not affect equality")
	assert.Equal(t, a.Hash(), b.Hash())
	assert.Equal(t, a.Hash(), a.Hash(), "hash is stable across calls")
}

func TestData_Reset(t *testing.T) {
	vars := newVars(t, "x", "y")
	x, y := vars[0], vars[1]

	d := NewData(mustMap(t, nil, Term{Exp: EmptyExpVec().With(x, 1), C: 1}))
	firstHash := d.Hash()
	require.Len(t, d.Exps(), 1)

	d.Reset(mustMap(t, nil, Term{Exp: EmptyExpVec().With(y, 3), C: 2}))

	// Every view reflects the new map; nothing stale survives.
	require.Len(t, d.Vks(), 1)
	assert.Same(t, y, d.Vks()[0])
	require.Len(t, d.Exps(), 1)
	e, ok := d.Exps()[0].Exp(y)
	require.True(t, ok)
	assert.Equal(t, 3.0, e)
	assert.Empty(t, d.Varlocs(x))
	assert.NotEqual(t, firstHash, d.Hash())
}

func TestData_DiffAbsentVariableIsZero(t *testing.T) {
	x := newVars(t, "x")[0]
	d := NewData(mustMap(t, units.MustParse("m"),
		Term{Exp: EmptyExpVec().With(x, 2), C: 1}))

	fresh := newVars(t, "y")[0]
	dz, err := d.Diff(fresh)
	require.NoError(t, err)
	assert.True(t, dz.Map().Equal(Zero()))
	assert.Nil(t, dz.Units(), "the zero constant carries no unit")
}

func TestData_DiffResolvesThroughKeySet(t *testing.T) {
	r := varkey.NewRegistry()
	x, err := r.New(varkey.Descr{Name: "x", UnitRepr: "m"})
	require.NoError(t, err)

	d := NewData(mustMap(t, units.MustParse("m^2"),
		Term{Exp: EmptyExpVec().With(x, 2), C: 1}))

	// An equal key from another registry resolves to the member key.
	r2 := varkey.NewRegistry()
	probe, err := r2.New(varkey.Descr{Name: "x", UnitRepr: "m"})
	require.NoError(t, err)

	dx, err := d.Diff(probe)
	require.NoError(t, err)
	c, ok := dx.Map().Coeff(EmptyExpVec().With(x, 1))
	require.True(t, ok)
	assert.Equal(t, 2.0, c)
	assert.True(t, units.Equal(units.MustParse("m"), dx.Units()))
}

func TestData_DiffVeckey(t *testing.T) {
	r := varkey.NewRegistry()
	c0, err := r.New(varkey.Descr{Name: "w", UnitRepr: "m", Shape: []int{2}, Idx: []int{0}})
	require.NoError(t, err)
	c1, err := r.New(varkey.Descr{Name: "w", UnitRepr: "m", Shape: []int{2}, Idx: []int{1}})
	require.NoError(t, err)

	d := NewData(mustMap(t, units.MustParse("m^2"),
		Term{Exp: EmptyExpVec().With(c0, 2), C: 1},
		Term{Exp: EmptyExpVec().With(c1, 2), C: 1},
	))

	// The vector-level key reaches every component, so it cannot name a
	// single differentiation target.
	_, err = d.Diff(c0.Veckey())
	require.ErrorIs(t, err, ErrAmbiguousRef)

	// With exactly one component participating it resolves to that one.
	single := NewData(mustMap(t, units.MustParse("m^2"),
		Term{Exp: EmptyExpVec().With(c0, 2), C: 1}))
	ds, err := single.Diff(c0.Veckey())
	require.NoError(t, err)
	c, ok := ds.Map().Coeff(EmptyExpVec().With(c0, 1))
	require.True(t, ok)
	assert.Equal(t, 2.0, c)

	// A veckey of an entirely absent vector still differentiates to zero.
	v, err := r.New(varkey.Descr{Name: "v", Shape: []int{2}, Idx: []int{0}})
	require.NoError(t, err)
	dz, err := d.Diff(v.Veckey())
	require.NoError(t, err)
	assert.True(t, dz.Map().Equal(Zero()))
}

func TestData_DiffName(t *testing.T) {
	r := varkey.NewRegistry()
	wingS, err := r.New(varkey.Descr{Name: "S", Lineage: varkey.Lineage{{Model: "Wing"}}})
	require.NoError(t, err)
	tailS, err := r.New(varkey.Descr{Name: "S", Lineage: varkey.Lineage{{Model: "Tail"}}})
	require.NoError(t, err)

	d := NewData(mustMap(t, nil,
		Term{Exp: EmptyExpVec().With(wingS, 1), C: 2},
		Term{Exp: EmptyExpVec().With(tailS, 1), C: 3},
	))

	_, err = d.DiffName("S")
	require.ErrorIs(t, err, ErrAmbiguousRef)

	dw, err := d.DiffName("S_Wing")
	require.NoError(t, err)
	c, ok := dw.Map().Coeff(EmptyExpVec())
	require.True(t, ok)
	assert.Equal(t, 2.0, c)

	dz, err := d.DiffName("S_Fuselage")
	require.NoError(t, err)
	assert.True(t, dz.Map().Equal(Zero()))
}
