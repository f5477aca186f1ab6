package varkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeySet_DedupAndOrder(t *testing.T) {
	r := NewRegistry()
	x := mustKey(t, r, Descr{Name: "x", UnitRepr: "m"})
	xAgain := mustKey(t, r, Descr{Name: "x", UnitRepr: "m"})
	y := mustKey(t, r, Descr{Name: "y"})

	s := NewKeySet([]*VarKey{x, y, xAgain})
	assert.Equal(t, 2, s.Len())
	assert.Same(t, x, s.Keys()[0])
	assert.Same(t, y, s.Keys()[1])
}

func TestKeySet_ByKey(t *testing.T) {
	r := NewRegistry()
	x := mustKey(t, r, Descr{Name: "x", UnitRepr: "m"})
	s := NewKeySet([]*VarKey{x})

	probe := mustKey(t, r, Descr{Name: "x", UnitRepr: "m"})
	assert.Same(t, x, s.ByKey(probe), "equal probe resolves to the member key")

	other := mustKey(t, r, Descr{Name: "x", UnitRepr: "ft"})
	assert.Nil(t, s.ByKey(other))
}

func TestKeySet_ByNameAmbiguity(t *testing.T) {
	r := NewRegistry()
	wingS := mustKey(t, r, Descr{Name: "S", Lineage: Lineage{{Model: "Wing"}}})
	tailS := mustKey(t, r, Descr{Name: "S", Lineage: Lineage{{Model: "Tail"}}})
	s := NewKeySet([]*VarKey{wingS, tailS})

	// The bare name is ambiguous; the lineage-qualified rendering is not.
	assert.Len(t, s.ByName("S"), 2)
	require.Len(t, s.ByName("S_Wing"), 1)
	assert.Same(t, wingS, s.ByName("S_Wing")[0])
	assert.Empty(t, s.ByName("S_Fuselage"))
}

func TestKeySet_ByNameResultIsCallerOwned(t *testing.T) {
	r := NewRegistry()
	wingS := mustKey(t, r, Descr{Name: "S", Lineage: Lineage{{Model: "Wing"}}})
	tailS := mustKey(t, r, Descr{Name: "S", Lineage: Lineage{{Model: "Tail"}}})
	s := NewKeySet([]*VarKey{wingS, tailS})

	got := s.ByName("S")
	require.Len(t, got, 2)
	got[0], got[1] = got[1], got[0]
	_ = append(got, wingS)

	// Mutating a previous result must not disturb the index.
	fresh := s.ByName("S")
	require.Len(t, fresh, 2)
	assert.Same(t, wingS, fresh[0])
	assert.Same(t, tailS, fresh[1])
}

func TestKeySet_ComponentAliases(t *testing.T) {
	r := NewRegistry()
	c0 := mustKey(t, r, Descr{Name: "w", Shape: []int{2}, Idx: []int{0}})
	c1 := mustKey(t, r, Descr{Name: "w", Shape: []int{2}, Idx: []int{1}})
	s := NewKeySet([]*VarKey{c0, c1})

	// The index-less alias reaches every component of the vector.
	assert.Len(t, s.ByName("w"), 2)
	require.Len(t, s.ByName("w[1]"), 1)
	assert.Same(t, c1, s.ByName("w[1]")[0])
}
