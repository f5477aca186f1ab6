package modeldef

import (
	"github.com/vk/nomial/internal/nomial"
	"github.com/vk/nomial/internal/varkey"
)

// Expression is a named, canonicalized algebraic expression from a model
// definition.
type Expression struct {
	Name string
	Data *nomial.Data
}

// Model is the loaded result: every declared variable key and every
// lowered expression, in declaration order across all files.
type Model struct {
	registry *varkey.Registry
	keys     []*varkey.VarKey
	keyset   *varkey.KeySet
	exprs    []*Expression
}

// Registry returns the registry the model's keys were constructed with,
// for callers that derive further keys (renames, probes).
func (m *Model) Registry() *varkey.Registry { return m.registry }

// Vars returns the declared variable keys in declaration order; vector
// declarations appear as their expanded components.
func (m *Model) Vars() []*varkey.VarKey { return m.keys }

// Keys returns the alias-indexed KeySet over every declared variable.
func (m *Model) Keys() *varkey.KeySet { return m.keyset }

// Expressions returns the lowered expressions in declaration order.
func (m *Model) Expressions() []*Expression { return m.exprs }

// Expression returns the first expression with the given name, or nil.
func (m *Model) Expression(name string) *Expression {
	for _, e := range m.exprs {
		if e.Name == name {
			return e
		}
	}
	return nil
}
