package modeldef

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot represents the top-level structure of a model definition file
// for decoding.
type fileRoot struct {
	Models      []*modelBlock      `hcl:"model,block"`
	Variables   []*variableBlock   `hcl:"variable,block"`
	Expressions []*expressionBlock `hcl:"expression,block"`
}

// modelBlock is a `model` block: one level of lineage. Blocks nest.
type modelBlock struct {
	Name        string             `hcl:"name,label"`
	Instance    *int               `hcl:"instance,optional"`
	Models      []*modelBlock      `hcl:"model,block"`
	Variables   []*variableBlock   `hcl:"variable,block"`
	Expressions []*expressionBlock `hcl:"expression,block"`
}

// variableBlock is a `variable` block. A non-empty shape declares a
// vectorized variable whose components are expanded at load time.
type variableBlock struct {
	Name  string   `hcl:"name,label"`
	Units string   `hcl:"units,optional"`
	Label string   `hcl:"label,optional"`
	Value *float64 `hcl:"value,optional"`
	Shape []int    `hcl:"shape,optional"`
}

// expressionBlock is an `expression` block: a named sum of monomial terms
// with one unit.
type expressionBlock struct {
	Name  string       `hcl:"name,label"`
	Units string       `hcl:"units,optional"`
	Terms []*termBlock `hcl:"term,block"`
}

// termBlock is one monomial term. Exponents is kept as a raw expression so
// its keys can be arbitrary (lineage-qualified, indexed) variable
// references; it is evaluated to a string→number object during lowering.
type termBlock struct {
	Coefficient float64        `hcl:"coefficient"`
	Exponents   hcl.Expression `hcl:"exponents,optional"`
}
