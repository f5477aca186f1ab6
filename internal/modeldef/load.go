package modeldef

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/nomial/internal/ctxlog"
	"github.com/vk/nomial/internal/fsutil"
	"github.com/vk/nomial/internal/nomial"
	"github.com/vk/nomial/internal/units"
	"github.com/vk/nomial/internal/varkey"
)

// ErrUnknownVariable is returned when an expression references a variable
// no declaration matches.
var ErrUnknownVariable = errors.New("modeldef: unknown variable")

// Source is one named definition document, for loading from memory.
type Source struct {
	Name string
	Src  []byte
}

// Load finds and parses every .hcl file under path into one Model.
// Declarations from every file are visible to expressions in every other,
// so a model may be split across files.
func Load(ctx context.Context, path string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading model definitions.", "path", path)

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find model files in %s: %w", path, err)
	}
	if len(files) == 0 {
		logger.Warn("No .hcl model files found in path.", "path", path)
	}

	parser := hclparse.NewParser()
	roots := make([]*fileRoot, 0, len(files))
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse %s: %w", file, diags)
		}
		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode %s: %w", file, diags)
		}
		roots = append(roots, &root)
	}
	return build(ctx, roots)
}

// LoadSources parses in-memory definition documents into one Model.
func LoadSources(ctx context.Context, sources ...Source) (*Model, error) {
	parser := hclparse.NewParser()
	roots := make([]*fileRoot, 0, len(sources))
	for _, s := range sources {
		hclFile, diags := parser.ParseHCL(s.Src, s.Name)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse %s: %w", s.Name, diags)
		}
		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode %s: %w", s.Name, diags)
		}
		roots = append(roots, &root)
	}
	return build(ctx, roots)
}

// pendingExpr remembers where in the model tree an expression block sat, so
// lowering can run after every declaration is known.
type pendingExpr struct {
	lineage varkey.Lineage
	block   *expressionBlock
}

type builder struct {
	registry *varkey.Registry
	keys     []*varkey.VarKey
	pending  []pendingExpr
}

func build(ctx context.Context, roots []*fileRoot) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	b := &builder{registry: varkey.NewRegistry()}

	// First pass: declarations, depth-first through nested model blocks.
	for _, root := range roots {
		if err := b.walk(nil, root.Models, root.Variables, root.Expressions); err != nil {
			return nil, err
		}
	}
	keyset := varkey.NewKeySet(b.keys)
	logger.Debug("Declared variables.", "count", keyset.Len())

	// Second pass: lower expressions now that the full key set exists.
	model := &Model{registry: b.registry, keys: b.keys, keyset: keyset}
	for _, p := range b.pending {
		expr, err := lower(p.block, keyset)
		if err != nil {
			return nil, err
		}
		model.exprs = append(model.exprs, expr)
	}
	logger.Debug("Lowered expressions.", "count", len(model.exprs))
	return model, nil
}

func (b *builder) walk(lineage varkey.Lineage, models []*modelBlock,
	variables []*variableBlock, exprs []*expressionBlock) error {
	for _, vb := range variables {
		if err := b.declare(lineage, vb); err != nil {
			return err
		}
	}
	for _, eb := range exprs {
		b.pending = append(b.pending, pendingExpr{lineage: lineage, block: eb})
	}
	for _, mb := range models {
		seg := varkey.Segment{Model: mb.Name}
		if mb.Instance != nil {
			seg.Num = *mb.Instance
		}
		child := append(append(varkey.Lineage{}, lineage...), seg)
		if err := b.walk(child, mb.Models, mb.Variables, mb.Expressions); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) declare(lineage varkey.Lineage, vb *variableBlock) error {
	base := varkey.Descr{
		Name:     vb.Name,
		UnitRepr: vb.Units,
		Label:    vb.Label,
		Value:    vb.Value,
		Lineage:  lineage,
	}

	if len(vb.Shape) == 0 {
		k, err := b.registry.New(base)
		if err != nil {
			return fmt.Errorf("variable %q: %w", vb.Name, err)
		}
		b.keys = append(b.keys, k)
		return nil
	}

	for _, idx := range indexCombos(vb.Shape) {
		d := base
		d.Shape = vb.Shape
		d.Idx = idx
		k, err := b.registry.New(d)
		if err != nil {
			return fmt.Errorf("variable %q: %w", vb.Name, err)
		}
		b.keys = append(b.keys, k)
	}
	return nil
}

// indexCombos enumerates every multi-dimensional index of shape in
// row-major order.
func indexCombos(shape []int) [][]int {
	total := 1
	for _, n := range shape {
		total *= n
	}
	combos := make([][]int, 0, total)
	idx := make([]int, len(shape))
	for n := 0; n < total; n++ {
		combos = append(combos, append([]int(nil), idx...))
		for dim := len(shape) - 1; dim >= 0; dim-- {
			idx[dim]++
			if idx[dim] < shape[dim] {
				break
			}
			idx[dim] = 0
		}
	}
	return combos
}

func lower(eb *expressionBlock, keyset *varkey.KeySet) (*Expression, error) {
	u, err := units.Parse(eb.Units)
	if err != nil {
		return nil, fmt.Errorf("expression %q: %w", eb.Name, err)
	}

	terms := make([]nomial.Term, 0, len(eb.Terms))
	for _, tb := range eb.Terms {
		exp, err := lowerExponents(eb.Name, tb, keyset)
		if err != nil {
			return nil, err
		}
		terms = append(terms, nomial.Term{Exp: exp, C: tb.Coefficient})
	}

	m, err := nomial.NewMap(u, terms...)
	if err != nil {
		return nil, fmt.Errorf("expression %q: %w", eb.Name, err)
	}
	return &Expression{Name: eb.Name, Data: nomial.NewData(m)}, nil
}

func lowerExponents(exprName string, tb *termBlock, keyset *varkey.KeySet) (*nomial.ExpVec, error) {
	exp := nomial.EmptyExpVec()
	if tb.Exponents == nil {
		return exp, nil
	}

	val, diags := tb.Exponents.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("expression %q: bad exponents: %w", exprName, diags)
	}
	if val.IsNull() {
		return exp, nil
	}
	if !val.CanIterateElements() {
		return nil, fmt.Errorf("expression %q: %w: exponents must be an object of numbers",
			exprName, nomial.ErrMalformedTerm)
	}

	for it := val.ElementIterator(); it.Next(); {
		kv, ev := it.Element()
		name := kv.AsString()

		var e float64
		if err := gocty.FromCtyValue(ev, &e); err != nil {
			return nil, fmt.Errorf("expression %q: %w: exponent for %q: %v",
				exprName, nomial.ErrMalformedTerm, name, err)
		}

		matches := keyset.ByName(name)
		switch len(matches) {
		case 0:
			return nil, fmt.Errorf("expression %q: %w: %q", exprName, ErrUnknownVariable, name)
		case 1:
			exp = exp.With(matches[0], e)
		default:
			return nil, fmt.Errorf("expression %q: %w for %q: %v",
				exprName, nomial.ErrAmbiguousRef, name, matches)
		}
	}
	return exp, nil
}
