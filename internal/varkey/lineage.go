package varkey

import (
	"strconv"
	"strings"
)

// Segment is one level of model nesting. Num disambiguates repeated
// instantiations of the same model class; zero means the first (or only)
// instance and is omitted from the rendering.
type Segment struct {
	Model string
	Num   int
}

// Lineage is the ordered list of enclosing sub-model names qualifying a
// variable's identity, outermost first.
type Lineage []Segment

// String serializes the lineage into its canonical dotted path, including
// instance numbers, e.g. "Aircraft.Wing1.Spar".
func (l Lineage) String() string {
	return l.render(true)
}

// StringWithoutNums renders the path with instance numbers elided, used for
// the clean (display) form of a variable name.
func (l Lineage) StringWithoutNums() string {
	return l.render(false)
}

func (l Lineage) render(withNums bool) string {
	var sb strings.Builder
	for i, seg := range l {
		if i > 0 {
			sb.WriteRune('.')
		}
		sb.WriteString(seg.Model)
		if withNums && seg.Num > 0 {
			sb.WriteString(strconv.Itoa(seg.Num))
		}
	}
	return sb.String()
}

// Equal checks for deep equality between two lineages.
func (l Lineage) Equal(other Lineage) bool {
	if len(l) != len(other) {
		return false
	}
	for i, seg := range l {
		if seg != other[i] {
			return false
		}
	}
	return true
}

// Models returns just the model names along the path.
func (l Lineage) Models() []string {
	names := make([]string, len(l))
	for i, seg := range l {
		names[i] = seg.Model
	}
	return names
}
