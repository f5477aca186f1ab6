package varkey

// KeySet is an insertion-ordered, deduplicated set of VarKeys with an alias
// index for name-based resolution. It backs the lookups differentiation and
// substitution perform: an exact key probe can match at most one key, while
// a string probe may legitimately match several (same short name declared
// under different lineages) and the caller decides whether that ambiguity
// is an error.
type KeySet struct {
	keys    []*VarKey
	present map[string]struct{}
	byAlias map[string][]*VarKey
}

// NewKeySet builds a KeySet from keys, collapsing duplicates (by identity
// string) while preserving first-seen order.
func NewKeySet(keys []*VarKey) *KeySet {
	s := &KeySet{
		present: make(map[string]struct{}, len(keys)),
		byAlias: make(map[string][]*VarKey),
	}
	for _, k := range keys {
		s.add(k)
	}
	return s
}

func (s *KeySet) add(k *VarKey) {
	if _, ok := s.present[k.EqStr()]; ok {
		return
	}
	s.present[k.EqStr()] = struct{}{}
	s.keys = append(s.keys, k)
	for _, alias := range k.aliases() {
		bucket := s.byAlias[alias]
		if !containsKey(bucket, k) {
			s.byAlias[alias] = append(bucket, k)
		}
	}
}

// aliases are the strings under which a key can be referenced: its short
// name, its clean and full renderings, and, for vector components, the
// index-less forms shared with its veckey.
func (k *VarKey) aliases() []string {
	out := []string{k.descr.Name, k.cleanstr, k.fullstr}
	if k.descr.Idx != nil {
		out = append(out,
			k.strWithout([]string{"idx"}),
			k.strWithout([]string{"idx", "modelnums"}),
		)
	}
	return dedupStrings(out)
}

// Len returns the number of distinct keys.
func (s *KeySet) Len() int { return len(s.keys) }

// Keys returns the distinct keys in first-seen order. The caller must not
// modify the returned slice.
func (s *KeySet) Keys() []*VarKey { return s.keys }

// Contains reports whether an identical key is in the set.
func (s *KeySet) Contains(k *VarKey) bool {
	_, ok := s.present[k.EqStr()]
	return ok
}

// ByKey resolves an exact key probe: the matching member key, or nil.
func (s *KeySet) ByKey(k *VarKey) *VarKey {
	if !s.Contains(k) {
		return nil
	}
	for _, member := range s.keys {
		if member.Equal(k) {
			return member
		}
	}
	return nil
}

// ByName resolves a string probe against the alias index. Zero, one, or
// several keys may match. The returned slice is the caller's to keep and
// mutate.
func (s *KeySet) ByName(name string) []*VarKey {
	return append([]*VarKey(nil), s.byAlias[name]...)
}

func containsKey(keys []*VarKey, k *VarKey) bool {
	for _, member := range keys {
		if member.Equal(k) {
			return true
		}
	}
	return false
}

func dedupStrings(in []string) []string {
	out := in[:0]
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
