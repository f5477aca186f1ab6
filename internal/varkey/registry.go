package varkey

import (
	"strconv"
	"sync/atomic"
)

// Counter is the injected monotonic id service used to synthesize names for
// anonymous variables. It is the one piece of process-wide mutable state the
// identity model needs; it resets only at process start. The atomic counter
// tolerates concurrent model construction even though the core otherwise
// assumes a single construction thread.
type Counter struct {
	n atomic.Int64
}

// Next returns the next unique id, starting from 1.
func (c *Counter) Next() int {
	return int(c.n.Add(1))
}

// Registry constructs VarKeys. It owns the anonymous-name counter and the
// shared veckey table: each vectorized variable's representative key is
// synthesized exactly once, on first component construction, and every
// later component with the same lineage-qualified identity shares it.
type Registry struct {
	counter Counter
	veckeys map[string]*VarKey
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{veckeys: make(map[string]*VarKey)}
}

// New builds a VarKey from a descriptor. An empty Name is replaced with a
// synthesized placeholder using the registry's counter. For vector
// components (Idx set) the shared veckey is resolved or created as a side
// effect.
func (r *Registry) New(d Descr) (*VarKey, error) {
	if d.Name == "" {
		d.Name = "anon" + strconv.Itoa(r.counter.Next())
	}

	k, err := newFromDescr(d)
	if err != nil {
		return nil, err
	}

	if d.Idx != nil {
		vk, err := r.veckeyFor(k)
		if err != nil {
			return nil, err
		}
		k.veckey = vk
	}
	return k, nil
}

// FromKey derives a key that shares an existing key's descriptor. Callers
// typically override fields of k.Descr() first (a rename or rehome); the
// result is a fresh identity computed from the amended descriptor, not a
// mutation of k.
func (r *Registry) FromKey(k *VarKey) (*VarKey, error) {
	return r.New(k.Descr())
}

// veckeyFor resolves the shared representative key for component's vector,
// creating and caching it on first use. The veckey is the component's
// descriptor minus Idx, so a freshly built key with those attributes
// compares equal to it.
func (r *Registry) veckeyFor(component *VarKey) (*VarKey, error) {
	d := component.Descr()
	d.Idx = nil

	probe, err := newFromDescr(d)
	if err != nil {
		return nil, err
	}
	if existing, ok := r.veckeys[probe.EqStr()]; ok {
		return existing, nil
	}
	r.veckeys[probe.EqStr()] = probe
	return probe, nil
}
