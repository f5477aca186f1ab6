/*
Package varkey provides the structured, hashable identity token for every
scalar variable (and every component of a vectorized variable) in a model.

Identity is defined by the canonical equality string: the rendered name plus
the full lineage path plus the unit representation. Two keys are equal iff
those strings match; a short name alone is never sufficient, since the same
name may be declared by different sub-models or with different units.

Keys are immutable after construction and are shared read-only by every
exponent vector that mentions them. Construction goes through a Registry,
which owns the process-wide anonymous-name counter and the shared veckey
table for vectorized variables.
*/
package varkey
