/*
Package export renders canonical nomial aggregates at the two boundaries
downstream layers consume:

  - the minimal persisted shape, an ordered list of (exponent-map,
    coefficient) pairs plus the unit string, as JSON; and
  - the solver-facing numeric views, a dense exponent matrix (one row per
    term, one column per participating variable) paired with the
    coefficient vector.

Reconstruction resolves exponent keys through a caller-supplied KeySet, so
a round trip through the persisted form preserves variable identity rather
than inventing fresh keys.
*/
package export
