/*
Package nomial implements the canonical, hashable representation of sums of
monomial terms — the intermediate form between a modeling front-end and a
numerical optimizer.

Three layers, leaf first:

  - ExpVec: one term's algebraic shape, a sparse variable→exponent mapping
    with an order-independent content hash.
  - Map: a sum of monomials as an insertion-ordered mapping from ExpVec to a
    signed coefficient, with one unit attached to the whole sum. Map is
    where canonicalization happens: duplicate exponent vectors are combined
    at construction, and terms that cancel to exact zero during arithmetic
    are pruned. A Map with any non-positive coefficient is a signomial;
    all-positive, a posynomial; a single term, a monomial.
  - Data: a read-mostly aggregate over an already-canonical Map, exposing
    memoized derived views (Exps, Cs, Varlocs, Varkeys, Values, content
    hash) that are realized together on first access and invalidated
    together on Reset.

Zero handling is deliberate and easy to get wrong: coefficients that are
zero on input (e.g. the derivative of a constant) are legitimate terms and
are retained, while coefficients that become exactly zero as a result of
arithmetic are pruned. Differentiating with respect to a variable that does
not appear anywhere is not an error; the result is the zero constant.
*/
package nomial
