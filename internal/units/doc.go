/*
Package units implements the unit service consumed by variable identity and
monomial-map reconciliation.

A unit is an exponent vector over the seven SI base dimensions plus a scale
factor relative to SI base units. The nil *Unit is the single canonical
dimensionless sentinel: Parse maps "", "-", and pure-number inputs to nil so
that dimensionless quantities built on different code paths compare and hash
identically.

The package deliberately exposes only what the algebra core needs: parsing,
a canonical display string, combination (Mul, Div, Pow), compatibility
checking, and conversion factors. It is not a general quantity library.
*/
package units
