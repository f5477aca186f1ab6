// Package app wires the model loader and the algebra core into a runnable
// application: it owns the configured logger, loads a model definition
// from disk, and reports each expression's canonical form (and optionally
// its derivative) to the output writer.
package app
