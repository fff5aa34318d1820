// Package engine provides Memory, an in-memory implementation of
// external.Engine.
//
// Memory models the parts of a host engine that packages can reach through
// the callback interface: globals, handler variables (scalar or keyed),
// a card and a background layer holding fields and images, a message log and
// an expression evaluator. The CLI and the HTTP server use it as their host
// engine, and tests use it to observe package side effects.
package engine
