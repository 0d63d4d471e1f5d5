// Package pipe implements the resource transformation engine: pipes
// read resources from a content tree, transform them, and hand their
// output to the next pipe in a chain.
//
// A pipe is configured by a resource whose type selects its
// implementation from the [Plumber] registry. String properties may
// embed expressions between ${ and }; they are evaluated against the
// execution [Bindings] when the pipe runs.
package pipe
