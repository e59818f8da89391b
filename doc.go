// Package sciunit is a test-driven framework for validation of
// quantitative scientific models.
//
// A Test declares the capabilities a model must provide, holds an
// empirical observation, and knows how to turn a model's prediction into
// a typed Score. Judge runs the full protocol for one (test, model)
// pair; a TestSuite batches many tests against many models and collects
// the results into a ScoreMatrix keyed by (test, model).
//
// Models provide capabilities by implementing capability interfaces on
// their own concrete types; conformance is an interface query, never
// configuration.
package sciunit
