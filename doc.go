// Package codegraph answers natural-language questions about a
// codebase stored as a property graph. It combines lexical and vector
// search, expands hits with structural graph context, and drives a
// self-correcting generate/verify/refine loop that checks generated
// relationship claims against the graph before trusting them.
package codegraph
