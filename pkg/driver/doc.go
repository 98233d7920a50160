// Package driver defines the GraphStore abstraction over the code
// property graph database and provides the Neo4j implementation.
//
// The retrieval path is strictly read-only: every operation exposed here
// issues read queries and is safe for concurrent use over the driver's
// shared connection pool.
package driver
