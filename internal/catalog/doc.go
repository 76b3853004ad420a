// Package catalog holds the static retail data (store directory, curated
// catalog) and the procedural generator that synthesizes candidates for
// queries no other source covers.
//
// The generator is intentionally non-deterministic: the same query yields
// different items on every call. Tests seed the random source and assert
// distributional properties only.
package catalog
