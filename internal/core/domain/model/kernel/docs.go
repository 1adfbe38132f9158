// Package kernel contains shared value objects used across the domain model.
//
// Value objects in this package are immutable, validated at construction,
// and safe for concurrent use. They wrap primitive or third-party types
// to give them domain meaning and to centralize validation:
//
//   - UUID: entity/aggregate identifier wrapping github.com/google/uuid
//
// Every value object exposes a Validate method so aggregates restored
// from persistence can re-check their invariants.
package kernel
