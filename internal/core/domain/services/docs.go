// Package services contains stateless domain services: business decisions
// that span aggregates or configuration but carry no state of their own.
//
// VariancePolicy decides whether a cycle count variance is applied to the
// inventory ledger automatically or parked for human review, based on the
// tolerance resolved for the counted SKU and zone.
package services
