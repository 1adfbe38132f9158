// Package order contains the order fulfillment aggregate: the Order root,
// its Items, and the PickTasks that drive warehouse picking.
//
// The aggregate owns every state transition of the fulfillment lifecycle
// (claiming, picking, packing, shipping, cancellation, backorder) and
// enforces the core invariants:
//
//   - a picker is assigned if and only if the order is in Picking status,
//     and a packer if and only if it is in Packing status
//   - for every item, 0 <= pickedQuantity <= quantity, including after undo
//   - pick task status is independent state, mutated only through the
//     defined transitions (skip and undo never silently resurrect a
//     different lifecycle than the caller requested)
//
// Order progress is derived, never stored truth: the aggregate recomputes
// it from item picked quantities after every pick, undo, and skip, and the
// repository persists the recomputed value in the same transaction as the
// item mutation.
//
// Exclusive claiming is completed at the persistence layer with a
// conditional update whose affected-row count is the authoritative
// conflict signal; the aggregate-level Claim methods mirror the same
// guards for in-memory transitions and tests.
package order
