// Package ecs stores entity components in packed primitive arrays.
//
// Entities are int32 handles drawn from a bounded range and recycled in last
// destroyed, first reused order. Each component kind lives in its own scalar
// or vector store, a sparse set over entity handles paired with a dense value
// array, so a store's values can be walked as one contiguous slice. A World
// ties the stores to an EntityManager and keeps entity masks consistent.
//
// Nothing in this package locks. Every type assumes a single writer; callers
// sharing a World between goroutines must serialize access themselves.
package ecs
