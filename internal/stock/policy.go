// Package stock centralizes quantity clamping so the add and update paths
// can never diverge on how stock limits apply.
package stock

// ClampQuantity bounds a requested quantity by the known stock limit.
// A nil limit passes the request through. The result is never below 1, so a
// zero or negative request cannot empty a line.
func ClampQuantity(requested int, stockLimit *int) int {
	q := requested
	if stockLimit != nil && q > *stockLimit {
		q = *stockLimit
	}
	if q < 1 {
		q = 1
	}
	return q
}

// MergeQuantity applies the same clamp to the sum of an existing line
// quantity and a newly added one. Used whenever a product already in the
// cart is added again.
func MergeQuantity(existing, added int, stockLimit *int) int {
	return ClampQuantity(existing+added, stockLimit)
}
