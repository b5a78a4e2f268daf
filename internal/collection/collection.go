// Package collection holds the add/update/delete semantics shared by the trainer and
// session collections. Every function returns a new slice and leaves its input untouched.
package collection

// Identified is implemented by anything stored by id.
type Identified interface {
	Identity() string
}

// Add appends item.
func Add[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, item)
}

// Update replaces every element whose id matches item wholesale. No match is a no-op.
func Update[T Identified](items []T, item T) []T {
	out := make([]T, len(items))
	for i, existing := range items {
		if existing.Identity() == item.Identity() {
			out[i] = item
			continue
		}
		out[i] = existing
	}
	return out
}

// Delete drops every element with the given id. No match is a no-op.
func Delete[T Identified](items []T, id string) []T {
	out := make([]T, 0, len(items))
	for _, existing := range items {
		if existing.Identity() != id {
			out = append(out, existing)
		}
	}
	return out
}

// Find returns the first element with the given id.
func Find[T Identified](items []T, id string) (T, bool) {
	for _, existing := range items {
		if existing.Identity() == id {
			return existing, true
		}
	}
	var zero T
	return zero, false
}

// Set replaces the collection with a copy of items.
func Set[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
