package kumiai

import (
	"fmt"
	"slices"
	"strings"
)

// Matcher is an immutable predicate over component kinds: all-of kinds that
// must be present, none-of kinds that must be absent, and any-of kinds of
// which at least one must be present (when the set is non-empty).
//
// Two matchers built from the same three sets are interchangeable: the
// context keys its group cache on matcher value equality, not identity.
type Matcher struct {
	allOf   bitmask256
	anyOf   bitmask256
	noneOf  bitmask256
	indices []int // sorted distinct union of the three sets
}

// matcherKey is the comparable value the group cache is keyed on. Matchers
// with equal predicate sets produce equal keys.
type matcherKey struct {
	allOf  bitmask256
	anyOf  bitmask256
	noneOf bitmask256
}

// AllOf creates a matcher requiring every given component kind to be present.
//
// Parameters:
//   - kinds: The component kind indices that must all be occupied.
//
// Returns:
//   - The new Matcher.
func AllOf(kinds ...int) Matcher {
	var m Matcher
	m.allOf = makeKindMask(kinds)
	m.indices = mergeIndices(nil, kinds)
	return m
}

// AnyOf creates a matcher requiring at least one of the given component kinds
// to be present.
func AnyOf(kinds ...int) Matcher {
	var m Matcher
	m.anyOf = makeKindMask(kinds)
	m.indices = mergeIndices(nil, kinds)
	return m
}

// AnyOf extends the matcher with an any-of set: at least one of the given
// kinds must be present for an entity to match.
func (m Matcher) AnyOf(kinds ...int) Matcher {
	for _, k := range kinds {
		m.anyOf.set(kindBit(k))
	}
	m.indices = mergeIndices(m.indices, kinds)
	return m
}

// NoneOf extends the matcher with a none-of set: every given kind must be
// absent for an entity to match.
func (m Matcher) NoneOf(kinds ...int) Matcher {
	for _, k := range kinds {
		m.noneOf.set(kindBit(k))
	}
	m.indices = mergeIndices(m.indices, kinds)
	return m
}

// Matches evaluates the predicate against the entity's occupied slots.
//
// Returns:
//   - true if all required kinds are present, no forbidden kind is present,
//     and at least one any-of kind is present when the any-of set is non-empty.
func (m Matcher) Matches(e *Entity) bool {
	if !e.mask.contains(m.allOf) {
		return false
	}
	if e.mask.intersects(m.noneOf) {
		return false
	}
	if !m.anyOf.isEmpty() && !e.mask.intersects(m.anyOf) {
		return false
	}
	return true
}

// Indices returns the sorted, distinct component kinds the matcher refers to.
// The context uses this to register a group under every kind whose mutations
// can change membership. The returned slice is owned by the Matcher.
func (m Matcher) Indices() []int {
	return m.indices
}

// Equal reports whether both matchers define the same predicate.
func (m Matcher) Equal(other Matcher) bool {
	return m.key() == other.key()
}

// key returns the comparable cache key for this matcher.
func (m Matcher) key() matcherKey {
	return matcherKey{allOf: m.allOf, anyOf: m.anyOf, noneOf: m.noneOf}
}

// String renders the predicate with raw kind indices, e.g.
// "AllOf(0, 2).NoneOf(5)".
func (m Matcher) String() string {
	var sb strings.Builder
	writeSet := func(label string, mask bitmask256) {
		if mask.isEmpty() {
			return
		}
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(label)
		sb.WriteByte('(')
		first := true
		for _, k := range m.indices {
			if !mask.containsBit(uint8(k)) {
				continue
			}
			if !first {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%d", k)
			first = false
		}
		sb.WriteByte(')')
	}
	writeSet("AllOf", m.allOf)
	writeSet("AnyOf", m.anyOf)
	writeSet("NoneOf", m.noneOf)
	if sb.Len() == 0 {
		return "AllOf()"
	}
	return sb.String()
}

// kindBit converts a kind index to a mask bit, rejecting out-of-range kinds.
func kindBit(kind int) uint8 {
	if kind < 0 || kind >= MaxComponentKinds {
		panic(&KindOutOfRangeError{Kind: kind, Total: MaxComponentKinds})
	}
	return uint8(kind)
}

// makeKindMask creates a mask from a slice of kind indices.
func makeKindMask(kinds []int) bitmask256 {
	var m bitmask256
	for _, k := range kinds {
		m.set(kindBit(k))
	}
	return m
}

// mergeIndices merges new kinds into a sorted distinct index list.
func mergeIndices(existing []int, kinds []int) []int {
	merged := make([]int, 0, len(existing)+len(kinds))
	merged = append(merged, existing...)
	merged = append(merged, kinds...)
	slices.Sort(merged)
	return slices.Compact(merged)
}
