package kumiai

// bitmask256 represents a set of up to 256 component kinds. Each bit
// corresponds to a kind index; a set bit means the kind is a member of the
// set. Matchers are built from three of these, and entities carry one that
// mirrors their occupied slots so matching stays a handful of word ops.
type bitmask256 [4]uint64

// set enables the bit corresponding to the given component kind.
func (m *bitmask256) set(bit uint8) {
	i := bit >> 6 // (bit / 64) to find the uint64 index
	o := bit & 63 // (bit % 64) to find the bit offset
	m[i] |= uint64(1) << uint64(o)
}

// unset disables the bit corresponding to the given component kind.
func (m *bitmask256) unset(bit uint8) {
	i := bit >> 6
	o := bit & 63
	m[i] &= ^(uint64(1) << uint64(o))
}

// contains checks if all the bits set in the `sub` bitmask are also set in
// the receiver bitmask `m`. This is how an entity's slot mask is tested
// against a matcher's required-present set.
//
// Parameters:
//   - sub: The bitmask representing the subset of kinds to check for.
//
// Returns:
//   - true if the receiver contains all kinds from the subset, false otherwise.
func (m bitmask256) contains(sub bitmask256) bool {
	return (m[0]&sub[0]) == sub[0] &&
		(m[1]&sub[1]) == sub[1] &&
		(m[2]&sub[2]) == sub[2] &&
		(m[3]&sub[3]) == sub[3]
}

// intersects checks if this bitmask has any bits in common with another
// bitmask. Used for required-absent and any-of matcher sets.
func (m bitmask256) intersects(other bitmask256) bool {
	return (m[0]&other[0] != 0) ||
		(m[1]&other[1] != 0) ||
		(m[2]&other[2] != 0) ||
		(m[3]&other[3] != 0)
}

// containsBit checks if a specific bit is set in the mask.
func (m bitmask256) containsBit(bit uint8) bool {
	i := bit >> 6
	o := bit & 63
	return (m[i] & (uint64(1) << uint64(o))) != 0
}

// isEmpty reports whether no bit is set.
func (m bitmask256) isEmpty() bool {
	return m[0] == 0 && m[1] == 0 && m[2] == 0 && m[3] == 0
}
