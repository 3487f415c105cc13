package evdev

// TestBit reports whether bit i is set in the byte-packed bitmask buf. Bits
// are packed little-endian within each byte, matching the layout of the
// kernel's bitmask ioctls. An index beyond the end of buf reads as unset.
func TestBit(buf []byte, i int) bool {
	if i < 0 || i/8 >= len(buf) {
		return false
	}
	return buf[i/8]&(1<<(i%8)) != 0
}

// bitmaskSize returns the buffer length in bytes that holds bits [0, max].
// An under-sized buffer makes the kernel silently truncate its answer, so
// sizing always goes through here with one of the *Max constants.
func bitmaskSize(max int) int {
	return max/8 + 1
}

// setBits returns the indices of the set bits in [0, max), ascending.
func setBits(buf []byte, max int) []int {
	var set []int
	for i := 0; i < max; i++ {
		if TestBit(buf, i) {
			set = append(set, i)
		}
	}
	return set
}
