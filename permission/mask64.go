package permission

// Mask64 is a 64-bit grant set. With a root-reserved registry the highest
// bit stands for the admin super-role.
type Mask64 uint64

const rootBit64 = 63

// Has reports whether bit is set. When rootReserved is true, a set root bit
// satisfies every query.
func (m *Mask64) Has(bit int, rootReserved bool) bool {
	if bit < 0 || bit >= 64 {
		return false
	}

	if rootReserved {
		if (*m & (1 << rootBit64)) != 0 {
			return true
		}
	}

	return (*m & (1 << bit)) != 0
}

// Set turns bit on. Out-of-range bits are ignored.
func (m *Mask64) Set(bit int) {
	if bit < 0 || bit >= 64 {
		return
	}
	*m |= (1 << bit)
}
