package projection

import (
	"encoding/binary"

	"github.com/gnames/gnuuid"
)

// xSalt prefixes the record id when deriving the in-year X fraction, so
// the X jitter is independent of the Y position hash.
const xSalt = "x:"

// unit derives a uniform value in [0,1) from a string. The string is
// hashed to a UUID v5 with gnuuid (SHA-1 in the globalnames namespace,
// so the mapping is reimplementable outside Go); the first 8 bytes are
// read as a big-endian uint64 and divided by 2^64.
func unit(s string) float64 {
	u := gnuuid.New(s)
	n := binary.BigEndian.Uint64(u[:8])
	return float64(n) / (1 << 64)
}

// bellUnit derives a bell-shaped value in [0,1) from a string: the first
// 8 bytes of the UUID v5 are read as four big-endian uint16 lanes and
// averaged, then divided by 65536. The mean of four uniform lanes is a
// Bates(4) distribution centered at 0.5, which clusters records toward
// their band's midpoint and thins them out toward the edges while
// staying exactly reproducible (no transcendental functions involved).
func bellUnit(s string) float64 {
	u := gnuuid.New(s)
	sum := 0.0
	for i := 0; i < 8; i += 2 {
		sum += float64(binary.BigEndian.Uint16(u[i : i+2]))
	}
	return sum / 4 / 65536
}
