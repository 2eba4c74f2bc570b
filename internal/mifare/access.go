package mifare

// Access condition decoding for MIFARE Classic sector trailers.
//
// The three access bytes hold a 3-bit condition code C1C2C3 per block,
// stored once inverted and once plain:
//
//	byte 6: ~C2(3..0) | ~C1(3..0)
//	byte 7:  C1(3..0) | ~C3(3..0)
//	byte 8:  C3(3..0) |  C2(3..0)

// accessCodes maps a C1C2C3 code to who may Read, Write, Increment and
// Decrement a data block with key A and/or key B.
var accessCodes = map[byte]string{
	0b000: "R(A,B) W(A,B) I(A,B) D(A,B)",
	0b001: "R(A,B) W(-) I(-) D(A,B)",
	0b010: "R(A,B) W(-) I(-) D(-)",
	0b011: "R(B) W(B) I(-) D(-)",
	0b100: "R(A,B) W(B) I(-) D(-)",
	0b101: "R(B) W(-) I(-) D(-)",
	0b110: "R(A,B) W(B) I(B) D(A,B)",
	0b111: "R(-) W(-) I(-) D(-)",
}

// ParseAccessBits extracts the per-block condition codes from the three
// access bytes. The inverted copies in byte 6 are redundant and not
// cross-checked.
func ParseAccessBits(access []byte) [BlocksPerSector]byte {
	var codes [BlocksPerSector]byte
	if len(access) < 3 {
		return codes
	}
	b7, b8 := access[1], access[2]
	for i := 0; i < BlocksPerSector; i++ {
		c1 := (b7 >> (4 + i)) & 0x01
		c2 := (b8 >> i) & 0x01
		c3 := (b8 >> (4 + i)) & 0x01
		codes[i] = c1<<2 | c2<<1 | c3
	}
	return codes
}

// AccessStrings renders the access conditions of all four blocks of a
// sector in human-readable form.
func AccessStrings(access []byte) [BlocksPerSector]string {
	var out [BlocksPerSector]string
	codes := ParseAccessBits(access)
	for i, c := range codes {
		out[i] = accessCodes[c]
	}
	return out
}
