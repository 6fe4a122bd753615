package conv

// Utoa writes base-10 representation of n into buf and returns the used slice.
// buf should be length >= 20 for uint64.
func Utoa(buf []byte, n uint64) []byte {
	if len(buf) == 0 {
		return buf[:0]
	}
	i := len(buf)
	if n == 0 {
		i--
		buf[i] = '0'
		return buf[i:]
	}
	for n > 0 && i > 0 {
		i--
		buf[i] = byte('0' + (n % 10))
		n /= 10
	}
	return buf[i:]
}

// U32 is Utoa into a fresh string. No fmt/strconv on the MCU path.
func U32(n uint32) string {
	var b [10]byte
	return string(Utoa(b[:], uint64(n)))
}

// Hex8 is U8Hex into a fresh string with a 0x prefix.
func Hex8(n uint8) string {
	var b [2]byte
	return "0x" + string(U8Hex(b[:], n))
}

// Hex32 is U32Hex into a fresh string with a 0x prefix.
func Hex32(n uint32) string {
	var b [8]byte
	return "0x" + string(U32Hex(b[:], n))
}
