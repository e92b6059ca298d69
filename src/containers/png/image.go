package png

import "bytes"

var (
	signature = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	trailer   = []byte{'I', 'E', 'N', 'D', 0xAE, 'B', 0x60, 0x82}
)

// Test matches a complete PNG: signature at the start, IEND chunk at the end.
func Test(data []byte) bool {
	if len(data) < len(signature)+len(trailer) {
		return false
	}

	// PNG Magic Numbers
	// https://www.garykessler.net/library/file_sigs.html
	return bytes.Equal(data[:len(signature)], signature) &&
		bytes.Equal(data[len(data)-len(trailer):], trailer)
}
