package avif

import (
	"testing"

	"github.com/seventv/AvifProcessor/src/image"
	"github.com/stretchr/testify/assert"
)

func header(box string, brand string) []byte {
	return append([]byte{0x00, 0x00, 0x00, 0x1C}, []byte(box+brand)...)
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		match  bool
	}{
		{"avif", header("ftyp", "avif"), true},
		{"avif with other size", append([]byte{0x00, 0x00, 0x00, 0x20}, []byte("ftypavif")...), true},
		{"avis brand", header("ftyp", "avis"), false},
		{"heic brand", header("ftyp", "heic"), false},
		{"mp4 brand", header("ftyp", "isom"), false},
		{"wrong box", header("moov", "avif"), false},
		{"uppercase brand", header("ftyp", "AVIF"), false},
		{"longer than header", append(header("ftyp", "avif"), 0x00), false},
		{"eleven bytes", header("ftyp", "avif")[:11], false},
		{"four bytes", []byte{0x00, 0x00, 0x00, 0x1C}, false},
		{"empty", []byte{}, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Detect(tt.header)
			assert.Equal(t, tt.match, v.Match)
			if tt.match {
				assert.Equal(t, image.AVIF, v.Format)
			} else {
				assert.Empty(t, v.Format)
			}
		})
	}
}

func TestDetectShortInputs(t *testing.T) {
	full := header("ftyp", "avif")
	for i := 0; i < HeaderSize; i++ {
		assert.NotPanics(t, func() {
			assert.False(t, Detect(full[:i]).Match, "length %d", i)
		})
	}
}

func TestDetectIgnoresBoxSize(t *testing.T) {
	for i := 0; i < 256; i++ {
		h := header("ftyp", "avif")
		h[0], h[1], h[2], h[3] = byte(i), byte(255-i), byte(i/2), byte(i*3)
		assert.True(t, Detect(h).Match)
	}
}

func TestTest(t *testing.T) {
	file := append(header("ftyp", "avif"), []byte("\x00\x00\x00\x00mif1miafmeta")...)

	assert.True(t, Test(file))
	assert.True(t, Test(file[:HeaderSize]))
	assert.False(t, Test(file[:HeaderSize-1]))
	assert.False(t, Test(header("ftyp", "mp42")))
	assert.False(t, Test(nil))
}
