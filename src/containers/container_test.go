package containers

import (
	"bytes"
	stdimage "image"
	"image/color"
	"image/jpeg"
	stdpng "image/png"
	"testing"

	"github.com/seventv/AvifProcessor/src/image"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encoded(t *testing.T, encode func(*bytes.Buffer, stdimage.Image) error) []byte {
	t.Helper()
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	buf := &bytes.Buffer{}
	require.NoError(t, encode(buf, img))
	return buf.Bytes()
}

func TestToType(t *testing.T) {
	avifData := append([]byte{0x00, 0x00, 0x00, 0x1C}, []byte("ftypavif\x00\x00\x00\x00mif1miaf")...)
	pngData := encoded(t, func(b *bytes.Buffer, img stdimage.Image) error { return stdpng.Encode(b, img) })
	jpegData := encoded(t, func(b *bytes.Buffer, img stdimage.Image) error { return jpeg.Encode(b, img, nil) })

	tests := []struct {
		name string
		data []byte
		want image.ImageType
		err  error
	}{
		{"avif", avifData, image.AVIF, nil},
		{"avif header only", avifData[:12], image.AVIF, nil},
		{"avis header only", []byte("\x00\x00\x00\x1Cftypavis"), "", ErrUnknownFormat},
		{"avif header short", avifData[:11], "", ErrUnknownFormat},
		{"png", pngData, image.PNG, nil},
		{"jpeg", jpegData, image.JPEG, nil},
		{"gif", []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;"), image.GIF, nil},
		{"text", []byte("definitely not an image at all"), "", ErrUnknownFormat},
		{"empty", nil, "", ErrUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, err := ToType(tt.data)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, typ)
		})
	}
}

func TestMatchUsesAvifMatcher(t *testing.T) {
	data := append([]byte{0x00, 0x00, 0x00, 0x1C}, []byte("ftypavif")...)
	assert.Equal(t, "avif", Match(data).Extension)
}

func TestLookup(t *testing.T) {
	f, ok := Lookup(image.AVIF)
	require.True(t, ok)
	assert.Equal(t, "AVIF", f.Name)
	assert.Equal(t, "image/avif", f.DefaultMimeType)
	assert.Equal(t, []string{"avif"}, f.FileExtensions)
	assert.False(t, f.Input)

	_, ok = Lookup(image.ImageType("heic"))
	assert.False(t, ok)
}

func TestIsInput(t *testing.T) {
	tests := []struct {
		imgType  image.ImageType
		expected bool
	}{
		{image.PNG, true},
		{image.JPEG, true},
		{image.GIF, true},
		{image.TIFF, true},
		{image.BMP, true},
		{image.AVIF, false},
		{image.ImageType("webp"), false},
		{image.ImageType("heic"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.imgType), func(t *testing.T) {
			assert.Equal(t, tt.expected, IsInput(tt.imgType))
		})
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/avif", ContentType(image.AVIF))
	assert.Equal(t, "image/png", ContentType(image.PNG))
	assert.Equal(t, "image/jpeg", ContentType(image.JPEG))
	assert.Equal(t, "application/octet-stream", ContentType(image.ImageType("heic")))
}
