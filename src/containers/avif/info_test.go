package avif

import (
	"errors"
	"strconv"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const avifdecReport = `Image decoded: /tmp/input.avif
Image details:
 * Resolution     : 1920x1080
 * Bit Depth      : 10
 * Format         : YUV420
 * Chroma Sam. Pos: 0
 * Alpha          : Not premultiplied
 * Range          : Limited
 * Color Primaries: 9
 * Transfer Char. : 16
 * Matrix Coeffs. : 9
 * ICC Profile    : Absent (0 bytes)
 * XMP Metadata   : Absent (0 bytes)
 * Exif Metadata  : Present (1024 bytes)
 * Transformations: None
 * Progressive    : Unavailable
 * Gain map       : Absent
 * 1 timescales per second, 1.00 seconds (1 frames)
 * Frames:
   * Decoded frame [0] [pts 0.00 (0 timescales)] [1.00 seconds (1 timescales)]: 1920x1080
`

func TestParseInfo(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Info
	}{
		{"empty", "", Info{}},
		{"resolution and depth", "Resolution: 1920 x 1080\nBit Depth: 10\n", Info{Width: 1920, Height: 1080, BitDepth: 10}},
		{"unknown key", "Unknown Key: whatever\n", Info{}},
		{"asterisk key", "* ICC Profile: present\n", Info{ICCProfile: "present"}},
		{"bad resolution", "Resolution: not-a-resolution\n", Info{}},
		{"resolution with three parts", "Resolution: 1x2x3\n", Info{}},
		{"no separator", "Resolution 1920x1080\nBit Depth 8\n", Info{}},
		{"blank lines", "\n   \n\t\nBit Depth: 8\n\n", Info{BitDepth: 8}},
		{"crlf", "Resolution: 64x32\r\nBit Depth: 12\r\n", Info{Width: 64, Height: 32, BitDepth: 12}},
		{"cr only", "Resolution: 64x32\rFormat: YUV444\r", Info{Width: 64, Height: 32, Format: "YUV444"}},
		{"value keeps colons", "Exif Metadata: Present: 12 bytes\n", Info{ExifMetadata: "Present: 12 bytes"}},
		{"key is case sensitive", "bit depth: 8\nFORMAT: YUV420\n", Info{}},
		{"padded key", " *  Chroma   Sam. Pos :  2 \n", Info{ChromaSamplePosition: 2}},
		{"later line wins", "Bit Depth: 8\nBit Depth: 10\n", Info{BitDepth: 10}},
		{
			"avifdec report",
			avifdecReport,
			Info{
				Width:                   1920,
				Height:                  1080,
				BitDepth:                10,
				Format:                  "YUV420",
				ChromaSamplePosition:    0,
				Alpha:                   "Not premultiplied",
				Range:                   "Limited",
				ColorPrimaries:          9,
				TransferCharacteristics: 16,
				MatrixCoefficients:      9,
				ICCProfile:              "Absent (0 bytes)",
				XMPMetadata:             "Absent (0 bytes)",
				ExifMetadata:            "Present (1024 bytes)",
				Transformations:         "None",
				Progressive:             "Unavailable",
				GainMap:                 "Absent",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseInfo(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, info)
		})
	}
}

func TestParseInfoBadInteger(t *testing.T) {
	info, err := ParseInfo("Resolution: 10x10\nBit Depth: abc\n")
	require.Error(t, err)
	assert.Equal(t, Info{}, info)

	var perr *ReportParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "Bit Depth", perr.Key)
	assert.Equal(t, "abc", perr.Value)
	assert.True(t, errors.Is(err, strconv.ErrSyntax))
}

func TestParseInfoBadIntegerKeys(t *testing.T) {
	for _, key := range []string{"Bit Depth", "Chroma Sam. Pos", "Color Primaries", "Transfer Char.", "Matrix Coeffs."} {
		t.Run(key, func(t *testing.T) {
			_, err := ParseInfo(key + ": 1.5\n")

			var perr *ReportParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, key, perr.Key)
			assert.Equal(t, "1.5", perr.Value)
		})
	}
}

func TestParseInfoBadResolution(t *testing.T) {
	_, err := ParseInfo("Resolution: wide x 1080\n")

	var perr *ReportParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "Resolution", perr.Key)
	assert.Equal(t, "wide", perr.Value)
}

func TestParseInfoCollectsAllErrors(t *testing.T) {
	_, err := ParseInfo("Bit Depth: x\nColor Primaries: y\nFormat: YUV420\n")

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 2)
}

func TestParseInfoIdempotent(t *testing.T) {
	a, errA := ParseInfo(avifdecReport)
	b, errB := ParseInfo(avifdecReport)

	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, a, b)
}
