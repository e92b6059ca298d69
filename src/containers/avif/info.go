package avif

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
)

var lineRe = regexp.MustCompile(`\r\n|\r|\n`)

// Info is the parsed output of `avifdec --info`.
type Info struct {
	Width                   int    `json:"width"`
	Height                  int    `json:"height"`
	BitDepth                int    `json:"bit_depth"`
	Format                  string `json:"format,omitempty"`
	ChromaSamplePosition    int    `json:"chroma_sample_position"`
	Alpha                   string `json:"alpha,omitempty"`
	Range                   string `json:"range,omitempty"`
	ColorPrimaries          int    `json:"color_primaries"`
	TransferCharacteristics int    `json:"transfer_characteristics"`
	MatrixCoefficients      int    `json:"matrix_coefficients"`
	ICCProfile              string `json:"icc_profile,omitempty"`
	XMPMetadata             string `json:"xmp_metadata,omitempty"`
	ExifMetadata            string `json:"exif_metadata,omitempty"`
	Transformations         string `json:"transformations,omitempty"`
	Progressive             string `json:"progressive,omitempty"`
	GainMap                 string `json:"gain_map,omitempty"`
}

// ReportParseError is returned by ParseInfo when an integer field holds
// something that is not a base-10 integer.
type ReportParseError struct {
	Key   string
	Value string
	Err   error
}

func (e *ReportParseError) Error() string {
	return fmt.Sprintf("avif info: bad value for %q: %q: %s", e.Key, e.Value, e.Err.Error())
}

func (e *ReportParseError) Unwrap() error {
	return e.Err
}

// ParseInfo turns the text printed by `avifdec --info` into an Info.
// Unknown keys and lines without a colon are skipped. A malformed integer
// fails the whole call with one *ReportParseError per bad field.
func ParseInfo(text string) (Info, error) {
	info := Info{}

	var err error
	parseInt := func(key, value string, dst *int) {
		v, e := strconv.Atoi(value)
		if e != nil {
			err = multierror.Append(err, &ReportParseError{Key: key, Value: value, Err: e})
			return
		}
		*dst = v
	}

	for _, line := range lineRe.Split(text, -1) {
		if strings.TrimSpace(line) == "" || !strings.Contains(line, ":") {
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		key := strings.TrimSpace(parts[0])
		key = strings.Join(strings.Fields(strings.ReplaceAll(key, "*", "")), " ")
		value := strings.TrimSpace(parts[1])

		switch key {
		case "Resolution":
			res := strings.Split(value, "x")
			if len(res) == 2 {
				parseInt(key, strings.TrimSpace(res[0]), &info.Width)
				parseInt(key, strings.TrimSpace(res[1]), &info.Height)
			}
		case "Bit Depth":
			parseInt(key, value, &info.BitDepth)
		case "Format":
			info.Format = value
		case "Chroma Sam. Pos":
			parseInt(key, value, &info.ChromaSamplePosition)
		case "Alpha":
			info.Alpha = value
		case "Range":
			info.Range = value
		case "Color Primaries":
			parseInt(key, value, &info.ColorPrimaries)
		case "Transfer Char.":
			parseInt(key, value, &info.TransferCharacteristics)
		case "Matrix Coeffs.":
			parseInt(key, value, &info.MatrixCoefficients)
		case "ICC Profile":
			info.ICCProfile = value
		case "XMP Metadata":
			info.XMPMetadata = value
		case "Exif Metadata":
			info.ExifMetadata = value
		case "Transformations":
			info.Transformations = value
		case "Progressive":
			info.Progressive = value
		case "Gain map":
			info.GainMap = value
		}
	}

	if err != nil {
		return Info{}, err
	}

	return info, nil
}
