package avif

import "github.com/seventv/AvifProcessor/src/image"

// HeaderSize is the number of leading bytes the detector looks at.
const HeaderSize = 12

type Verdict struct {
	Match  bool
	Format image.ImageType
}

// Detect reports whether header is the leading window of an AVIF file.
// Slices longer than HeaderSize never match, callers pass exactly the
// window they read.
func Detect(header []byte) Verdict {
	if len(header) > HeaderSize {
		return Verdict{}
	}

	// too short to hold the brand
	if len(header) < HeaderSize {
		return Verdict{}
	}

	// ftyp box followed by the avif major brand
	// https://aomediacodec.github.io/av1-avif/#brands-overview
	if header[4] != 'f' || header[5] != 't' || header[6] != 'y' || header[7] != 'p' {
		return Verdict{}
	}

	if header[8] == 'a' && header[9] == 'v' && header[10] == 'i' && header[11] == 'f' {
		return Verdict{Match: true, Format: image.AVIF}
	}

	return Verdict{}
}

// Test runs Detect on the first HeaderSize bytes of data.
func Test(data []byte) bool {
	if len(data) < HeaderSize {
		return false
	}

	return Detect(data[:HeaderSize]).Match
}
