package containers

import (
	"fmt"
	"sync"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/seventv/AvifProcessor/src/containers/avif"
	"github.com/seventv/AvifProcessor/src/containers/png"
	"github.com/seventv/AvifProcessor/src/image"
)

var (
	ErrUnknownFormat = fmt.Errorf("unknown image format")
	ErrNotDecodable  = fmt.Errorf("image format cannot be used as encode input")
)

type Format struct {
	Type            image.ImageType
	Name            string
	DefaultMimeType string
	MimeTypes       []string
	FileExtensions  []string
	// Test reports whether data starts with this format.
	Test func(data []byte) bool
	// Input is true when the format can be fed to the encoder.
	Input bool
}

var TypeAvif = types.NewType("avif", "image/avif")

var (
	mtx     sync.RWMutex
	formats = map[image.ImageType]Format{}
	order   []image.ImageType

	// filetype extensions of formats we can decode in process and re-encode
	inputTypes = map[string]image.ImageType{
		"png": image.PNG,
		"jpg": image.JPEG,
		"gif": image.GIF,
		"tif": image.TIFF,
		"bmp": image.BMP,
	}
)

func init() {
	Register(Format{
		Type:            image.AVIF,
		Name:            "AVIF",
		DefaultMimeType: "image/avif",
		MimeTypes:       []string{"image/avif"},
		FileExtensions:  []string{"avif"},
		Test:            avif.Test,
	})

	Register(Format{
		Type:            image.PNG,
		Name:            "PNG",
		DefaultMimeType: "image/png",
		MimeTypes:       []string{"image/png"},
		FileExtensions:  []string{"png"},
		Test:            png.Test,
		Input:           true,
	})

	filetype.AddMatcher(TypeAvif, avif.Test)
}

// Register adds f to the detection chain. Formats are tried in registration
// order, before falling back to filetype.
func Register(f Format) {
	mtx.Lock()
	defer mtx.Unlock()

	if _, ok := formats[f.Type]; !ok {
		order = append(order, f.Type)
	}
	formats[f.Type] = f
}

func Lookup(t image.ImageType) (Format, bool) {
	mtx.RLock()
	defer mtx.RUnlock()

	f, ok := formats[t]
	return f, ok
}

func ToType(data []byte) (image.ImageType, error) {
	mtx.RLock()
	for _, t := range order {
		if formats[t].Test(data) {
			mtx.RUnlock()
			return t, nil
		}
	}
	mtx.RUnlock()

	kind := Match(data)
	if kind == filetype.Unknown {
		return "", ErrUnknownFormat
	}

	if t, ok := inputTypes[kind.Extension]; ok {
		return t, nil
	}

	return "", ErrUnknownFormat
}

func Match(data []byte) types.Type {
	t, _ := filetype.Match(data)

	return t
}

// IsInput reports whether images of type t can be decoded in process and
// handed to the AVIF encoder.
func IsInput(t image.ImageType) bool {
	if f, ok := Lookup(t); ok {
		return f.Input
	}

	for _, v := range inputTypes {
		if v == t {
			return true
		}
	}

	return false
}

func ContentType(t image.ImageType) string {
	if f, ok := Lookup(t); ok {
		return f.DefaultMimeType
	}

	for ext, v := range inputTypes {
		if v == t {
			return filetype.GetType(ext).MIME.Value
		}
	}

	return "application/octet-stream"
}
