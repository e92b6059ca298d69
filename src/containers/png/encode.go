package png

import (
	"image"
	"io"

	"github.com/disintegration/imaging"
)

func Encode(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}
