package image

type ImageType string

const (
	AVIF ImageType = "avif"
	GIF  ImageType = "gif"
	JPEG ImageType = "jpeg"
	PNG  ImageType = "png"
	TIFF ImageType = "tiff"
	BMP  ImageType = "bmp"
)
