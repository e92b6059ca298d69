package avif

import (
	"context"
	"errors"
	"image"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/seventv/AvifProcessor/src/configure"
)

var (
	ErrBadResponseAvifDec = errors.New("bad response from avifdec")
	ErrNoOutput           = errors.New("avif tool produced no output")
)

type Encoder interface {
	Encode(ctx context.Context, img image.Image, w io.Writer, opts EncodeOptions) error
}

type Decoder interface {
	Decode(ctx context.Context, r io.Reader) (image.Image, error)
}

type Inspector interface {
	Inspect(ctx context.Context, r io.Reader) (string, error)
	Identify(ctx context.Context, r io.Reader) (Info, error)
}

// Tool runs avifenc and avifdec as subprocesses, staging data through
// temp files in TempDir.
type Tool struct {
	EncoderPath string
	DecoderPath string
	// Codec is passed to avifdec as --codec when set.
	Codec   string
	TempDir string
}

func New(config *configure.Config) *Tool {
	t := &Tool{
		EncoderPath: config.Avif.EncoderPath,
		DecoderPath: config.Avif.DecoderPath,
		Codec:       config.Av1Decoder,
		TempDir:     config.WorkingDir,
	}

	if t.EncoderPath == "" {
		t.EncoderPath = Resolve(config.Avif.BaseDir, EncoderName)
	}
	if t.DecoderPath == "" {
		t.DecoderPath = Resolve(config.Avif.BaseDir, DecoderName)
	}

	return t
}

func (t *Tool) ensureTempDir() error {
	if t.TempDir == "" {
		return nil
	}
	return os.MkdirAll(t.TempDir, 0700)
}

// spool copies r into a new temp file and returns its path.
func (t *Tool) spool(r io.Reader, pattern string) (string, error) {
	if err := t.ensureTempDir(); err != nil {
		return "", err
	}

	f, err := os.CreateTemp(t.TempDir, pattern)
	if err != nil {
		return "", err
	}

	_, err = io.Copy(f, r)
	if cerr := f.Close(); cerr != nil {
		err = multierror.Append(err, cerr)
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}

	return f.Name(), nil
}

func removeAll(files ...string) error {
	var err error
	for _, f := range files {
		if e := os.Remove(f); e != nil && !os.IsNotExist(e) {
			err = multierror.Append(err, e)
		}
	}
	return err
}
