package avif

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/seventv/AvifProcessor/src/configure"
	"github.com/sirupsen/logrus"
)

const DefaultCQLevel = 18

var ErrInvalidCQLevel = errors.New("cq-level must be between 0 and 63")

type EncodeOptions struct {
	// Lossless ignores CQLevel.
	Lossless bool `json:"lossless"`
	// CQLevel from 0 to 63, lower is better quality.
	CQLevel int `json:"cq_level"`
	// Speed from 0 to 10, negative leaves the avifenc default.
	Speed        int    `json:"speed"`
	Codec        string `json:"codec,omitempty"`
	SkipMetadata bool   `json:"skip_metadata"`
}

func EncodeOptionsFromConfig(config *configure.Config) EncodeOptions {
	return EncodeOptions{
		Lossless: config.Avif.Lossless,
		CQLevel:  config.Avif.CQLevel,
		Speed:    config.Avif.Speed,
		Codec:    config.Av1Encoder,
	}
}

func (o EncodeOptions) Validate() error {
	if !o.Lossless && (o.CQLevel < 0 || o.CQLevel > 63) {
		return ErrInvalidCQLevel
	}
	return nil
}

// Args builds the avifenc command line converting in to out.
func (o EncodeOptions) Args(in string, out string) []string {
	args := []string{}

	if o.Lossless {
		args = append(args, "--lossless")
	} else {
		// --min 0 --max 63 -a end-usage=q -a cq-level=18 -a tune=ssim
		args = append(args,
			"--min", "0",
			"--max", "63",
			"-a", "end-usage=q",
			"-a", "cq-level="+strconv.Itoa(o.CQLevel),
			"-a", "tune=ssim",
		)
	}

	if o.Speed >= 0 {
		args = append(args, "--speed", strconv.Itoa(o.Speed))
	}

	if o.Codec != "" {
		args = append(args, "--codec", o.Codec)
	}

	if o.SkipMetadata {
		args = append(args, "--ignore-exif", "--ignore-xmp", "--ignore-icc")
	}

	return append(args, in, out)
}

// Encode writes img as AVIF to w.
func (t *Tool) Encode(ctx context.Context, img image.Image, w io.Writer, opts EncodeOptions) (err error) {
	if err := opts.Validate(); err != nil {
		return err
	}

	if err := t.ensureTempDir(); err != nil {
		return err
	}

	base := filepath.Join(t.TempDir, uuid.New().String())
	pngFile := base + ".png"
	avifFile := base + ".avif"

	defer func() {
		if rerr := removeAll(pngFile, avifFile); rerr != nil {
			err = multierror.Append(err, rerr)
		}
	}()

	if err := imaging.Save(img, pngFile, imaging.PNGCompressionLevel(png.BestSpeed)); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, t.EncoderPath, opts.Args(pngFile, avifFile)...)
	logrus.WithField("args", cmd.Args).Debug("running avifenc")

	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("avifenc failed: %s : %s", err.Error(), bytes.TrimSpace(out))
	}

	f, err := os.Open(avifFile)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNoOutput
		}
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}
