package avif

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"

	"github.com/davecgh/go-spew/spew"
	"github.com/disintegration/imaging"
	"github.com/hashicorp/go-multierror"
	"github.com/seventv/AvifProcessor/src/utils"
	"github.com/sirupsen/logrus"
)

// Decode converts the AVIF read from r into an image by running avifdec into
// a temporary PNG.
func (t *Tool) Decode(ctx context.Context, r io.Reader) (img image.Image, err error) {
	in, err := t.spool(r, "*.avif")
	if err != nil {
		return nil, err
	}
	out := in + ".png"

	defer func() {
		if rerr := removeAll(in, out); rerr != nil {
			err = multierror.Append(err, rerr)
		}
	}()

	args := []string{}
	if t.Codec != "" {
		args = append(args, "--codec", t.Codec)
	}
	args = append(args, in, out)

	stderr := &bytes.Buffer{}
	cmd := exec.CommandContext(ctx, t.DecoderPath, args...)
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("avifdec failed: %s : %s", err.Error(), bytes.TrimSpace(stderr.Bytes()))
	}

	img, err = imaging.Open(out)
	if err != nil {
		return nil, fmt.Errorf("read avifdec output failed: %s", err.Error())
	}

	return img, nil
}

// Inspect returns the raw `avifdec --info` report for the AVIF read from r.
func (t *Tool) Inspect(ctx context.Context, r io.Reader) (text string, err error) {
	in, err := t.spool(r, "*.avif")
	if err != nil {
		return "", err
	}

	defer func() {
		if rerr := removeAll(in); rerr != nil {
			err = multierror.Append(err, rerr)
		}
	}()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd := exec.CommandContext(ctx, t.DecoderPath, "--info", in)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %s : %s", ErrBadResponseAvifDec, err.Error(), bytes.TrimSpace(stderr.Bytes()))
	}

	return utils.B2S(stdout.Bytes()), nil
}

func (t *Tool) Identify(ctx context.Context, r io.Reader) (Info, error) {
	text, err := t.Inspect(ctx, r)
	if err != nil {
		return Info{}, err
	}

	info, err := ParseInfo(text)
	if err != nil {
		return Info{}, err
	}

	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		logrus.Debug("avifdec info: ", spew.Sdump(info))
	}

	return info, nil
}
