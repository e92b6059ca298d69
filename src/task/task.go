package task

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path"
	"sync"
	"time"

	Aws "github.com/aws/aws-sdk-go/aws"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	jsoniter "github.com/json-iterator/go"
	"github.com/seventv/AvifProcessor/src/aws"
	"github.com/seventv/AvifProcessor/src/containers"
	"github.com/seventv/AvifProcessor/src/containers/avif"
	"github.com/seventv/AvifProcessor/src/containers/png"
	"github.com/seventv/AvifProcessor/src/global"
	"github.com/seventv/AvifProcessor/src/image"
	"github.com/seventv/AvifProcessor/src/job"
	"github.com/seventv/AvifProcessor/src/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrUnknownJobProvider = fmt.Errorf("unknown job provider")
	ErrUnknownJobConsumer = fmt.Errorf("unknown job consumer")
	ErrUnknownOperation   = fmt.Errorf("unknown job operation")
	ErrNotAvif            = fmt.Errorf("input is not an avif image")
)

type Task struct {
	id uuid.UUID

	job job.Job

	mtx       sync.Mutex
	started   bool
	completed bool
	failed    error

	dir   string
	files []job.File
	info  *avif.Info

	events chan TaskEvent

	ctx    context.Context
	cancel context.CancelFunc
}

func New(ctx context.Context, job job.Job) *Task {
	ctx, cancel := context.WithCancel(ctx)
	id, _ := uuid.NewRandom()
	return &Task{
		id:     id,
		ctx:    ctx,
		cancel: cancel,
		job:    job,
		events: make(chan TaskEvent, 20),
	}
}

func (t *Task) ID() uuid.UUID {
	return t.id
}

func (t *Task) Start(ctx global.Context) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if t.started || t.completed {
		return
	}

	t.started = true

	go t.start(ctx)
}

func (t *Task) emit(typ TaskEventType) {
	t.events <- TaskEvent{
		JobID:     t.job.ID,
		Type:      typ,
		Timestamp: time.Now(),
	}
}

func (t *Task) start(ctx global.Context) {
	defer close(t.events)
	defer func() {
		if err := t.cleanup(); err != nil {
			logrus.WithField("job_id", t.job.ID).Error("failed to cleanup: ", err)
		}
	}()

	t.emit(Started)

	err := t.run(ctx)

	t.mtx.Lock()
	defer t.mtx.Unlock()

	t.completed = true
	t.failed = err
	t.cancel()
	if err != nil {
		t.emit(Failed)
	} else {
		t.emit(Completed)
	}
}

func (t *Task) run(ctx global.Context) error {
	if !t.job.Operation.Valid() {
		return ErrUnknownOperation
	}

	data, err := t.download(ctx)
	if err != nil {
		return err
	}

	t.emit(Downloaded)

	if err := t.ctx.Err(); err != nil {
		return err
	}

	imgType, err := containers.ToType(data)
	if err != nil {
		return err
	}

	dir := path.Join(ctx.Config().WorkingDir, t.id.String())
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	t.dir = dir

	t.emit(Processing)

	codec := ctx.Instances().Avif
	start := time.Now()

	switch t.job.Operation {
	case job.OperationIdentify:
		if imgType != image.AVIF {
			return ErrNotAvif
		}

		info, err := codec.Identify(t.ctx, bytes.NewReader(data))
		if err != nil {
			return err
		}

		t.info = &info
	case job.OperationDecode:
		if imgType != image.AVIF {
			return ErrNotAvif
		}

		img, err := codec.Decode(t.ctx, bytes.NewReader(data))
		if err != nil {
			return err
		}

		b := img.Bounds()
		if err := t.writeFile("image.png", image.PNG, start, b.Dx(), b.Dy(), func(w io.Writer) error {
			return png.Encode(w, img)
		}); err != nil {
			return err
		}
	case job.OperationEncode:
		if !containers.IsInput(imgType) {
			return fmt.Errorf("%w: %s", containers.ErrNotDecodable, imgType)
		}

		img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
		if err != nil {
			return err
		}

		opts := avif.EncodeOptionsFromConfig(ctx.Config())
		if len(t.job.Encode) != 0 {
			if err := json.Unmarshal(t.job.Encode, &opts); err != nil {
				return err
			}
		}

		b := img.Bounds()
		if err := t.writeFile("image.avif", image.AVIF, start, b.Dx(), b.Dy(), func(w io.Writer) error {
			return codec.Encode(t.ctx, img, w, opts)
		}); err != nil {
			return err
		}
	}

	t.emit(ProcessingComplete)

	if len(t.files) == 0 {
		return nil
	}

	t.emit(Uploading)

	return t.publish(ctx)
}

func (t *Task) download(ctx global.Context) ([]byte, error) {
	switch t.job.RawProvider {
	case job.AwsProvider:
		providerDetails := job.RawProviderDetailsAws{}
		if err := json.Unmarshal(t.job.RawProviderDetails, &providerDetails); err != nil {
			return nil, err
		}

		buf := Aws.NewWriteAtBuffer([]byte{})
		if err := ctx.Instances().AwsS3.DownloadFile(t.ctx, providerDetails.Bucket, providerDetails.Key, buf); err != nil {
			return nil, err
		}

		return buf.Bytes(), nil
	case job.LocalProvider:
		providerDetails := job.RawProviderDetailsLocal{}
		if err := json.Unmarshal(t.job.RawProviderDetails, &providerDetails); err != nil {
			return nil, err
		}

		return os.ReadFile(providerDetails.Path)
	}

	return nil, ErrUnknownJobProvider
}

// writeFile streams write into name inside the task dir and records the result.
func (t *Task) writeFile(name string, imgType image.ImageType, start time.Time, width, height int, write func(w io.Writer) error) error {
	p := path.Join(t.dir, name)

	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	h, _ := blake2b.New256(nil)

	err = write(io.MultiWriter(f, h))
	if cerr := f.Close(); cerr != nil {
		err = multierror.Append(err, cerr)
	}
	if err != nil {
		return err
	}

	info, err := os.Stat(p)
	if err != nil {
		return err
	}

	t.files = append(t.files, job.File{
		Name:        name,
		Size:        int(info.Size()),
		ContentType: containers.ContentType(imgType),
		Width:       width,
		Height:      height,
		Checksum:    hex.EncodeToString(h.Sum(nil)),
		TimeTaken:   time.Since(start),
	})

	return nil
}

func (t *Task) publish(ctx global.Context) error {
	switch t.job.ResultConsumer {
	case job.AwsConsumer:
		consumerDetails := job.ResultConsumerDetailsAws{}
		if err := json.Unmarshal(t.job.ResultConsumerDetails, &consumerDetails); err != nil {
			return err
		}

		errCh := make(chan error)
		wg := sync.WaitGroup{}
		wg.Add(len(t.files))
		for _, v := range t.files {
			go func(v job.File) {
				defer wg.Done()
				f, err := os.Open(path.Join(t.dir, v.Name))
				if err != nil {
					errCh <- err
					return
				}
				defer f.Close()
				errCh <- ctx.Instances().AwsS3.UploadFile(
					t.ctx,
					consumerDetails.Bucket,
					path.Join(consumerDetails.KeyFolder, v.Name),
					f,
					utils.StringPointer(v.ContentType),
					aws.AclPublicRead,
					aws.DefaultCacheControl,
				)
			}(v)
		}
		go func() {
			wg.Wait()
			close(errCh)
		}()

		var err error
		for e := range errCh {
			err = multierror.Append(err, e).ErrorOrNil()
		}

		return err
	case job.LocalConsumer:
		consumerDetails := job.ResultConsumerDetailsLocal{}
		if err := json.Unmarshal(t.job.ResultConsumerDetails, &consumerDetails); err != nil {
			return err
		}

		if err := os.MkdirAll(consumerDetails.PathFolder, 0700); err != nil {
			return err
		}

		for _, v := range t.files {
			data, err := os.ReadFile(path.Join(t.dir, v.Name))
			if err != nil {
				return err
			}

			if err := os.WriteFile(path.Join(consumerDetails.PathFolder, v.Name), data, 0600); err != nil {
				return err
			}
		}

		return nil
	case job.NoConsumer:
		logrus.WithField("job_id", t.job.ID).Warn("no result consumer, dropping output files")
		return nil
	}

	return ErrUnknownJobConsumer
}

func (t *Task) Done() <-chan struct{} {
	return t.ctx.Done()
}

func (t *Task) Events() <-chan TaskEvent {
	return t.events
}

func (t *Task) Completed() bool {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.completed
}

func (t *Task) Failed() error {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.failed
}

func (t *Task) Started() bool {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.started
}

// Files are the outputs written by a completed task.
func (t *Task) Files() []job.File {
	return t.files
}

// Info is set for completed identify tasks.
func (t *Task) Info() *avif.Info {
	return t.info
}

func (t *Task) cleanup() error {
	if t.dir == "" {
		return nil
	}

	t.emit(Cleaned)

	t.cancel()
	return os.RemoveAll(t.dir)
}

func (t *Task) Job() job.Job {
	return t.job
}
