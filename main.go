package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strconv"
	"syscall"
	"time"

	"github.com/bugsnag/panicwrap"
	jsoniter "github.com/json-iterator/go"

	"github.com/seventv/AvifProcessor/src/aws"
	"github.com/seventv/AvifProcessor/src/configure"
	"github.com/seventv/AvifProcessor/src/containers"
	"github.com/seventv/AvifProcessor/src/containers/avif"
	"github.com/seventv/AvifProcessor/src/global"
	"github.com/seventv/AvifProcessor/src/image"
	"github.com/seventv/AvifProcessor/src/rmq"
	"github.com/seventv/AvifProcessor/src/task"
	"github.com/sirupsen/logrus"
)

var (
	Version = "development"
	Unix    = ""
	Time    = "unknown"
	User    = "unknown"
)

func init() {
	debug.SetGCPercent(2000)
	if i, err := strconv.Atoi(Unix); err == nil {
		Time = time.Unix(int64(i), 0).Format(time.RFC3339)
	}
}

func main() {
	config := configure.New()

	if config.Identify != "" {
		if err := identify(config, config.Identify); err != nil {
			logrus.Error("identify failed: ", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	exitStatus, err := panicwrap.BasicWrap(func(s string) {
		logrus.Error(s)
	})
	if err != nil {
		logrus.Error("failed to setup panic handler: ", err)
		os.Exit(2)
	}

	if exitStatus >= 0 {
		os.Exit(exitStatus)
	}

	if !config.NoHeader {
		logrus.Info("7TV AVIF Processor")
		logrus.Infof("Version: %s", Version)
		logrus.Infof("build.Time: %s", Time)
		logrus.Infof("build.User: %s", User)
	}

	logrus.Debug("MaxProcs: ", runtime.GOMAXPROCS(0))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	c, cancel := context.WithCancel(context.Background())

	ctx := global.New(c, config)

	ctx.Instances().Avif = avif.New(config)
	ctx.Instances().Rmq = rmq.New(ctx)
	if ctx.Config().Aws.Region != "" {
		ctx.Instances().AwsS3 = aws.NewS3(ctx)
	}

	go task.Listen(ctx)

	logrus.Info("running")

	done := make(chan struct{})
	go func() {
		<-sig
		cancel()
		go func() {
			select {
			case <-time.After(time.Minute):
			case <-sig:
			}
			logrus.Fatal("force shutdown")
		}()

		logrus.Infof("shutting down, waiting on %d tasks", ctx.ActiveTasks())

		ctx.Instances().Rmq.Shutdown()

		ctx.Wait()

		close(done)
	}()

	<-done

	logrus.Info("shutdown")
	os.Exit(0)
}

// identify prints the avifdec report of file as json.
func identify(config *configure.Config, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	imgType, err := containers.ToType(data)
	if err != nil {
		return err
	}

	if imgType != image.AVIF {
		return fmt.Errorf("%s is %s, not avif", file, imgType)
	}

	info, err := avif.New(config).Identify(context.Background(), bytes.NewReader(data))
	if err != nil {
		return err
	}

	out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))
	return nil
}
