package task

import (
	"context"
	"runtime"
	"time"

	"github.com/seventv/AvifProcessor/src/containers/avif"
	"github.com/seventv/AvifProcessor/src/global"
	"github.com/seventv/AvifProcessor/src/job"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

func Listen(ctx global.Context) {
	msgCh, err := ctx.Instances().Rmq.Subscribe(ctx.Config().Rmq.JobQueueName)
	if err != nil {
		logrus.Fatal("failed to listen to jobs: ", err)
	}

	maxProcs := runtime.GOMAXPROCS(0)
	workers := make(chan *taskWorker, maxProcs)
	for i := 0; i < maxProcs; i++ {
		workers <- &taskWorker{
			cb: workers,
		}
	}

	for msg := range msgCh {
		worker := <-workers
		go worker.process(ctx, msg)
	}
}

type taskWorker struct {
	cb chan *taskWorker
}

type RmqResult struct {
	JobID   string     `json:"job_id"`
	Success bool       `json:"success"`
	Files   []job.File `json:"files"`
	Info    *avif.Info `json:"info,omitempty"`
	Error   string     `json:"error"`
}

// Run executes j to completion, forwarding every event to onEvent.
func Run(ctx global.Context, j job.Job, onEvent func(TaskEvent)) *Task {
	if j.Operation == "" {
		j.Operation = job.OperationEncode
	}

	timeout := time.Second * time.Duration(ctx.Config().MaxTaskDuration)
	if timeout <= 0 {
		timeout = time.Minute * 5
	}

	lCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	task := New(lCtx, j)

	task.Start(ctx)

	for event := range task.Events() {
		if onEvent != nil {
			onEvent(event)
		}
	}
	<-task.Done()

	return task
}

func (w *taskWorker) process(ctx global.Context, msg amqp.Delivery) {
	ctx.AddTask(1)
	defer func() {
		ctx.DoneTask()
		w.cb <- w
	}()

	j := job.Job{}

	err := json.Unmarshal(msg.Body, &j)
	if err != nil {
		logrus.Warn("bad job message: ", err)
		if err := msg.Reject(false); err != nil {
			logrus.Warn("failed to reject: ", err)
		}
		return
	}

	logrus.Info("starting new task: ", j.ID)

	task := Run(ctx, j, func(event TaskEvent) {
		data, _ := json.Marshal(event)
		if err := ctx.Instances().Rmq.Publish(ctx.Config().Rmq.UpdateQueueName, "application/json", amqp.Transient, data); err != nil {
			logrus.Warn("failed to send update: ", err)
		}
	})

	if err := task.Failed(); err != nil {
		if err := msg.Reject(false); err != nil {
			logrus.Warn("failed to reject: ", err)
		}
		logrus.Errorf("task failed %s: %s", j.ID, err.Error())
	} else {
		if err := msg.Ack(false); err != nil {
			logrus.Warn("failed to ack: ", err)
		}
	}

	errStr := ""
	if task.Failed() != nil {
		errStr = task.Failed().Error()
	}

	resp, _ := json.Marshal(RmqResult{
		JobID:   j.ID,
		Success: task.Failed() == nil,
		Error:   errStr,
		Files:   task.Files(),
		Info:    task.Info(),
	})

	if err := ctx.Instances().Rmq.Publish(ctx.Config().Rmq.ResultQueueName, "application/json", amqp.Persistent, resp); err != nil {
		logrus.Error("failed to publish result: ", err)
	}

	logrus.Info("finished task: ", j.ID)
}
