package global

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/seventv/AvifProcessor/src/configure"
)

// Context carries the process wide config and service instances next to
// the cancellation of the whole worker.
type Context interface {
	context.Context
	Instances() *Instances
	Config() *configure.Config
	AddTask(n int)
	DoneTask()
	// ActiveTasks is the number of tasks added and not yet done.
	ActiveTasks() int64
	Wait()
}

type globalContext struct {
	context.Context
	insts  *Instances
	cfg    *configure.Config
	wg     sync.WaitGroup
	active int64
}

func New(ctx context.Context, config *configure.Config) Context {
	return &globalContext{
		Context: ctx,
		insts:   &Instances{},
		cfg:     config,
	}
}

func (g *globalContext) Instances() *Instances {
	return g.insts
}

func (g *globalContext) Config() *configure.Config {
	return g.cfg
}

func (g *globalContext) AddTask(n int) {
	atomic.AddInt64(&g.active, int64(n))
	g.wg.Add(n)
}

func (g *globalContext) DoneTask() {
	atomic.AddInt64(&g.active, -1)
	g.wg.Done()
}

func (g *globalContext) ActiveTasks() int64 {
	return atomic.LoadInt64(&g.active)
}

func (g *globalContext) Wait() {
	g.wg.Wait()
}
