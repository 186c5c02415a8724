package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testMessage struct {
	val int
}

func (m *testMessage) NewMessage() Message { return &testMessage{} }

type recorder struct {
	trace []string
}

func (r *recorder) at(name string) Controller {
	return ControlFunc(func(ctx ControlContext) error {
		r.trace = append(r.trace, name)
		return nil
	})
}

func TestLoopPriorityOrder(t *testing.T) {
	var r recorder
	l := NewLoop()
	l.AddController(PrLvAcuate, r.at("acuate"))
	l.AddController(PrLvSense, r.at("sense"))
	l.AddController(PrLvControl, r.at("control1"), r.at("control2"))
	l.AddController(PrLvPostProc, r.at("post"))
	require.NoError(t, l.Step(context.Background()))
	require.Equal(t, []string{"sense", "control1", "control2", "acuate", "post"}, r.trace)
}

func TestLoopMessages(t *testing.T) {
	var got []int
	l := NewLoop()
	l.AddController(PrLvSense, ControlFunc(func(ctx ControlContext) error {
		ctx.Messages().AddMessages(&testMessage{val: 1}, &testMessage{val: 2})
		return nil
	}))
	l.AddController(PrLvControl, ControlFunc(func(ctx ControlContext) error {
		ctx.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			if m := mc.CurrentMessage().(*testMessage); m.val == 1 {
				mc.MessageTaken()
				mc.AddMessages(&testMessage{val: 10})
			}
		}))
		return nil
	}))
	l.AddController(PrLvAcuate, ControlFunc(func(ctx ControlContext) error {
		ctx.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			got = append(got, mc.CurrentMessage().(*testMessage).val)
			mc.MessageTaken()
		}))
		return nil
	}))

	require.NoError(t, l.Step(context.Background()))
	require.Equal(t, []int{2, 10}, got)

	got = nil
	l.PostMessage(&testMessage{val: 100})
	require.NoError(t, l.Step(context.Background()))
	require.Equal(t, []int{100, 2, 10}, got)
}

func TestLoopDropsUntakenMessages(t *testing.T) {
	var seen int
	l := NewLoop()
	l.AddController(PrLvControl, ControlFunc(func(ctx ControlContext) error {
		ctx.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			seen++
		}))
		return nil
	}))
	l.PostMessage(&testMessage{})
	require.NoError(t, l.Step(context.Background()))
	require.NoError(t, l.Step(context.Background()))
	require.Equal(t, 1, seen)
}

func TestLoopStopProcessing(t *testing.T) {
	var got []int
	l := NewLoop()
	l.AddController(PrLvControl, ControlFunc(func(ctx ControlContext) error {
		ctx.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			got = append(got, mc.CurrentMessage().(*testMessage).val)
			mc.StopProcessing()
		}))
		ctx.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			got = append(got, -mc.CurrentMessage().(*testMessage).val)
		}))
		return nil
	}))
	l.PostMessage(&testMessage{val: 1})
	l.PostMessage(&testMessage{val: 2})
	require.NoError(t, l.Step(context.Background()))
	require.Equal(t, []int{1, -1, -2}, got)
}

func TestLoopHooks(t *testing.T) {
	var r recorder
	l := NewLoop()
	l.AddController(PrLvControl, ControlFunc(func(ctx ControlContext) error {
		r.trace = append(r.trace, "control")
		ctx.PostRun(r.at("post-hook"))
		return nil
	}))
	l.PreRunAt(PrLvControl, r.at("pre-hook"))
	require.NoError(t, l.Step(context.Background()))
	require.NoError(t, l.Step(context.Background()))
	require.Equal(t, []string{"pre-hook", "control", "post-hook", "control", "post-hook"}, r.trace)
}

func TestLoopControllerErrorIsFatal(t *testing.T) {
	var r recorder
	broken := errors.New("broken")
	l := NewLoop()
	l.AddController(PrLvControl, NamedControl("parser", ControlFunc(func(ControlContext) error {
		return broken
	})))
	l.AddController(PrLvAcuate, r.at("acuate"))

	err := l.Step(context.Background())
	var ce *ControlError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, "parser", ce.Controller)
	require.Equal(t, PrLvControl, ce.PriorityLevel)
	require.True(t, errors.Is(err, broken))
	require.Empty(t, r.trace)

	l.Interval = time.Millisecond
	err = l.Run(context.Background())
	require.True(t, errors.Is(err, broken))
}

type blockingRunnable struct {
	stopped chan struct{}
}

func (b *blockingRunnable) Run(ctx context.Context) error {
	<-ctx.Done()
	close(b.stopped)
	return ctx.Err()
}

func TestLoopRunCancel(t *testing.T) {
	bg := &blockingRunnable{stopped: make(chan struct{})}
	l := NewLoop()
	l.Interval = time.Millisecond
	l.AddRunnable(bg)
	ticks := make(chan struct{}, 1)
	l.AddController(PrLvSense, ControlFunc(func(ControlContext) error {
		select {
		case ticks <- struct{}{}:
		default:
		}
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	<-ticks
	cancel()
	require.Equal(t, context.Canceled, <-done)
	<-bg.stopped
}

func TestLoopTriggerNext(t *testing.T) {
	l := NewLoop()
	l.Interval = time.Hour
	count := 0
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l.AddController(PrLvSense, ControlFunc(func(cc ControlContext) error {
		count++
		if count < 3 {
			cc.TriggerNext()
			return nil
		}
		cancel()
		return nil
	}))
	require.NoError(t, l.Step(ctx))
	require.Equal(t, context.Canceled, l.Run(ctx))
	require.Equal(t, 3, count)
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil).Aggregate())
	e1 := errors.New("e1")
	require.Equal(t, e1, errs.Add(e1, nil).Aggregate())
	errs.Add(errors.New("e2"))
	require.Equal(t, "Multiple errors:\ne1\ne2", errs.Aggregate().Error())
}
