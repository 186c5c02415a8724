package framework

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunnerWait(t *testing.T) {
	broken := errors.New("broken")
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRunnerWith(ctx)
	r.Go(
		NamedRun("ok", RunFunc(func(context.Context) error { return nil })),
		NamedRun("broken", RunFunc(func(context.Context) error { return broken })),
		RunFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}),
	)
	cancel()
	require.Equal(t, broken, r.Wait())
	require.Len(t, r.Runners, 3)
	require.Equal(t, "ok", r.Runners[0].(Named).Name())
}

func TestRunWithContext(t *testing.T) {
	require.NoError(t, RunWithContext(context.Background(), func() error { return nil }))

	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	canceled := false
	go cancel()
	err := RunWithContextCancel(ctx, func() {
		canceled = true
		close(release)
	}, func() error {
		<-release
		return nil
	})
	require.Equal(t, context.Canceled, err)
	require.True(t, canceled)
}
