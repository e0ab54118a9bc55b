package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntimeErrorFormatting(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := &RuntimeError{
		Op:       "reactive.Computed.Get",
		Kind:     KindComputation,
		Instance: "abc",
		Key:      "double",
		Err:      cause,
	}

	assert.Contains(t, err.Error(), "reactive.Computed.Get")
	assert.Contains(t, err.Error(), "boom")
	assert.True(t, stderrors.Is(err, cause))
}

func TestKindStrings(t *testing.T) {
	cases := map[ErrorKind]string{
		KindUnknown:     "unknown",
		KindComputation: "computation",
		KindInjection:   "injection",
		KindLifecycle:   "lifecycle",
		KindBinding:     "binding",
		KindConfig:      "config",
		KindHost:        "host",
		KindPanic:       "panic",
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.String())
	}
}

func TestReportRoutesToHandler(t *testing.T) {
	capture := &CaptureHandler{}
	SetHandler(capture)
	t.Cleanup(func() { SetHandler(nil) })

	Report(&RuntimeError{Op: "op", Kind: KindHost, Err: fmt.Errorf("x")})
	Report(nil)

	require.Len(t, capture.Errors(), 1)
	assert.Equal(t, "op", capture.Errors()[0].Op)
	assert.False(t, capture.Errors()[0].Timestamp.IsZero())
}

func TestRecoverReportsPanic(t *testing.T) {
	capture := &CaptureHandler{}
	SetHandler(capture)
	t.Cleanup(func() { SetHandler(nil) })

	func() {
		defer Recover("lifecycle.hook")
		panic("surprise")
	}()

	require.Len(t, capture.Panics(), 1)
	p := capture.Panics()[0]
	assert.Equal(t, "lifecycle.hook", p.Op)
	assert.Equal(t, "surprise", p.Value)
	assert.NotEmpty(t, p.StackTrace)
}

func TestCaptureHandlerReset(t *testing.T) {
	capture := &CaptureHandler{}
	capture.HandleError(&RuntimeError{Op: "op"})
	capture.HandlePanic(&PanicError{Op: "op"})

	capture.Reset()

	assert.Empty(t, capture.Errors())
	assert.Empty(t, capture.Panics())
}
