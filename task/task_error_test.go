package task

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskError_Error(t *testing.T) {
	te := &TaskError{
		Task: Info{Name: "producer-1"},
		Err:  errors.New("receiver disconnected"),
	}

	assert.Equal(t, `task "producer-1" failed: receiver disconnected`, te.Error())
	assert.Equal(t, te.Err, te.Unwrap())
}

func TestTaskErrorInspection(t *testing.T) {
	cause := errors.New("cause")
	te := &TaskError{Task: Info{Name: "consumer"}, Err: cause}

	tests := []struct {
		name      string
		err       error
		wantIs    bool
		wantInfo  Info
		wantCause error
	}{
		{name: "nil", err: nil, wantCause: nil},
		{name: "plain", err: cause, wantCause: cause},
		{name: "direct", err: te, wantIs: true, wantInfo: te.Task, wantCause: cause},
		{name: "wrapped", err: fmt.Errorf("run: %w", te), wantIs: true, wantInfo: te.Task, wantCause: cause},
		{name: "joined", err: errors.Join(io.EOF, te), wantIs: true, wantInfo: te.Task, wantCause: cause},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantIs, IsTaskError(tt.err))

			info, ok := TaskOf(tt.err)
			assert.Equal(t, tt.wantIs, ok)
			assert.Equal(t, tt.wantInfo, info)

			assert.Equal(t, tt.wantCause, CauseOf(tt.err))
		})
	}
}

func TestAllTaskErrors(t *testing.T) {
	p0 := &TaskError{Task: Info{Name: "producer-0"}, Err: errors.New("e0")}
	p1 := &TaskError{Task: Info{Name: "producer-1"}, Err: errors.New("e1")}
	p2 := &TaskError{Task: Info{Name: "producer-2"}, Err: errors.New("e2")}
	outer := &TaskError{Task: Info{Name: "outer"}, Err: p0}

	tests := []struct {
		name string
		err  error
		want []*TaskError
	}{
		{name: "nil", err: nil, want: nil},
		{name: "plain", err: io.EOF, want: nil},
		{name: "single", err: p0, want: []*TaskError{p0}},
		{name: "wrapped", err: fmt.Errorf("x: %w", p1), want: []*TaskError{p1}},
		{name: "joined with others", err: errors.Join(io.EOF, p0, io.ErrClosedPipe, p1), want: []*TaskError{p0, p1}},
		{name: "nested joins", err: errors.Join(errors.Join(p0, p1), p2), want: []*TaskError{p0, p1, p2}},
		{name: "stops at outermost", err: errors.Join(outer, p2), want: []*TaskError{outer, p2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AllTaskErrors(tt.err))
		})
	}
}

func TestPanicError(t *testing.T) {
	pe := newPanicError("boom")
	assert.Contains(t, pe.Error(), "panic: boom")
	assert.NotEmpty(t, pe.Stack)
	assert.Nil(t, pe.Unwrap())

	pe = newPanicError(io.ErrUnexpectedEOF)
	assert.ErrorIs(t, pe, io.ErrUnexpectedEOF)
}

func TestCall(t *testing.T) {
	pe, err := call(func() error { return io.EOF })
	assert.Nil(t, pe)
	assert.Equal(t, io.EOF, err)

	pe, err = call(func() error { panic("boom") })
	assert.NoError(t, err)
	if assert.NotNil(t, pe) {
		assert.Equal(t, "boom", pe.Value)
	}
}
