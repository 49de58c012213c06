package eventlog

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

type pingEvent struct {
	Value int `json:"value"`
}

func (pingEvent) Kind() string { return "Ping" }

type pongEvent struct{}

func (pongEvent) Kind() string { return "Pong" }

type brokenEvent struct {
	Fn func() `json:"fn"`
}

func (brokenEvent) Kind() string { return "Broken" }

type failingSink struct{ err error }

func (s failingSink) Publish(context.Context, []quickex.Event) error { return s.err }

func TestRecorder(t *testing.T) {
	var r Recorder
	ctx := context.Background()
	require.NoError(t, r.Publish(ctx, []quickex.Event{pingEvent{1}, pongEvent{}}))
	require.NoError(t, r.Publish(ctx, []quickex.Event{pingEvent{2}}))

	assert.Equal(t, []string{"Ping", "Pong", "Ping"}, r.Kinds())
	events := r.Events()
	assert.Equal(t, pingEvent{2}, events[2])

	// returned slice is a copy
	events[0] = pongEvent{}
	assert.Equal(t, pingEvent{1}, r.Events()[0])

	r.Reset()
	assert.Empty(t, r.Events())
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(log.NewTMLogger(&buf))

	err := sink.Publish(context.Background(), []quickex.Event{pingEvent{7}})
	require.NoError(t, err)
	out := buf.String()
	assert.True(t, strings.Contains(out, "kind=Ping"), out)
	assert.True(t, strings.Contains(out, `{\"value\":7}`), out)

	err = sink.Publish(context.Background(), []quickex.Event{brokenEvent{}})
	assert.True(t, errors.ErrType.Is(err))
}

func TestMultiSink(t *testing.T) {
	var a, b Recorder
	sink := MultiSink{&a, failingSink{err: errors.ErrDatabase}, nil, &b}

	err := sink.Publish(context.Background(), []quickex.Event{pongEvent{}})
	assert.True(t, errors.ErrDatabase.Is(err))
	assert.Equal(t, []string{"Pong"}, a.Kinds())
	assert.Equal(t, []string{"Pong"}, b.Kinds())
}
