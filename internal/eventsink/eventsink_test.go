package eventsink

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/zapzap/internal/engine"
)

func TestLogSinkPublishNeverErrors(t *testing.T) {
	sink := NewLogSink(nil)
	obs := &engine.Observation{PartyID: "p1", RoundNumber: 1, Actor: 0, Type: engine.ActionPlay}
	assert.NoError(t, sink.Publish(context.Background(), obs))
}

func TestChannelSinkDeliversInCommitOrder(t *testing.T) {
	sink := NewChannelSink(4)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		obs := &engine.Observation{PartyID: "p1", RoundNumber: i, Actor: 0, Type: engine.ActionPlay}
		require.NoError(t, sink.Publish(ctx, obs))
	}
	sink.Close()

	var got []int
	for obs := range sink.Events() {
		got = append(got, obs.RoundNumber)
	}
	assert.Equal(t, []int{0, 1, 2}, got)
}

func TestChannelSinkPublishRespectsCancellation(t *testing.T) {
	sink := NewChannelSink(1)
	ctx := context.Background()
	require.NoError(t, sink.Publish(ctx, &engine.Observation{}))

	cancelCtx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	err := sink.Publish(cancelCtx, &engine.Observation{})
	assert.Error(t, err)
}
