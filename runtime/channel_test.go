package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelBounded(t *testing.T) {
	t.Run("send and recv are FIFO", func(t *testing.T) {
		ch := NewChannel(2)
		ctx := context.Background()
		require.NoError(t, ch.Send(ctx, 1))
		require.NoError(t, ch.Send(ctx, 2))

		v1, err := ch.Recv(ctx)
		require.NoError(t, err)
		v2, err := ch.Recv(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, v1)
		assert.Equal(t, 2, v2)
	})

	t.Run("try send fails when full", func(t *testing.T) {
		ch := NewChannel(1)
		require.NoError(t, ch.TrySend("a"))
		assert.ErrorIs(t, ch.TrySend("b"), ErrWouldBlock)
	})

	t.Run("try recv fails when empty", func(t *testing.T) {
		ch := NewChannel(1)
		_, err := ch.TryRecv()
		assert.ErrorIs(t, err, ErrWouldBlock)
	})

	t.Run("recv timeout elapses on an empty channel", func(t *testing.T) {
		ch := NewChannel(1)
		_, err := ch.RecvTimeout(20 * time.Millisecond)
		assert.ErrorIs(t, err, ErrTimeout)
	})

	t.Run("blocking send unblocks once a receiver drains", func(t *testing.T) {
		ch := NewChannel(1)
		ctx := context.Background()
		require.NoError(t, ch.Send(ctx, "first"))

		done := make(chan error, 1)
		go func() { done <- ch.Send(ctx, "second") }()

		v, err := ch.Recv(ctx)
		require.NoError(t, err)
		assert.Equal(t, "first", v)

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("blocked send never unblocked")
		}
	})
}

func TestChannelUnbounded(t *testing.T) {
	ch := NewChannel(0)
	ctx := context.Background()
	for i := 0; i < 100; i++ {
		require.NoError(t, ch.Send(ctx, i))
	}
	for i := 0; i < 100; i++ {
		v, err := ch.Recv(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
}

func TestChannelClose(t *testing.T) {
	t.Run("pending sends fail after close", func(t *testing.T) {
		ch := NewChannel(1)
		ch.Close()
		assert.True(t, ch.IsClosed())
		assert.ErrorIs(t, ch.Send(context.Background(), "x"), ErrChannelClosed)
	})

	t.Run("recv drains buffered values then fails", func(t *testing.T) {
		ch := NewChannel(2)
		ctx := context.Background()
		require.NoError(t, ch.Send(ctx, "buffered"))
		ch.Close()

		v, err := ch.Recv(ctx)
		require.NoError(t, err)
		assert.Equal(t, "buffered", v)

		_, err = ch.Recv(ctx)
		assert.ErrorIs(t, err, ErrChannelClosed)
	})
}
