package transport

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTCP(t *testing.T) {
	newBound := func(t *testing.T) *TCP {
		tr := NewTCP("127.0.0.1:0", 50*time.Millisecond)
		require.NoError(t, tr.Bind())
		t.Cleanup(func() { _ = tr.Close() })

		return tr
	}

	t.Run("accepts a connection", func(t *testing.T) {
		tr := newBound(t)

		go func() {
			peer, err := net.Dial("tcp", tr.Addr().String())
			if err != nil {
				return
			}
			defer peer.Close()

			_, _ = peer.Write([]byte("hello"))
		}()

		conn, err := tr.Accept(context.Background())
		require.NoError(t, err)
		defer conn.Close()

		buff := make([]byte, 16)
		n, err := conn.Read(buff)
		require.NoError(t, err)
		require.Equal(t, "hello", string(buff[:n]))
	})

	t.Run("accept returns promptly on cancellation", func(t *testing.T) {
		tr := newBound(t)

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()

		started := time.Now()
		_, err := tr.Accept(ctx)
		require.ErrorIs(t, err, context.Canceled)
		require.Less(t, time.Since(started), time.Second)
	})

	t.Run("accept on a closed transport fails", func(t *testing.T) {
		tr := newBound(t)
		require.NoError(t, tr.Close())

		_, err := tr.Accept(context.Background())
		require.Error(t, err)
	})

	t.Run("conn close is idempotent", func(t *testing.T) {
		tr := newBound(t)

		go func() {
			peer, err := net.Dial("tcp", tr.Addr().String())
			if err != nil {
				return
			}

			_ = peer.Close()
		}()

		conn, err := tr.Accept(context.Background())
		require.NoError(t, err)

		require.NoError(t, conn.Close())
		require.NoError(t, conn.Close())
	})

	t.Run("closing an unbound transport is a no-op", func(t *testing.T) {
		require.NoError(t, NewTCP("127.0.0.1:0", time.Second).Close())
	})
}
