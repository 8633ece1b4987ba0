package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wireline-dev/wireline/kv"
	"github.com/wireline-dev/wireline/wire/status"
)

func TestResponseBuilder(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		resp := NewResponse()

		fields := resp.Expose()
		require.Equal(t, status.OK, fields.Code)
		require.Equal(t, DefaultContentType, fields.ContentType)
		require.Empty(t, fields.Body)
	})

	t.Run("headers keep order and duplicates", func(t *testing.T) {
		resp := NewResponse().
			Header("Via", "a", "b").
			Header("Server", "wireline")

		want := []kv.Pair{
			{Key: "Via", Value: "a"},
			{Key: "Via", Value: "b"},
			{Key: "Server", Value: "wireline"},
		}
		require.Equal(t, want, resp.Expose().Headers)
	})

	t.Run("json", func(t *testing.T) {
		resp := NewResponse().JSON(map[string]string{"ok": "yes"})

		require.Equal(t, "application/json", resp.Expose().ContentType)
		require.JSONEq(t, `{"ok":"yes"}`, string(resp.Expose().Body))
	})

	t.Run("status error carries its code", func(t *testing.T) {
		resp := NewResponse().Error(status.ErrTooManyRequests)

		require.Equal(t, status.TooManyRequests, resp.StatusCode())
	})

	t.Run("unknown error collapses to 500 with no detail", func(t *testing.T) {
		resp := NewResponse().Error(assertionFailure("pebble storage exploded"))

		require.Equal(t, status.InternalServerError, resp.StatusCode())
		require.NotContains(t, string(resp.Expose().Body), "exploded")
	})

	t.Run("frozen response discards mutations", func(t *testing.T) {
		resp := NewResponse().Code(status.OK).String("done")
		resp.Freeze()

		resp.Code(status.NotFound).String("late").Header("X-Late", "1")

		require.Equal(t, status.OK, resp.StatusCode())
		require.Equal(t, "done", string(resp.Expose().Body))
		require.Empty(t, resp.Expose().Headers)
	})

	t.Run("clear unfreezes", func(t *testing.T) {
		resp := NewResponse().Code(status.NotFound)
		resp.Freeze()
		resp.Clear()

		require.Equal(t, status.OK, resp.StatusCode())
		resp.Code(status.Accepted)
		require.Equal(t, status.Accepted, resp.StatusCode())
	})
}

type assertionFailure string

func (a assertionFailure) Error() string {
	return string(a)
}
