package buffer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuffer(t *testing.T) {
	t.Run("segments stay intact", func(t *testing.T) {
		buff := New(4, 16)

		require.True(t, buff.Append([]byte("GET")))
		first := buff.Finish()
		require.True(t, buff.Append([]byte("/ping")))
		second := buff.Finish()

		require.Equal(t, "GET", string(first))
		require.Equal(t, "/ping", string(second))
	})

	t.Run("overflow is refused", func(t *testing.T) {
		buff := New(2, 4)

		require.True(t, buff.Append([]byte("abcd")))
		require.False(t, buff.AppendByte('e'))
		require.False(t, buff.Append([]byte("f")))
		require.Equal(t, "abcd", string(buff.Finish()))
	})

	t.Run("clear frees the space for reuse", func(t *testing.T) {
		buff := New(2, 4)

		require.True(t, buff.Append([]byte("abcd")))
		buff.Clear()
		require.True(t, buff.Append([]byte("efgh")))
		require.Equal(t, "efgh", string(buff.Finish()))
	})

	t.Run("preview does not complete the segment", func(t *testing.T) {
		buff := New(4, 16)

		require.True(t, buff.Append([]byte("ab")))
		require.Equal(t, "ab", string(buff.Preview()))
		require.Equal(t, 2, buff.SegmentLength())
		require.True(t, buff.AppendByte('c'))
		require.Equal(t, "abc", string(buff.Finish()))
	})
}
