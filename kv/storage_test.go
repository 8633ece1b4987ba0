package kv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func getStorage() *Storage {
	return New().
		Add("Foo", "bar").
		Add("Hello", "World").
		Add("Lorem", "ipsum").
		Add("hello", "Pavlo")
}

func TestStorage(t *testing.T) {
	t.Run("case-insensitive lookup", func(t *testing.T) {
		kv := getStorage()

		require.Equal(t, "bar", kv.Value("FOO"))
		require.Equal(t, "World", kv.Value("hello"))
		require.True(t, kv.Has("LOREM"))
		require.False(t, kv.Has("dolor"))
	})

	t.Run("duplicates append", func(t *testing.T) {
		kv := getStorage()

		require.Equal(t, []string{"World", "Pavlo"}, kv.Values("Hello"))
		require.Equal(t, 4, kv.Len())
	})

	t.Run("insertion order preserved", func(t *testing.T) {
		kv := getStorage()

		want := []Pair{
			{"Foo", "bar"},
			{"Hello", "World"},
			{"Lorem", "ipsum"},
			{"hello", "Pavlo"},
		}
		require.Equal(t, want, kv.Expose())

		var got []Pair
		for key, value := range kv.Iter() {
			got = append(got, Pair{key, value})
		}
		require.Equal(t, want, got)
	})

	t.Run("unique keys", func(t *testing.T) {
		kv := getStorage()

		require.Equal(t, []string{"Foo", "Hello", "Lorem"}, kv.Keys())
	})

	t.Run("value or fallback", func(t *testing.T) {
		kv := getStorage()

		require.Equal(t, "fallback", kv.ValueOr("missing", "fallback"))
		require.Equal(t, "bar", kv.ValueOr("foo", "fallback"))
	})

	t.Run("clear", func(t *testing.T) {
		kv := getStorage().Clear()

		require.True(t, kv.Empty())
		require.Nil(t, kv.Values("Hello"))
	})
}
