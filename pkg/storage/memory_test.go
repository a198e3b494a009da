package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/focusdeck/pkg/storage"
)

func TestMemory_Cookies(t *testing.T) {
	t.Run("set and get", func(t *testing.T) {
		m := storage.NewMemory()
		require.NoError(t, m.Set("sid", "abc", storage.Attributes{Path: "/"}))

		v, ok := m.Get("sid")
		assert.True(t, ok)
		assert.Equal(t, "abc", v)
	})

	t.Run("same name different attributes coexist", func(t *testing.T) {
		m := storage.NewMemory()
		require.NoError(t, m.Set("sid", "root", storage.Attributes{Path: "/"}))
		require.NoError(t, m.Set("sid", "api", storage.Attributes{Path: "/api"}))

		assert.Len(t, m.Attributes("sid"), 2)

		// Most recent write wins on name-only lookup.
		v, ok := m.Get("sid")
		assert.True(t, ok)
		assert.Equal(t, "api", v)
	})

	t.Run("delete requires exact attribute match", func(t *testing.T) {
		m := storage.NewMemory()
		require.NoError(t, m.Set("sid", "abc", storage.Attributes{Path: "/api", Secure: true}))

		// Wrong combination silently no-ops, like a browser.
		require.NoError(t, m.Delete("sid", storage.Attributes{Path: "/"}))
		_, ok := m.Get("sid")
		assert.True(t, ok)

		require.NoError(t, m.Delete("sid", storage.Attributes{Path: "/api", Secure: true}))
		_, ok = m.Get("sid")
		assert.False(t, ok)
	})

	t.Run("names are distinct and sorted", func(t *testing.T) {
		m := storage.NewMemory()
		require.NoError(t, m.Set("b", "1", storage.Attributes{}))
		require.NoError(t, m.Set("a", "2", storage.Attributes{}))
		require.NoError(t, m.Set("a", "3", storage.Attributes{Path: "/x"}))

		assert.Equal(t, []string{"a", "b"}, m.Names())
	})
}

func TestMemoryKV(t *testing.T) {
	m := storage.NewMemoryKV()
	require.NoError(t, m.Set("theme", "dark"))
	require.NoError(t, m.Set("cached_user", "{}"))

	v, ok := m.Get("theme")
	assert.True(t, ok)
	assert.Equal(t, "dark", v)

	assert.Equal(t, []string{"cached_user", "theme"}, m.Keys())

	require.NoError(t, m.Delete("theme"))
	_, ok = m.Get("theme")
	assert.False(t, ok)
}
