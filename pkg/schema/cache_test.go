package schema

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompileCache(t *testing.T) {
	key := func(s string) digest { return digest(sha256.Sum256([]byte(s))) }
	a, b, c := &Compiled{}, &Compiled{}, &Compiled{}

	t.Run("least recently used entry is evicted", func(t *testing.T) {
		cache := newCompileCache(2)
		assert.False(t, cache.put(key("a"), a))
		assert.False(t, cache.put(key("b"), b))

		_, ok := cache.get(key("a"))
		assert.True(t, ok)

		assert.True(t, cache.put(key("c"), c))
		assert.Equal(t, 2, cache.len())

		_, ok = cache.get(key("b"))
		assert.False(t, ok)
		got, ok := cache.get(key("a"))
		assert.True(t, ok)
		assert.Same(t, a, got)
	})

	t.Run("put replaces an existing entry", func(t *testing.T) {
		cache := newCompileCache(1)
		cache.put(key("a"), a)
		assert.False(t, cache.put(key("a"), b))

		got, ok := cache.get(key("a"))
		assert.True(t, ok)
		assert.Same(t, b, got)
		assert.Equal(t, 1, cache.len())
	})
}
