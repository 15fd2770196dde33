package badger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVectorKeys(t *testing.T) {
	t.Run("builds namespaced key", func(t *testing.T) {
		assert.Equal(t, "vec:alpha:doc-1_0", string(makeVectorKey("alpha", "doc-1_0")))
	})

	t.Run("default namespace", func(t *testing.T) {
		assert.Equal(t, "vec::doc-1_0", string(makeVectorKey("", "doc-1_0")))
	})

	t.Run("namespace prefix covers its keys only", func(t *testing.T) {
		assert.Equal(t, "vec:alpha:", string(namespacePrefix("alpha")))
		assert.Equal(t, "vec::", string(namespacePrefix("")))
	})

	t.Run("split recovers namespace and id", func(t *testing.T) {
		namespace, id, ok := splitVectorKey(makeVectorKey("alpha", "doc-1_0"))

		assert.True(t, ok)
		assert.Equal(t, "alpha", namespace)
		assert.Equal(t, "doc-1_0", id)
	})

	t.Run("id may contain colons", func(t *testing.T) {
		namespace, id, ok := splitVectorKey(makeVectorKey("alpha", "urn:doc:42_3"))

		assert.True(t, ok)
		assert.Equal(t, "alpha", namespace)
		assert.Equal(t, "urn:doc:42_3", id)
	})

	t.Run("rejects foreign keys", func(t *testing.T) {
		_, _, ok := splitVectorKey([]byte("chat:123"))
		assert.False(t, ok)

		_, _, ok = splitVectorKey([]byte("vec:missing-separator"))
		assert.False(t, ok)
	})
}

func TestValidateNamespace(t *testing.T) {
	assert.NoError(t, validateNamespace(""))
	assert.NoError(t, validateNamespace("alpha"))

	err := validateNamespace("a:b")
	assert.ErrorIs(t, err, ErrInvalidNamespace)
}
