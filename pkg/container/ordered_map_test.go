package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jacktoolchain/n2t/pkg/container"
)

func TestOrderedMapSetGet(t *testing.T) {
	var m container.OrderedMap[string, int]
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("a", 3)

	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	v, ok = m.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}
