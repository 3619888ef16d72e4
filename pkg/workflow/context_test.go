package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext(t *testing.T) {
	vars := NewContext()

	_, ok := vars.Get("missing")
	assert.False(t, ok)

	vars.Set("k", "one")
	vars.Set("k", "two")
	v, ok := vars.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "two", v)
	assert.Equal(t, map[string]string{"k": "two"}, vars.Vars())
}
