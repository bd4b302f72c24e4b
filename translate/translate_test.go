package translate

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.NotEmpty(Language().String())
	assert.Equal("line 3: x", From("line %d: %v", 3, "x"))
}

func TestFprint(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	n, err := Fprint(&buf, "%v-%v", "a", "b")
	assert.NoError(err)
	assert.Equal(3, n)
	assert.Equal("a-b", buf.String())
}
