package assistant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// smallest valid PNG header plus IHDR chunk start
var pngHeader = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
}

func TestNewQueryWithoutImage(t *testing.T) {
	q := NewQuery("여행갈 때 입을 옷", nil)
	assert.False(t, q.HasImage())
	assert.False(t, q.IsImage())
	assert.Empty(t, q.Preview())
	assert.Empty(t, q.ImageType)
}

func TestNewQuerySniffsImage(t *testing.T) {
	q := NewQuery("", pngHeader)
	assert.True(t, q.HasImage())
	assert.Equal(t, "image/png", q.ImageType)
	assert.True(t, q.IsImage())
	assert.True(t, strings.HasPrefix(q.Preview(), "data:image/png;base64,"))

	v := q.View()
	assert.True(t, v.HasImage)
	assert.Equal(t, "image/png", v.ImageType)
}

func TestNewQueryRejectsNonImagePayloadType(t *testing.T) {
	q := NewQuery("", []byte("just some text, not a photo"))
	assert.True(t, q.HasImage())
	assert.False(t, q.IsImage())
}

func TestMockProviderReturnsThree(t *testing.T) {
	assert.Len(t, MockProvider{}.Recommend(Query{}), ResultCount)
}
