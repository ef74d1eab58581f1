package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWebPVariant(t *testing.T) {
	assert.Equal(t, "posts/abc.webp", WebPVariant("posts/abc.jpg"))
	assert.Equal(t, "", WebPVariant(""))
}

func TestPost_AfterFindSetsWebPPath(t *testing.T) {
	p := &Post{Image: "posts/abc.jpg"}
	assert.NoError(t, p.AfterFind(nil))
	assert.Equal(t, "posts/abc.webp", p.ImageWebP)

	empty := &Post{}
	assert.NoError(t, empty.AfterFind(nil))
	assert.Empty(t, empty.ImageWebP)
}

func TestUser_FullName(t *testing.T) {
	assert.Equal(t, "Leo Tolstoy", (&User{Username: "leo", FirstName: "Leo", LastName: "Tolstoy"}).FullName())
	assert.Equal(t, "leo", (&User{Username: "leo"}).FullName())
}
