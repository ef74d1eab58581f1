package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"yatube/internal/config"
	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tinyPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// blankPNG compresses to a few kilobytes no matter how large w and h are.
func blankPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	require.Less(t, buf.Len(), 1024*1024)
	return buf.Bytes()
}

func TestImageService_Store(t *testing.T) {
	root := t.TempDir()
	svc := NewImageService(&config.Config{MediaRoot: root, ImageMaxUploadSizeMB: 1})

	content := tinyPNG(t, 64, 48)
	rel, err := svc.Store(context.Background(), ImageUpload{
		Filename:    "cat.png",
		ContentType: "image/png",
		Content:     content,
	})
	require.NoError(t, err)
	assert.Equal(t, "posts", filepath.Dir(filepath.FromSlash(rel)))
	assert.Equal(t, ".jpg", filepath.Ext(rel))

	for _, p := range []string{rel, models.WebPVariant(rel)} {
		_, statErr := os.Stat(svc.AbsPath(p))
		require.NoError(t, statErr, "expected file for %s", p)
	}

	again, err := svc.Store(context.Background(), ImageUpload{Filename: "copy.png", Content: content})
	require.NoError(t, err)
	assert.Equal(t, rel, again, "identical content maps to the same file")
}

func TestImageService_Store_Rejects(t *testing.T) {
	svc := NewImageService(&config.Config{MediaRoot: t.TempDir(), ImageMaxUploadSizeMB: 1})
	ctx := context.Background()

	tests := []struct {
		name string
		in   ImageUpload
	}{
		{name: "empty", in: ImageUpload{}},
		{name: "not an image", in: ImageUpload{Content: []byte("plain text, definitely not pixels")}},
		{name: "too large", in: ImageUpload{Content: make([]byte, 1024*1024+1)}},
		{name: "content type mismatch", in: ImageUpload{ContentType: "image/gif", Content: tinyPNG(t, 4, 4)}},
		{name: "too many pixels", in: ImageUpload{ContentType: "image/png", Content: blankPNG(t, 7000, 6000)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Store(ctx, tc.in)
			assertAppErrorCode(t, err, models.CodeValidation)
		})
	}
}

func TestResizeToFit(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 100))

	out := resizeToFit(src, 200, 200)
	assert.Equal(t, 200, out.Bounds().Dx())
	assert.Equal(t, 50, out.Bounds().Dy())

	same := resizeToFit(src, 1000, 1000)
	assert.Equal(t, src.Bounds(), same.Bounds())
}

