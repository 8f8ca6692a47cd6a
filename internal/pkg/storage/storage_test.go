package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"io"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "upload/ab/object.txt", strings.NewReader("hello")))

	rc, err := s.Get(ctx, "upload/ab/object.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, s.Delete(ctx, "upload/ab/object.txt"))
	_, err = s.Get(ctx, "upload/ab/object.txt")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting twice is fine.
	assert.NoError(t, s.Delete(ctx, "upload/ab/object.txt"))

	t.Run("Escaping paths", func(t *testing.T) {
		assert.Error(t, s.Save(ctx, "../outside.txt", strings.NewReader("x")))
		_, err := s.Get(ctx, "/etc/passwd")
		assert.Error(t, err)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.ErrorIs(t, s.Save(cctx, "late.txt", strings.NewReader("x")), context.Canceled)
	})
}

func TestGenerateThumbnail(t *testing.T) {
	src := imaging.New(800, 400, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, src, imaging.PNG))

	thumb, err := NewImageProcessor().GenerateThumbnail(&buf, 200, 200)
	require.NoError(t, err)

	img, format, err := image.Decode(thumb)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())

	_, err = NewImageProcessor().GenerateThumbnail(strings.NewReader("not an image"), 200, 200)
	assert.Error(t, err)
}
