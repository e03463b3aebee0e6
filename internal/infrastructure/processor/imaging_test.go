package processor

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartbeam/photo-service/internal/dto"
	"github.com/heartbeam/photo-service/pkg/types/errs"
)

// noisyPNG encodes a PNG full of random pixels so it compresses poorly.
func noisyPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	rnd := rand.New(rand.NewSource(42))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{
				R: uint8(rnd.Intn(256)),
				G: uint8(rnd.Intn(256)),
				B: uint8(rnd.Intn(256)),
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

func newTestProcessor() *ImageProcessor {
	return New(32, 4096, 1600, 64)
}

func TestValidate(t *testing.T) {
	p := newTestProcessor()
	ctx := context.Background()

	t.Run("valid image", func(t *testing.T) {
		info, err := p.Validate(ctx, noisyPNG(t, 64, 48))
		require.NoError(t, err)
		assert.Equal(t, 64, info.Width)
		assert.Equal(t, 48, info.Height)
	})

	t.Run("not an image", func(t *testing.T) {
		_, err := p.Validate(ctx, []byte("definitely not a picture"))
		assert.ErrorIs(t, err, errs.ErrInvalidImage)
	})

	t.Run("below minimum dimension", func(t *testing.T) {
		_, err := p.Validate(ctx, noisyPNG(t, 16, 64))
		assert.ErrorIs(t, err, errs.ErrInvalidImage)
	})

	t.Run("above maximum dimension", func(t *testing.T) {
		p := New(32, 100, 1600, 64)
		_, err := p.Validate(ctx, noisyPNG(t, 128, 64))
		assert.ErrorIs(t, err, errs.ErrInvalidImage)
	})
}

func TestOptimizeRespectsByteBudget(t *testing.T) {
	p := newTestProcessor()
	ctx := context.Background()

	// deliberately oversized noisy input
	input := noisyPNG(t, 1200, 900)

	budgets := []int64{256 * 1024, 64 * 1024, 16 * 1024}
	for _, budget := range budgets {
		out, err := p.Optimize(ctx, input, dto.OptimizeOptions{MaxBytes: budget})
		require.NoError(t, err)
		assert.LessOrEqual(t, int64(len(out.Data)), budget)
		assert.Greater(t, out.Width, 0)
		assert.Greater(t, out.Height, 0)
	}
}

func TestOptimizeDownscalesToMaxSide(t *testing.T) {
	p := newTestProcessor()

	out, err := p.Optimize(context.Background(), noisyPNG(t, 2000, 1000), dto.OptimizeOptions{
		MaxBytes:     1 << 20,
		MaxDimension: 500,
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, out.Width, 500)
	assert.LessOrEqual(t, out.Height, 500)
}

func TestOptimizeRejectsCorruptInput(t *testing.T) {
	p := newTestProcessor()

	_, err := p.Optimize(context.Background(), []byte{0x00, 0x01}, dto.OptimizeOptions{MaxBytes: 1 << 20})
	assert.Error(t, err)
}

func TestThumbnail(t *testing.T) {
	p := newTestProcessor()
	ctx := context.Background()
	input := noisyPNG(t, 256, 256)

	plain, err := p.Thumbnail(ctx, input, false)
	require.NoError(t, err)
	assert.NotEmpty(t, plain)

	blurred, err := p.Thumbnail(ctx, input, true)
	require.NoError(t, err)
	assert.NotEmpty(t, blurred)

	// blurring changes the bytes
	assert.NotEqual(t, plain, blurred)
}

func TestFingerprint(t *testing.T) {
	p := newTestProcessor()

	a := noisyPNG(t, 64, 64)
	same := make([]byte, len(a))
	copy(same, a)
	other := noisyPNG(t, 64, 63)

	assert.Equal(t, p.Fingerprint(a), p.Fingerprint(same))
	assert.NotEqual(t, p.Fingerprint(a), p.Fingerprint(other))
	assert.Len(t, p.Fingerprint(a), 64)
}
