package qr

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTicket(t *testing.T) {
	cfg := Ticket
	cfg.Content = "campushub:registration:5b7c"

	data, err := cfg.Generate()
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	bounds := img.Bounds()
	assert.Equal(t, cfg.Size+2*cfg.QuietZone, bounds.Dx())
	assert.Equal(t, bounds.Dx(), bounds.Dy())
}

func TestGenerateRequiresContent(t *testing.T) {
	_, err := Config{}.Generate()
	assert.Error(t, err)
}

func TestGenerateMissingLogo(t *testing.T) {
	cfg := Ticket
	cfg.Content = "x"
	cfg.LogoPath = "does-not-exist.png"
	_, err := cfg.Generate()
	assert.Error(t, err)
}
