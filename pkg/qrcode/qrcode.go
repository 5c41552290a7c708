package qr

import (
	"bytes"
	"errors"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
	"github.com/skip2/go-qrcode"
)

type Config struct {
	Content       string
	LogoPath      string
	Size          int     // side of the code area in pixels, without quiet zone
	QuietZone     int     // margin around the code in pixels
	ModuleRadius  float64 // 0 draws square modules, 0.5 draws dots
	LogoScale     float64 // logo side as a share of Size
	RecoveryLevel int
	Background    color.Color
	Foreground    color.Color
}

// Generate renders the code as PNG.
func (c Config) Generate() ([]byte, error) {
	if c.Content == "" {
		return nil, errors.New("qr: empty content")
	}
	if c.Size <= 0 {
		c.Size = 256
	}
	if c.Background == nil {
		c.Background = color.White
	}
	if c.Foreground == nil {
		c.Foreground = color.Black
	}

	code, err := qrcode.New(c.Content, qrcode.RecoveryLevel(c.RecoveryLevel))
	if err != nil {
		return nil, err
	}
	code.DisableBorder = true
	bitmap := code.Bitmap()

	total := c.Size + 2*c.QuietZone
	dc := gg.NewContext(total, total)
	dc.SetColor(c.Background)
	dc.Clear()

	modules := len(bitmap)
	cell := float64(c.Size) / float64(modules)
	radius := cell * c.ModuleRadius
	offset := float64(c.QuietZone)

	dc.SetColor(c.Foreground)
	for y, row := range bitmap {
		for x, dark := range row {
			if !dark {
				continue
			}
			px := offset + float64(x)*cell
			py := offset + float64(y)*cell
			if radius > 0 {
				dc.DrawRoundedRectangle(px, py, cell, cell, radius)
			} else {
				dc.DrawRectangle(px, py, cell, cell)
			}
		}
	}
	dc.Fill()

	if c.LogoPath != "" {
		if err = c.drawLogo(dc, total); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err = dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c Config) drawLogo(dc *gg.Context, total int) error {
	logo, err := gg.LoadImage(c.LogoPath)
	if err != nil {
		return err
	}
	side := uint(float64(c.Size) * c.LogoScale)
	if side == 0 {
		return nil
	}
	logo = resize.Resize(side, side, logo, resize.Lanczos3)

	center := float64(total) / 2
	pad := float64(side) * 0.1
	dc.SetColor(c.Background)
	dc.DrawRoundedRectangle(center-float64(side)/2-pad, center-float64(side)/2-pad, float64(side)+2*pad, float64(side)+2*pad, pad)
	dc.Fill()
	dc.DrawImageAnchored(logo, int(center), int(center), 0.5, 0.5)
	return nil
}
