package qr

import "image/color"

// Ticket is the preset used for registration tickets.
var Ticket = Config{
	Size:          512,
	QuietZone:     24,
	ModuleRadius:  0.35,
	LogoScale:     0.2,
	RecoveryLevel: 3,
	Background:    color.RGBA{R: 255, G: 255, B: 255, A: 255},
	Foreground:    color.RGBA{R: 37, G: 99, B: 235, A: 255},
}
