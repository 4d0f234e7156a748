package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"
)

var iconOnce struct {
	sync.Once
	data []byte
}

// iconData returns the tray icon as PNG bytes. The icon is drawn at
// startup: a rounded blue square with a white sun-over-horizon glyph, so
// the binary ships without asset files.
func iconData() []byte {
	iconOnce.Do(func() {
		iconOnce.data = renderIcon(64)
	})
	return iconOnce.data
}

func renderIcon(size int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	blue := color.RGBA{R: 0x0b, G: 0x6e, B: 0xc7, A: 0xff}
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	corner := size / 8
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if insideRoundedRect(x, y, size, corner) {
				img.SetRGBA(x, y, blue)
			}
		}
	}

	// Sun disc in the upper half
	cx, cy := size/2, size*2/5
	r := size / 5
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(x, y, white)
			}
		}
	}

	// Horizon line
	hy := size * 2 / 3
	for y := hy; y < hy+size/16+1; y++ {
		for x := size / 6; x < size-size/6; x++ {
			img.SetRGBA(x, y, white)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		// Encoding an in-memory RGBA image cannot fail in practice
		return nil
	}
	return buf.Bytes()
}

func insideRoundedRect(x, y, size, corner int) bool {
	// Test against each corner circle
	inCornerBox := func(cx, cy int) bool {
		dx, dy := x-cx, y-cy
		return dx*dx+dy*dy > corner*corner
	}

	if x < corner && y < corner && inCornerBox(corner, corner) {
		return false
	}
	if x >= size-corner && y < corner && inCornerBox(size-corner-1, corner) {
		return false
	}
	if x < corner && y >= size-corner && inCornerBox(corner, size-corner-1) {
		return false
	}
	if x >= size-corner && y >= size-corner && inCornerBox(size-corner-1, size-corner-1) {
		return false
	}
	return true
}
