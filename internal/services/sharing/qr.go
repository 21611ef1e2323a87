package sharing

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/mcoot/xctimer/internal/model"
)

// QR rendering parameters
const (
	QRSize   = 256
	QRMargin = 2
)

var qrPalette = color.Palette{color.White, color.Black}

// QRCode returns a PNG data URI of a QR code holding the session JSON
func QRCode(session model.Session) (string, error) {
	data, err := QRCodePNG(session)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// QRCodePNG renders the session JSON as a QRSize square PNG with a QRMargin
// module quiet zone, black on white
func QRCodePNG(session model.Session) ([]byte, error) {
	code, err := newQR(session)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, renderQR(code.Bitmap(), QRSize, QRMargin)); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrQRCode, err)
	}
	return buf.Bytes(), nil
}

// TerminalQR renders the session QR code with Unicode half blocks for a terminal
func TerminalQR(session model.Session) (string, error) {
	code, err := newQR(session)
	if err != nil {
		return "", err
	}
	code.DisableBorder = false
	return code.ToSmallString(false), nil
}

func newQR(session model.Session) (*qrcode.QRCode, error) {
	data, err := CompactJSON(session)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrQRCode, err)
	}
	code, err := qrcode.New(string(data), qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrQRCode, err)
	}
	code.DisableBorder = true
	return code, nil
}

// renderQR scales a borderless module bitmap with margin modules on each
// side to fill a size by size image
func renderQR(bitmap [][]bool, size, margin int) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, size, size), qrPalette)
	modules := len(bitmap) + 2*margin

	for y := 0; y < size; y++ {
		my := y*modules/size - margin
		if my < 0 || my >= len(bitmap) {
			continue
		}
		for x := 0; x < size; x++ {
			mx := x*modules/size - margin
			if mx >= 0 && mx < len(bitmap) && bitmap[my][mx] {
				img.SetColorIndex(x, y, 1)
			}
		}
	}
	return img
}
