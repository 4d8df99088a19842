package render

import (
	"image"

	"github.com/skip2/go-qrcode"
)

const defaultQRCodeSizePx = 256

// GenerateQRCodeImage returns a QR code image for the given payload.
// If payload is empty, it returns (nil, nil).
func GenerateQRCodeImage(payload string, sizePx int) (image.Image, error) {
	if payload == "" {
		return nil, nil
	}
	if sizePx <= 0 {
		sizePx = defaultQRCodeSizePx
	}

	qrCode, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	qrCode.DisableBorder = true

	return qrCode.Image(sizePx), nil
}

// QRCodePNG encodes payload as a PNG QR code, for share links served over HTTP.
func QRCodePNG(payload string, sizePx int) ([]byte, error) {
	if sizePx <= 0 {
		sizePx = defaultQRCodeSizePx
	}
	return qrcode.Encode(payload, qrcode.Medium, sizePx)
}

// QRCache keeps the image for the last payload so screens don't re-encode
// every frame.
type QRCache struct {
	payload string
	size    int
	img     image.Image
}

func (c *QRCache) Image(payload string, sizePx int) (image.Image, error) {
	if c.img != nil && c.payload == payload && c.size == sizePx {
		return c.img, nil
	}
	img, err := GenerateQRCodeImage(payload, sizePx)
	if err != nil {
		return nil, err
	}
	c.payload, c.size, c.img = payload, sizePx, img
	return img, nil
}
