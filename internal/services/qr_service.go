package services

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

const (
	qrMinSize     = 64
	qrMaxSize     = 1024
	qrDefaultSize = 256
)

// QRService renders the scannable PNG for a route's public URL.
type QRService struct{}

func NewQRService() *QRService {
	return &QRService{}
}

// GeneratePNG encodes content as a QR code of size x size pixels. Size is
// clamped to sane bounds; zero means the default.
func (s *QRService) GeneratePNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("qr content must not be empty")
	}

	if size == 0 {
		size = qrDefaultSize
	}
	if size < qrMinSize {
		size = qrMinSize
	}
	if size > qrMaxSize {
		size = qrMaxSize
	}

	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}
