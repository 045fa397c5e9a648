package services

import (
	"encoding/base64"
	"fmt"
	"image/color"
	"net/url"
	"strings"

	"github.com/joao1975-rgb/qr-tracking/internal/metrics"
	"github.com/joao1975-rgb/qr-tracking/internal/models"

	"github.com/skip2/go-qrcode"
)

const (
	minQRSize     = 100
	maxQRSize     = 1000
	defaultQRSize = 300
)

type QROptions struct {
	Content string
	Size    int
	Level   qrcode.RecoveryLevel
	FgColor string // hex, e.g. "#000000"
	BgColor string // hex, e.g. "#FFFFFF"
}

type QRService struct{}

func NewQRService() *QRService {
	return &QRService{}
}

// ClampSize folds out-of-range pixel sizes back into the supported window.
func ClampSize(size int) int {
	if size == 0 {
		return defaultQRSize
	}
	if size < minQRSize {
		return minQRSize
	}
	if size > maxQRSize {
		return maxQRSize
	}
	return size
}

// ParseRecoveryLevel maps the L/M/Q/H letters to go-qrcode levels,
// defaulting to Medium for anything unrecognized.
func ParseRecoveryLevel(s string) qrcode.RecoveryLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "L":
		return qrcode.Low
	case "Q":
		return qrcode.High
	case "H":
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

// GeneratePNG renders the QR as a PNG and returns it base64 encoded along
// with the raw bytes.
func (s *QRService) GeneratePNG(opts QROptions) (string, []byte, error) {
	qr, err := qrcode.New(opts.Content, opts.Level)
	if err != nil {
		return "", nil, err
	}

	qr.ForegroundColor = parseHexColor(opts.FgColor, color.Black)
	qr.BackgroundColor = parseHexColor(opts.BgColor, color.White)

	pngBytes, err := qr.PNG(ClampSize(opts.Size))
	if err != nil {
		return "", nil, err
	}

	metrics.QRGenerationsTotal.Inc()
	return base64.StdEncoding.EncodeToString(pngBytes), pngBytes, nil
}

// GenerateSVG renders the QR as an SVG path document.
func (s *QRService) GenerateSVG(opts QROptions) (string, error) {
	qr, err := qrcode.New(opts.Content, opts.Level)
	if err != nil {
		return "", err
	}

	qr.DisableBorder = true
	bitmap := qr.Bitmap()
	size := len(bitmap)

	bg := opts.BgColor
	if bg == "" {
		bg = "#FFFFFF"
	}
	fg := opts.FgColor
	if fg == "" {
		fg = "#000000"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" shape-rendering="crispEdges">`, size, size))
	sb.WriteString(fmt.Sprintf(`<rect width="100%%" height="100%%" fill="%s"/>`, bg))
	sb.WriteString(fmt.Sprintf(`<path fill="%s" d="`, fg))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if bitmap[y][x] {
				sb.WriteString(fmt.Sprintf("M%d %dh1v1h-1z ", x, y))
			}
		}
	}
	sb.WriteString(`"/>`)
	sb.WriteString("</svg>")

	metrics.QRGenerationsTotal.Inc()
	return sb.String(), nil
}

// BuildTrackingURL assembles the /track URL a generated QR encodes. Device
// fields ride along so a scan records where the code was displayed even when
// the device row is later deleted.
func (s *QRService) BuildTrackingURL(baseURL string, campaign *models.Campaign, device *models.PhysicalDevice) string {
	params := url.Values{}
	params.Set("campaign", campaign.CampaignCode)
	if campaign.Client != "" {
		params.Set("client", campaign.Client)
	}
	if campaign.Destination != "" {
		params.Set("destination", campaign.Destination)
	}
	if device != nil {
		params.Set("device_id", device.DeviceID)
		if device.DeviceName != "" {
			params.Set("device_name", device.DeviceName)
		}
		if device.Location != "" {
			params.Set("location", device.Location)
		}
		if device.Venue != "" {
			params.Set("venue", device.Venue)
		}
	}
	return strings.TrimRight(baseURL, "/") + "/track?" + params.Encode()
}

func parseHexColor(s string, defaultColor color.Color) color.Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return defaultColor
	}

	hexToByte := func(c byte) byte {
		if c >= '0' && c <= '9' {
			return c - '0'
		}
		if c >= 'a' && c <= 'f' {
			return c - 'a' + 10
		}
		if c >= 'A' && c <= 'F' {
			return c - 'A' + 10
		}
		return 0
	}

	r := (hexToByte(s[0]) << 4) + hexToByte(s[1])
	g := (hexToByte(s[2]) << 4) + hexToByte(s[3])
	b := (hexToByte(s[4]) << 4) + hexToByte(s[5])

	return color.RGBA{R: r, G: g, B: b, A: 255}
}
