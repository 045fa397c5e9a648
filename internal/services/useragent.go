package services

import (
	"strings"

	"github.com/mssola/user_agent"
)

// Classification is the coarse visitor taxonomy stored on each scan row.
type Classification struct {
	DeviceType      string
	Browser         string
	OperatingSystem string
}

const unknownLabel = "Unknown"

// ClassifyUserAgent maps a raw User-Agent header to coarse device, browser
// and OS labels. Total: any input, including an empty string, yields a
// classification with Unknown sentinels rather than an error.
func ClassifyUserAgent(raw string) Classification {
	if strings.TrimSpace(raw) == "" {
		return Classification{
			DeviceType:      unknownLabel,
			Browser:         unknownLabel,
			OperatingSystem: unknownLabel,
		}
	}

	ua := user_agent.New(raw)

	browserName, browserVer := ua.Browser()
	browser := strings.TrimSpace(browserName + " " + browserVer)
	if browser == "" {
		browser = unknownLabel
	}

	os := ua.OS()
	if os == "" {
		os = unknownLabel
	}

	deviceType := "Desktop"
	if ua.Bot() {
		deviceType = "Bot"
	} else if ua.Mobile() {
		deviceType = "Mobile"
	}

	return Classification{
		DeviceType:      deviceType,
		Browser:         browser,
		OperatingSystem: os,
	}
}
