package useragent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeviceName(t *testing.T) {
	chrome := ParseUserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	assert.Equal(t, "Chrome on Windows", chrome.DeviceName())
	assert.False(t, chrome.Bot)

	assert.Equal(t, "", ParseUserAgent("").DeviceName())
	assert.Equal(t, "Firefox", (&UserAgent{Name: "Firefox"}).DeviceName())
}
