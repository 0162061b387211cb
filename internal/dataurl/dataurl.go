// Package dataurl converts local image files into embeddable data URLs,
// the storage format the remote service expects for record images.
package dataurl

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
)

// maxFileSize caps reads at 4 MiB; data URLs are embedded into record
// payloads and the remote service rejects oversized rows anyway.
const maxFileSize = 4 << 20

// FromFile reads path and returns a base64 data URL with a sniffed
// content type.
func FromFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if info.Size() > maxFileSize {
		return "", fmt.Errorf("read image: %s exceeds %d bytes", path, maxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("read image: %s is empty", path)
	}

	return Encode(data), nil
}

// Encode wraps raw bytes as a data URL, sniffing the media type.
func Encode(data []byte) string {
	mediaType := http.DetectContentType(data)
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
