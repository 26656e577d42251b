package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/docker/go-units"
)

// ValidateURL validates that a string is a usable http(s) URL.
func ValidateURL(urlStr string, fieldName string) error {
	if urlStr == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", fieldName, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must use http or https", fieldName)
	}

	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host", fieldName)
	}

	return nil
}

// ValidateTimeout validates that a timeout is positive and bounded.
func ValidateTimeout(timeout time.Duration, fieldName string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s must be positive, got %s", fieldName, timeout)
	}
	if timeout > 10*time.Minute {
		return fmt.Errorf("%s too high (max 10m), got %s", fieldName, timeout)
	}
	return nil
}

// ParseMaxAttachmentSize parses a human-readable size string (e.g. "25MB",
// "1GB") into bytes.
func ParseMaxAttachmentSize(sizeStr string) (int64, error) {
	size, err := units.FromHumanSize(sizeStr)
	if err != nil {
		return 0, fmt.Errorf("failed to parse max attachment size: %w", err)
	}
	return size, nil
}
