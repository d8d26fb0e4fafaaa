package errors

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	maxSampleNameLen = 128
	maxRelPathLen    = 500
)

// ValidateSampleName rejects sample names that cannot safely become an
// output filename stem (<name>_NTScore.csv.gz). Anything that could
// climb out of the output directory fails validation.
func ValidateSampleName(name string) error {
	switch {
	case name == "":
		return New(ErrCodeInvalidSample, "sample name cannot be empty")
	case len(name) > maxSampleNameLen:
		return New(ErrCodeInvalidSample, "sample name exceeds %d characters", maxSampleNameLen)
	case strings.Contains(name, ".."):
		return New(ErrCodeInvalidSample, "sample name cannot contain %q", "..")
	case strings.ContainsAny(name, `/\`):
		return New(ErrCodeInvalidSample, "sample name cannot contain path separators")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSample, "sample name contains control characters")
		}
	}
	return nil
}

// ValidateRelativePath guards paths requested underneath a served root.
// http.ServeFile has its own traversal check; this runs first so the
// rejection comes back as a structured INVALID_PATH error instead of a
// plain-text 400.
func ValidateRelativePath(path string) error {
	switch {
	case path == "":
		return New(ErrCodeInvalidPath, "path cannot be empty")
	case len(path) > maxRelPathLen:
		return New(ErrCodeInvalidPath, "path exceeds %d characters", maxRelPathLen)
	case strings.HasPrefix(path, "/"):
		return New(ErrCodeInvalidPath, "path must be relative")
	case strings.Contains(path, ".."):
		return New(ErrCodeInvalidPath, "path cannot contain %q", "..")
	case strings.Contains(path, `\`):
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains control characters")
		}
	}
	return nil
}

// redisAddrPattern accepts bare host:port addresses. Schemes,
// credentials, and database selectors are not supported.
var redisAddrPattern = regexp.MustCompile(`^[A-Za-z0-9.-]+:[0-9]{1,5}$`)

// ValidateRedisAddr checks the address for the redis cache backend
// before a client is constructed from it.
func ValidateRedisAddr(addr string) error {
	if addr == "" {
		return New(ErrCodeInvalidConfig, "redis address cannot be empty")
	}
	if !redisAddrPattern.MatchString(addr) {
		return New(ErrCodeInvalidConfig, "invalid redis address %q (want host:port)", addr)
	}
	return nil
}
