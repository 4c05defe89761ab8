// Package version reports the build version, set at link time with
// -ldflags "-X github.com/rhobs/agent-tools/pkg/version.version=1.2.3".
package version

import (
	"log/slog"
	"strings"

	"github.com/blang/semver/v4"
)

const fallback = "0.0.0-dev"

var version = fallback

// Semver returns the parsed build version, or the development fallback when
// the injected value is not a valid semantic version.
func Semver() semver.Version {
	v, err := semver.ParseTolerant(strings.TrimSpace(version))
	if err != nil {
		slog.Debug("invalid build version, using fallback", "version", version, "err", err)
		return semver.MustParse(fallback)
	}
	return v
}

// String returns the normalized build version.
func String() string {
	return Semver().String()
}
