package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
)

// CheckVersionCompatibility reports whether a dashboard built at clientVersion can drive a
// server reporting serverVersion. Returns nil when compatible.
//
// Rules:
//   - "main" on either side (development build) skips the check
//   - an empty server version (an older server without the header) is accepted
//   - major and minor must match; patch may differ
//
// Examples:
//   - client 1.2.0, server 1.2.7 -> OK
//   - client 1.3.0, server 1.2.0 -> ERROR (minor differs)
//   - client 2.0.0, server 1.2.0 -> ERROR (major differs)
func CheckVersionCompatibility(clientVersion, serverVersion string) error {
	clientVersion = strings.TrimPrefix(clientVersion, "v")
	serverVersion = strings.TrimPrefix(serverVersion, "v")

	if clientVersion == "main" || serverVersion == "main" || serverVersion == "" {
		return nil
	}

	clientSemver, err := semver.NewVersion(clientVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid dashboard version '%s'", clientVersion)
	}

	serverSemver, err := semver.NewVersion(serverVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid server version '%s'", serverVersion)
	}

	if clientSemver.Major() != serverSemver.Major() {
		return errors.Newf(errors.ErrCodeVersionMismatch,
			"major version mismatch: dashboard is %d.x.x but server is %d.x.x",
			clientSemver.Major(), serverSemver.Major())
	}

	if clientSemver.Minor() != serverSemver.Minor() {
		return errors.Newf(errors.ErrCodeVersionMismatch,
			"minor version mismatch: dashboard is %d.%d.x but server is %d.%d.x",
			clientSemver.Major(), clientSemver.Minor(),
			serverSemver.Major(), serverSemver.Minor())
	}

	return nil
}
