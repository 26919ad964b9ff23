package version

// Version is the build version of the bridge.
// Set at build time with:
// -ldflags "-X github.com/rxtech-lab/argo-bridge/internal/version.Version=1.2.3"
// "main" marks a development build.
var Version = "v1.0.0"

// HeaderName is the response header the server uses to advertise its version.
const HeaderName = "X-Bridge-Version"

// GetVersion returns the build version.
func GetVersion() string {
	return Version
}
