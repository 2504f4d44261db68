// Package version reports the SignalSentry build version.
package version

const product = "signalsentry"

// Set with -ldflags "-X github.com/carverauto/signalsentry/pkg/version.version=v0.3.0".
//
//nolint:gochecknoglobals // ldflags injection target
var (
	version = "dev"
	buildID = "dev"
)

// GetVersion returns the release version, "dev" for local builds.
func GetVersion() string {
	return version
}

// GetFullVersion returns the version with the build id, as printed by -version.
func GetFullVersion() string {
	return product + " " + version + " (build: " + buildID + ")"
}

// UserAgent identifies the client to the backend and to NATS.
func UserAgent() string {
	return product + "/" + version
}
