// Package constant defines immutable application-level identifiers.
package constant

// App is the canonical application identifier used for filesystem paths, environment variables and CLI branding.
const App = "mediasurface"

// Version is the current application semantic version string.
const Version = "0.1.0"

// Build metadata, injected with -ldflags "-X" at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
