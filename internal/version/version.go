package version

// Version is overridden at build time with
// -ldflags "-X github.com/bnema/cursor-spend-cli/internal/version.Version=v1.2.3".
var Version = "dev"

// UserAgent is sent with every outbound request.
func UserAgent() string {
	return "cspend/" + Version
}
