package version

// Version is overridden at build time with -ldflags "-X github.com/bitrise-io/sage/version.Version=..."
var Version = "0.1.0"
