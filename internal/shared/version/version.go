package version

// Version is overridden at build time via -ldflags "-X unusedargs/internal/shared/version.Version=...".
var Version = "0.5.0"
