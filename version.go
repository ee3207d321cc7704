package got

// Version is the library semantic version (injected at build time
// optionally via -ldflags).
var Version = "v1.0.0"
