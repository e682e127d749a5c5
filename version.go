package triage

// Version is the library version, overridable at build time via
// -ldflags "-X github.com/triagekit/triage.Version=v1.2.3".
var Version = "dev"
