package version

// Version is the release version stamped at build time.
var Version = "0.3.0"
