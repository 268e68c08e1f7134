// Package version contains the campaign runner version.
package version

// Version is the campaign runner version.
const Version = "0.1.0-dev"
