package orgtree

import _ "embed"

// Version is the release of the orgtree module, embedded from the VERSION file.
//
//go:embed VERSION
var Version string
