// Package ui embeds the built SPA. The frontend build drops its output
// into dist/ before the Go build runs.
package ui

import "embed"

//go:embed dist
var DistFS embed.FS
