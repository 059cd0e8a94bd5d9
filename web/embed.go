// Package web holds the page template and static assets compiled into the
// binary.
package web

import "embed"

// FS contains templates/ and static/.
//
//go:embed templates static
var FS embed.FS
