// Package appfs holds the app's embedded static assets.
package appfs

import "embed"

//go:embed migrations
var FS embed.FS
