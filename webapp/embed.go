// Package webapp provides embedded static files for the workspace web client.
package webapp

import "embed"

//go:embed index.html css js
var Assets embed.FS
