package main

import (
	"embed"
)

// embeddedFrontend contains the markup templates the patchers render.
//
//go:embed frontend
var embeddedFrontend embed.FS
