package ui

import "embed"

// DistFS holds the UI bundle. Files live under DistRoot.
//
//go:embed all:wwwroot
var DistFS embed.FS

// DistRoot is the namespace prefix of the bundle inside DistFS.
const DistRoot = "wwwroot"
