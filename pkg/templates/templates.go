// Package templates provides embedded YAML configuration templates.
package templates

import _ "embed"

// ConfigYAML contains the default botdb.yaml template for
// application configuration.
//
//go:embed botdb.yaml
var ConfigYAML string
