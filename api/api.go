// Package api embeds the OpenAPI description of the orgtree HTTP interface.
package api

import _ "embed"

// OpenAPI is the raw OpenAPI 3 document in YAML.
//
//go:embed openapi.yaml
var OpenAPI []byte
