// Package docs embeds the OpenAPI description of the HTTP API.
package docs

import (
	_ "embed"

	"github.com/goccy/go-yaml"
)

//go:embed openapi.yaml
var openAPI []byte

// YAML returns the raw OpenAPI document.
func YAML() []byte {
	return openAPI
}

// Document parses the OpenAPI document for JSON rendering.
func Document() (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(openAPI, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
