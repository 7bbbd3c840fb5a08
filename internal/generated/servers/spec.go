package servers

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var rawSpec []byte

var defineFormatsOnce sync.Once

// Spec returns the raw OpenAPI document.
func Spec() []byte {
	return rawSpec
}

// GetSwagger parses and validates the embedded OpenAPI document. Each call returns a fresh copy.
func GetSwagger() (*openapi3.T, error) {
	defineFormatsOnce.Do(func() {
		openapi3.DefineStringFormatValidator("uuid",
			openapi3.NewRegexpFormatValidator(openapi3.FormatOfStringForUUIDOfRFC4122))
	})

	loader := openapi3.NewLoader()
	swagger, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("error loading spec: %w", err)
	}
	if err := swagger.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("error validating spec: %w", err)
	}
	return swagger, nil
}
