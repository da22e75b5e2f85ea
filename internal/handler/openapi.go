package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
	"github.com/tivecs/finance/finance-backend/docs"
)

const jsonMediaType = "application/json"

// OpenAPI3Document is the subset of an OpenAPI 3.0 document the API publishes
type OpenAPI3Document struct {
	OpenAPI    string         `json:"openapi"`
	Info       map[string]any `json:"info"`
	Servers    []Server       `json:"servers"`
	Paths      map[string]any `json:"paths"`
	Components map[string]any `json:"components,omitempty"`
}

// Server is an OpenAPI 3.0 server entry
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// OpenAPI3Spec serves the generated swagger 2.0 document converted to
// OpenAPI 3.0, with publicURL as the only server. The document is
// converted on first request and reused.
func OpenAPI3Spec(publicURL string) echo.HandlerFunc {
	servers := []Server{{
		URL:         strings.TrimRight(publicURL, "/") + docs.SwaggerInfo.BasePath,
		Description: "API",
	}}

	var (
		once    sync.Once
		doc     *OpenAPI3Document
		loadErr error
	)

	return func(c echo.Context) error {
		once.Do(func() {
			var raw string
			if raw, loadErr = swag.ReadDoc(docs.SwaggerInfo.InstanceName()); loadErr == nil {
				doc, loadErr = convertSwagger2([]byte(raw), servers)
			}
		})
		if loadErr != nil {
			return respondInternal(c, loadErr, "Failed to build OpenAPI document")
		}
		return c.JSON(http.StatusOK, doc)
	}
}

func convertSwagger2(raw []byte, servers []Server) (*OpenAPI3Document, error) {
	var swagger2 struct {
		Info                map[string]any            `json:"info"`
		Paths               map[string]map[string]any `json:"paths"`
		Definitions         map[string]any            `json:"definitions"`
		SecurityDefinitions map[string]any            `json:"securityDefinitions"`
	}
	if err := json.Unmarshal(raw, &swagger2); err != nil {
		return nil, fmt.Errorf("parse swagger doc: %w", err)
	}

	paths := make(map[string]any, len(swagger2.Paths))
	for path, operations := range swagger2.Paths {
		converted := make(map[string]any, len(operations))
		for method, op := range operations {
			if opMap, ok := op.(map[string]any); ok {
				converted[method] = convertOperation(opMap)
			} else {
				converted[method] = op
			}
		}
		paths[path] = converted
	}

	components := map[string]any{}
	if len(swagger2.Definitions) > 0 {
		components["schemas"] = rewriteRefs(swagger2.Definitions)
	}
	if len(swagger2.SecurityDefinitions) > 0 {
		components["securitySchemes"] = swagger2.SecurityDefinitions
	}

	return &OpenAPI3Document{
		OpenAPI:    "3.0.3",
		Info:       swagger2.Info,
		Servers:    servers,
		Paths:      paths,
		Components: components,
	}, nil
}

// convertOperation moves body parameters into requestBody and response
// schemas under content. consumes/produces have no 3.0 equivalent.
func convertOperation(op map[string]any) map[string]any {
	out := make(map[string]any, len(op))
	for key, value := range op {
		switch key {
		case "consumes", "produces":
		case "parameters":
			params, _ := value.([]any)
			var kept []any
			for _, p := range params {
				param, ok := p.(map[string]any)
				if !ok {
					continue
				}
				if param["in"] == "body" {
					out["requestBody"] = requestBody(param)
					continue
				}
				kept = append(kept, convertParameter(param))
			}
			if len(kept) > 0 {
				out["parameters"] = kept
			}
		case "responses":
			responses, _ := value.(map[string]any)
			converted := make(map[string]any, len(responses))
			for status, r := range responses {
				converted[status] = convertResponse(r)
			}
			out["responses"] = converted
		default:
			out[key] = rewriteRefs(value)
		}
	}
	return out
}

func requestBody(param map[string]any) map[string]any {
	body := map[string]any{
		"content": map[string]any{
			jsonMediaType: map[string]any{"schema": rewriteRefs(param["schema"])},
		},
	}
	if desc, ok := param["description"]; ok {
		body["description"] = desc
	}
	if required, ok := param["required"]; ok {
		body["required"] = required
	}
	return body
}

var parameterSchemaFields = []string{"type", "format", "enum", "default", "minimum", "maximum", "items"}

func convertParameter(param map[string]any) map[string]any {
	out := make(map[string]any)
	schema := make(map[string]any)
	for key, value := range param {
		if slices.Contains(parameterSchemaFields, key) {
			schema[key] = rewriteRefs(value)
			continue
		}
		out[key] = value
	}
	if len(schema) > 0 {
		out["schema"] = schema
	}
	return out
}

func convertResponse(r any) any {
	response, ok := r.(map[string]any)
	if !ok {
		return r
	}
	out := make(map[string]any, len(response))
	for key, value := range response {
		if key == "schema" {
			out["content"] = map[string]any{
				jsonMediaType: map[string]any{"schema": rewriteRefs(value)},
			}
			continue
		}
		out[key] = rewriteRefs(value)
	}
	return out
}

// rewriteRefs points every #/definitions/ reference at #/components/schemas/
func rewriteRefs(v any) any {
	switch node := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(node))
		for key, value := range node {
			if ref, ok := value.(string); ok && key == "$ref" {
				out[key] = strings.Replace(ref, "#/definitions/", "#/components/schemas/", 1)
				continue
			}
			out[key] = rewriteRefs(value)
		}
		return out
	case []any:
		out := make([]any, len(node))
		for i, item := range node {
			out[i] = rewriteRefs(item)
		}
		return out
	default:
		return v
	}
}
