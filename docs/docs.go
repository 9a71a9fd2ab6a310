// Package docs holds the committed swagger spec served at /swagger.
// Regenerate with `swag init -g cmd/runtime/main.go` after changing
// handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/price": {
            "get": {
                "produces": ["application/json"],
                "tags": ["price"],
                "summary": "Get token price",
                "parameters": [
                    {"type": "string", "name": "address", "in": "query", "required": true, "description": "Token mint address (base58)"},
                    {"type": "number", "name": "amount", "in": "query", "default": 1, "description": "Amount in whole token units"}
                ],
                "responses": {
                    "200": {"description": "Resolved price"},
                    "400": {"description": "Invalid address or amount"},
                    "404": {"description": "No liquidity route found"}
                }
            }
        },
        "/api/v1/price/batch": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["price"],
                "summary": "Get prices for a batch of tokens",
                "responses": {
                    "200": {"description": "Per-item results with summary"},
                    "400": {"description": "Empty or oversized batch"}
                }
            }
        },
        "/api/v1/tokens": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tokens"],
                "summary": "List known tokens",
                "parameters": [
                    {"type": "integer", "name": "page", "in": "query", "default": 1},
                    {"type": "integer", "name": "pageSize", "in": "query", "default": 50}
                ],
                "responses": {"200": {"description": "One catalog page"}}
            }
        },
        "/api/v1/tokens/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tokens"],
                "summary": "Search tokens",
                "parameters": [
                    {"type": "string", "name": "query", "in": "query", "required": true, "description": "Min 2 characters"},
                    {"type": "integer", "name": "limit", "in": "query", "default": 10}
                ],
                "responses": {
                    "200": {"description": "Matches in catalog order"},
                    "400": {"description": "Query too short"}
                }
            }
        },
        "/api/v1/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["status"],
                "summary": "Pricing engine status",
                "responses": {"200": {"description": "End-to-end probe result"}}
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Token Price Engine API",
	Description:      "Best-effort fiat-equivalent token pricing via a cascade of quote strategies.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
