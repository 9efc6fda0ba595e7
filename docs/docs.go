// Package docs holds the OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/compare-prices": {
            "post": {
                "description": "Prices the grocery list at every store within the radius and ranks the stores.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["comparison"],
                "summary": "Compare grocery prices",
                "parameters": [
                    {
                        "description": "Location and grocery list",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.ComparisonRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ComparisonResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "504": {"description": "Gateway Timeout", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/stores/nearby": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stores"],
                "summary": "List nearby stores",
                "parameters": [
                    {"type": "number", "description": "Latitude", "name": "latitude", "in": "query", "required": true},
                    {"type": "number", "description": "Longitude", "name": "longitude", "in": "query", "required": true},
                    {"type": "number", "description": "Search radius in kilometres", "name": "radius_km", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.StoreInfo"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "models.LocationQuery": {
            "type": "object",
            "required": ["latitude", "longitude"],
            "properties": {
                "latitude": {"type": "number"},
                "longitude": {"type": "number"},
                "radius_km": {"type": "number"}
            }
        },
        "models.ComparisonRequest": {
            "type": "object",
            "required": ["grocery_list", "user_location"],
            "properties": {
                "grocery_list": {"type": "array", "minItems": 1, "items": {"type": "string"}},
                "user_location": {"$ref": "#/definitions/models.LocationQuery"}
            }
        },
        "models.StoreInfo": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "chain_id": {"type": "string"},
                "sub_chain_id": {"type": "integer"},
                "store_id": {"type": "integer"},
                "address": {"type": "string"},
                "city": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"},
                "distance_km": {"type": "number"}
            }
        },
        "models.ItemPrice": {
            "type": "object",
            "properties": {
                "item_code": {"type": "string"},
                "item_name": {"type": "string"},
                "price": {"type": "number"},
                "unit_of_measure": {"type": "string"},
                "manufacturer_name": {"type": "string"}
            }
        },
        "models.StoreComparison": {
            "type": "object",
            "properties": {
                "store": {"$ref": "#/definitions/models.StoreInfo"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/models.ItemPrice"}},
                "total_price": {"type": "number"},
                "items_found": {"type": "integer"},
                "items_missing": {"type": "array", "items": {"type": "string"}}
            }
        },
        "models.ComparisonResult": {
            "type": "object",
            "properties": {
                "stores": {"type": "array", "items": {"$ref": "#/definitions/models.StoreComparison"}},
                "best_store": {"$ref": "#/definitions/models.StoreComparison"},
                "requested_items": {"type": "array", "items": {"type": "string"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "ShopSaver API",
	Description:      "Compares grocery basket prices across nearby supermarkets.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
