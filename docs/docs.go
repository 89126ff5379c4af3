// Package docs holds the OpenAPI description served under /swagger.
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
        "/router/quote": {
            "get": {
                "description": "returns the best trade it can compute for the given token pair. Exactly one of tokenIn (exact input) and tokenOut (exact output) must be given.",
                "produces": ["application/json"],
                "summary": "Optimal Quote",
                "operationId": "get-route-quote",
                "parameters": [
                    {"type": "string", "description": "Raw input amount for an exact input trade.", "name": "tokenIn", "in": "query"},
                    {"type": "string", "description": "Raw output amount for an exact output trade.", "name": "tokenOut", "in": "query"},
                    {"type": "string", "description": "Input token address, symbol or native.", "name": "tokenInAddress", "in": "query", "required": true},
                    {"type": "string", "description": "Output token address, symbol or native.", "name": "tokenOutAddress", "in": "query", "required": true},
                    {"type": "integer", "description": "Maximum pools per route.", "name": "maxHops", "in": "query"},
                    {"type": "integer", "description": "Maximum routes in a split.", "name": "maxSplits", "in": "query"},
                    {"type": "integer", "description": "Split granularity in percent.", "name": "distributionPercent", "in": "query"},
                    {"type": "integer", "description": "Block to pin the trade to. Latest by default.", "name": "blockNumber", "in": "query"},
                    {"type": "string", "description": "Comma separated pool types: V2, V3, STABLE.", "name": "poolTypes", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "The computed best trade", "schema": {"$ref": "#/definitions/types.QuoteResponse"}}
                }
            }
        },
        "/router/routes": {
            "get": {
                "description": "returns all candidate routes between the two tokens within the hop bound.",
                "produces": ["application/json"],
                "summary": "Token Routing Information",
                "operationId": "get-router-routes",
                "parameters": [
                    {"type": "string", "description": "Input token address, symbol or native.", "name": "tokenInAddress", "in": "query", "required": true},
                    {"type": "string", "description": "Output token address, symbol or native.", "name": "tokenOutAddress", "in": "query", "required": true},
                    {"type": "integer", "description": "Maximum pools per route.", "name": "maxHops", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Candidate routes", "schema": {"type": "array", "items": {"$ref": "#/definitions/types.RouteResponse"}}}
                }
            }
        },
        "/pools": {
            "get": {
                "description": "returns the pools of the latest snapshot. When addresses are given, only those pools are returned.",
                "produces": ["application/json"],
                "summary": "Get pools",
                "operationId": "get-pools",
                "parameters": [
                    {"type": "string", "description": "Comma separated pool addresses", "name": "addresses", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "List of pools", "schema": {"type": "array", "items": {"$ref": "#/definitions/types.PoolResponse"}}}
                }
            }
        },
        "/tokens/metadata": {
            "get": {
                "description": "returns the metadata of the given tokens, or of every known token when none are given.",
                "produces": ["application/json"],
                "summary": "Token Metadata",
                "operationId": "get-token-metadata",
                "parameters": [
                    {"type": "string", "description": "Comma separated token addresses, symbols or native", "name": "tokens", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Success", "schema": {"type": "object", "additionalProperties": {"$ref": "#/definitions/types.CurrencyResponse"}}}
                }
            }
        },
        "/tokens/prices": {
            "get": {
                "description": "Given a list of tokens, returns their USD prices.",
                "produces": ["application/json"],
                "summary": "Get prices",
                "operationId": "get-prices",
                "parameters": [
                    {"type": "string", "description": "Comma separated token addresses, symbols or native", "name": "tokens", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "A map where each key is a token as given and the value is its USD price", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "types.CurrencyResponse": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "decimals": {"type": "integer"},
                "isNative": {"type": "boolean"},
                "symbol": {"type": "string"}
            }
        },
        "types.PoolResponse": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "fee": {"type": "integer"},
                "token0": {"$ref": "#/definitions/types.CurrencyResponse"},
                "token1": {"$ref": "#/definitions/types.CurrencyResponse"},
                "type": {"type": "string"}
            }
        },
        "types.RouteResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "path": {"type": "array", "items": {"$ref": "#/definitions/types.CurrencyResponse"}},
                "pools": {"type": "array", "items": {"$ref": "#/definitions/types.PoolResponse"}},
                "type": {"type": "string"}
            }
        },
        "types.SplitRouteResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "path": {"type": "array", "items": {"$ref": "#/definitions/types.CurrencyResponse"}},
                "pools": {"type": "array", "items": {"$ref": "#/definitions/types.PoolResponse"}},
                "type": {"type": "string"},
                "percent": {"type": "integer"},
                "inputAmount": {"type": "string"},
                "outputAmount": {"type": "string"},
                "gasEstimate": {"type": "string"}
            }
        },
        "types.QuoteResponse": {
            "type": "object",
            "properties": {
                "tradeType": {"type": "string"},
                "tokenIn": {"$ref": "#/definitions/types.CurrencyResponse"},
                "tokenOut": {"$ref": "#/definitions/types.CurrencyResponse"},
                "amountIn": {"type": "string"},
                "amountOut": {"type": "string"},
                "gasEstimate": {"type": "string"},
                "gasEstimateInUSD": {"type": "string"},
                "blockNumber": {"type": "integer"},
                "routes": {"type": "array", "items": {"$ref": "#/definitions/types.SplitRouteResponse"}}
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
	Title:            "Smart Order Router",
	Description:      "Finds the best split trade across V2, V3 and stable swap pools.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
