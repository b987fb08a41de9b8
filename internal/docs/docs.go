// Package docs registers the OpenAPI description served under /swagger/.
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
        "/rosters": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["rosters"],
                "summary": "Process a roster",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.ProcessRosterRequest"}}],
                "responses": {
                    "200": {"description": "data contains stays, matches and the notification report", "schema": {"$ref": "#/definitions/controllers.ProcessRosterSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "502": {"description": "error.code: bad_gateway (extraction failed)", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/stays": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["stays"],
                "summary": "List my stays",
                "parameters": [
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size (default 20, max 100)", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "data contains items and pagination", "schema": {"$ref": "#/definitions/controllers.ListStaysSuccessResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["stays"],
                "summary": "Record a stay",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.RecordStayRequest"}}],
                "responses": {
                    "201": {"description": "data contains the stay, its match and the notification report", "schema": {"$ref": "#/definitions/controllers.RecordStaySuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/crew/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["crew"],
                "summary": "Get my crew profile",
                "responses": {
                    "200": {"description": "data contains the profile", "schema": {"$ref": "#/definitions/controllers.CrewProfileSuccessResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/crew/me/home-base": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["crew"],
                "summary": "Set my home base",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.SetHomeBaseRequest"}}],
                "responses": {
                    "200": {"description": "data contains the updated profile", "schema": {"$ref": "#/definitions/controllers.CrewProfileSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/crew/me/email-opt-in": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["crew"],
                "summary": "Enable or disable email notifications",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.SetEmailOptInRequest"}}],
                "responses": {
                    "200": {"description": "data contains the updated profile", "schema": {"$ref": "#/definitions/controllers.CrewProfileSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/telegram/webhook": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["telegram"],
                "summary": "Telegram bot webhook",
                "parameters": [{"type": "string", "description": "Webhook secret", "name": "X-Telegram-Bot-Api-Secret-Token", "in": "header"}],
                "responses": {
                    "200": {"description": "ok", "schema": {"type": "object", "additionalProperties": {"type": "boolean"}}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "helpers.APIError": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}}},
        "helpers.APIResponse": {"type": "object", "properties": {"data": {}, "error": {"$ref": "#/definitions/helpers.APIError"}}},
        "helpers.PaginationMeta": {"type": "object", "properties": {"page": {"type": "integer"}, "page_size": {"type": "integer"}, "total": {"type": "integer"}, "total_pages": {"type": "integer"}}},
        "domain.RawEvent": {"type": "object", "properties": {"type": {"type": "string"}, "timestamp": {"type": "string"}, "location": {"type": "string"}, "label": {"type": "string"}}},
        "domain.Stay": {"type": "object", "properties": {"id": {"type": "string"}, "owner": {"type": "string"}, "city": {"type": "string"}, "check_in": {"type": "string"}, "check_out": {"type": "string"}, "created_at": {"type": "string"}}},
        "domain.MatchGroup": {"type": "object", "properties": {"city": {"type": "string"}, "date": {"type": "string"}, "members": {"type": "array", "items": {"type": "string"}}}},
        "domain.DispatchFailure": {"type": "object", "properties": {"recipient": {"type": "string"}, "error": {"type": "string"}}},
        "domain.DispatchReport": {"type": "object", "properties": {
            "sent": {"type": "array", "items": {"type": "string"}},
            "already_notified": {"type": "array", "items": {"type": "string"}},
            "no_endpoint": {"type": "array", "items": {"type": "string"}},
            "failed": {"type": "array", "items": {"$ref": "#/definitions/domain.DispatchFailure"}}
        }},
        "domain.RosterResult": {"type": "object", "properties": {
            "run_id": {"type": "string"},
            "events_received": {"type": "integer"},
            "events_accepted": {"type": "integer"},
            "stays": {"type": "array", "items": {"$ref": "#/definitions/domain.Stay"}},
            "matches": {"type": "array", "items": {"$ref": "#/definitions/domain.MatchGroup"}},
            "notifications": {"$ref": "#/definitions/domain.DispatchReport"},
            "no_stays": {"type": "boolean"},
            "partial": {"type": "boolean"}
        }},
        "domain.StayOutcome": {"type": "object", "properties": {
            "stay": {"$ref": "#/definitions/domain.Stay"},
            "match": {"$ref": "#/definitions/domain.MatchGroup"},
            "notifications": {"$ref": "#/definitions/domain.DispatchReport"}
        }},
        "domain.CrewMember": {"type": "object", "properties": {"id": {"type": "string"}, "home_base": {"type": "string"}, "telegram_chat_id": {"type": "string"}, "email_opt_in": {"type": "boolean"}, "created_at": {"type": "string"}, "updated_at": {"type": "string"}}},
        "controllers.ProcessRosterRequest": {"type": "object", "properties": {"document": {"type": "string"}, "events": {"type": "array", "items": {"$ref": "#/definitions/domain.RawEvent"}}}},
        "controllers.ProcessRosterSuccessResponse": {"type": "object", "properties": {"data": {"$ref": "#/definitions/domain.RosterResult"}, "error": {"$ref": "#/definitions/helpers.APIError"}}},
        "controllers.RecordStayRequest": {"type": "object", "properties": {"city": {"type": "string"}, "check_in": {"type": "string"}, "check_out": {"type": "string"}}},
        "controllers.RecordStaySuccessResponse": {"type": "object", "properties": {"data": {"$ref": "#/definitions/domain.StayOutcome"}, "error": {"$ref": "#/definitions/helpers.APIError"}}},
        "controllers.ListStaysResponse": {"type": "object", "properties": {"items": {"type": "array", "items": {"$ref": "#/definitions/domain.Stay"}}, "pagination": {"$ref": "#/definitions/helpers.PaginationMeta"}}},
        "controllers.ListStaysSuccessResponse": {"type": "object", "properties": {"data": {"$ref": "#/definitions/controllers.ListStaysResponse"}, "error": {"$ref": "#/definitions/helpers.APIError"}}},
        "controllers.SetHomeBaseRequest": {"type": "object", "properties": {"home_base": {"type": "string"}}},
        "controllers.SetEmailOptInRequest": {"type": "object", "properties": {"enabled": {"type": "boolean"}}},
        "controllers.CrewProfileSuccessResponse": {"type": "object", "properties": {"data": {"$ref": "#/definitions/domain.CrewMember"}, "error": {"$ref": "#/definitions/helpers.APIError"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Crew Match API",
	Description:      "Overnight stay inference and cross-crew match notifications.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
