// Package docs registers the OpenAPI document served under /docs.
// Regenerate with: swag init -g cmd/api/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "playX Support"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Create an account and send a verification email",
                "parameters": [
                    {"description": "Account", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/types.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.APIResponse"}}
                }
            }
        },
        "/auth/verify/{token}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Confirm an email address",
                "parameters": [
                    {"type": "string", "description": "Verification token", "name": "token", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.APIResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Exchange credentials for an access token",
                "parameters": [
                    {"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.APIResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/types.APIResponse"}}
                }
            }
        },
        "/users/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Current user's profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.APIResponse"}}
                }
            }
        },
        "/users/profile": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Replace the current user's profile",
                "parameters": [
                    {"description": "Profile", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.UpdateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.APIResponse"}}
                }
            }
        },
        "/meta/sports": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["meta"],
                "summary": "Sport catalog",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.APIResponse"}}}
            }
        },
        "/meta/venues": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["meta"],
                "summary": "Venue catalog",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.APIResponse"}}}
            }
        },
        "/slots": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["slots"],
                "summary": "Browse open slots, newest first",
                "parameters": [
                    {"type": "string", "description": "Sport keyword", "name": "sport", "in": "query"},
                    {"type": "string", "description": "male, female or any", "name": "genderPreference", "in": "query"},
                    {"type": "integer", "description": "Lowest skill the caller accepts", "name": "minSkill", "in": "query"},
                    {"type": "integer", "description": "Highest skill the caller accepts", "name": "maxSkill", "in": "query"},
                    {"type": "number", "description": "Ignored", "name": "lat", "in": "query"},
                    {"type": "number", "description": "Ignored", "name": "lng", "in": "query"},
                    {"type": "number", "description": "Ignored", "name": "radiusKm", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.APIResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["slots"],
                "summary": "Create a slot with the caller as first player",
                "parameters": [
                    {"description": "Slot", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.CreateSlotRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/types.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.APIResponse"}}
                }
            }
        },
        "/slots/my-slots": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["slots"],
                "summary": "Slots the caller created or joined",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.APIResponse"}}}
            }
        },
        "/slots/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["slots"],
                "summary": "Slot details with creator, players and venue",
                "parameters": [{"type": "string", "description": "Slot ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.APIResponse"}}
                }
            }
        },
        "/slots/{id}/join": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["slots"],
                "summary": "Join an open slot",
                "parameters": [{"type": "string", "description": "Slot ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.APIResponse"}}
                }
            }
        },
        "/slots/{id}/leave": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["slots"],
                "summary": "Leave a slot",
                "parameters": [{"type": "string", "description": "Slot ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.APIResponse"}}
                }
            }
        },
        "/slots/{id}/cancel": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["slots"],
                "summary": "Cancel a slot (creator only)",
                "parameters": [{"type": "string", "description": "Slot ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.APIResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/types.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "object", "additionalProperties": {}},
                "message": {"type": "string"}
            }
        },
        "types.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/types.APIError"},
                "meta": {"$ref": "#/definitions/types.Meta"},
                "success": {"type": "boolean"}
            }
        },
        "types.Meta": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "total": {"type": "integer"}
            }
        },
        "types.RegisterRequest": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string", "maxLength": 100},
                "password": {"type": "string", "maxLength": 72, "minLength": 8}
            }
        },
        "types.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "types.LocationRequest": {
            "type": "object",
            "required": ["coordinates"],
            "properties": {
                "address": {"type": "string", "maxLength": 300},
                "coordinates": {"type": "array", "items": {"type": "number"}},
                "type": {"type": "string"}
            }
        },
        "types.UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "age": {"type": "integer", "maximum": 120, "minimum": 5},
                "bio": {"type": "string", "maxLength": 1000},
                "gender": {"type": "string", "enum": ["male", "female", "other"]},
                "location": {"$ref": "#/definitions/types.LocationRequest"},
                "preferredSports": {"type": "string"},
                "skillLevel": {"type": "string", "enum": ["beginner", "intermediate", "advanced"]}
            }
        },
        "models.Range": {
            "type": "object",
            "properties": {
                "max": {"type": "integer"},
                "min": {"type": "integer"}
            }
        },
        "types.CreateSlotRequest": {
            "type": "object",
            "properties": {
                "ageGroup": {"$ref": "#/definitions/models.Range"},
                "capacity": {"type": "integer", "maximum": 200, "minimum": 0},
                "durationMin": {"type": "integer", "minimum": 0},
                "feeAmount": {"type": "number", "minimum": 0},
                "feeModel": {"type": "string", "enum": ["Split", "Host", "Entry"]},
                "genderPreference": {"type": "string", "enum": ["any", "male", "female"]},
                "location": {"type": "object"},
                "metadata": {"type": "object"},
                "skillRequirement": {"$ref": "#/definitions/models.Range"},
                "sport": {"type": "string", "maxLength": 100},
                "timeStart": {"type": "string"},
                "type": {"type": "string", "enum": ["Challenge", "Recruitment", "Pickup", "Tournament"]},
                "venueId": {"type": "string"},
                "visibilityRadiusKm": {"type": "number", "minimum": 0}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "playX API",
	Description:      "Pickup-game marketplace: create, browse, join, leave and cancel game slots.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
