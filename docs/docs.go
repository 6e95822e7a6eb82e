// Package docs registers the OpenAPI description served at /swagger/*.
// Regenerate with: swag init -g cmd/server/main.go -o docs
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
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new user",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/auth/user": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Get own profile",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Update own profile",
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}
            }
        },
        "/doctors": {
            "get": {
                "tags": ["doctors"],
                "summary": "List doctors",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["doctors"],
                "summary": "Create a doctor",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/doctors/{id}": {
            "get": {
                "tags": ["doctors"],
                "summary": "Get a doctor by id",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["doctors"],
                "summary": "Update a doctor",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["doctors"],
                "summary": "Delete a doctor",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/consultations": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["consultations"],
                "summary": "List own consultations",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["consultations"],
                "summary": "Create a consultation",
                "responses": {"201": {"description": "Created"}, "404": {"description": "Not Found"}}
            }
        },
        "/consultations/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["consultations"],
                "summary": "Get a consultation with transcript",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            }
        },
        "/consultations/{id}/start": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["consultations"],
                "summary": "Start a consultation",
                "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}
            }
        },
        "/consultations/{id}/end": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["consultations"],
                "summary": "End a consultation",
                "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}
            }
        },
        "/consultations/{id}/messages": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["consultations"],
                "summary": "Send a message in a consultation",
                "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}
            }
        },
        "/consultations/{id}/notes": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["consultations"],
                "summary": "Update consultation notes",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        },
        "/health-support/chat": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["health-support"],
                "summary": "Health support chat",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "HealthyWell Telemedicine API",
	Description:      "Telemedicine backend: patient accounts, doctor directory, AI-mediated consultations, and health support chat.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
