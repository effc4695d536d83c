// Package docs registers the OpenAPI document served under /swagger/.
// Regenerate with `swag init -g cmd/api/main.go` after changing handler annotations.
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
        "/health": {"get": {"tags": ["health"], "summary": "Liveness and database reachability", "responses": {"200": {"description": "OK"}, "503": {"description": "unavailable"}}}},
        "/events": {
            "get": {"tags": ["events"], "summary": "List events", "parameters": [
                {"type": "string", "name": "mode", "in": "query"},
                {"type": "string", "name": "tag", "in": "query"},
                {"type": "string", "name": "organizer", "in": "query"}
            ], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["events"], "summary": "Create an event", "parameters": [
                {"name": "event", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.EventRequest"}}
            ], "responses": {"201": {"description": "Created"}, "400": {"description": "bad_request"}, "409": {"description": "conflict"}}}
        },
        "/events/{slug}": {"get": {"tags": ["events"], "summary": "Get an event by slug", "parameters": [
            {"type": "string", "name": "slug", "in": "path", "required": true}
        ], "responses": {"200": {"description": "OK"}, "404": {"description": "not_found"}}}},
        "/events/{slug}/similar": {"get": {"tags": ["events"], "summary": "List events similar to the given one", "parameters": [
            {"type": "string", "name": "slug", "in": "path", "required": true}
        ], "responses": {"200": {"description": "OK"}, "404": {"description": "not_found"}}}},
        "/events/{id}": {
            "put": {"tags": ["events"], "summary": "Replace an event", "parameters": [
                {"type": "string", "name": "id", "in": "path", "required": true},
                {"name": "event", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.EventRequest"}}
            ], "responses": {"200": {"description": "OK"}, "400": {"description": "bad_request"}, "404": {"description": "not_found"}, "409": {"description": "conflict"}}},
            "delete": {"tags": ["events"], "summary": "Delete an event", "parameters": [
                {"type": "string", "name": "id", "in": "path", "required": true}
            ], "responses": {"204": {"description": "No Content"}, "404": {"description": "not_found"}}}
        },
        "/bookings": {
            "get": {"tags": ["bookings"], "summary": "List bookings", "parameters": [
                {"type": "string", "name": "event_id", "in": "query"},
                {"type": "string", "name": "email", "in": "query"}
            ], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["bookings"], "summary": "Book a spot at an event", "parameters": [
                {"name": "booking", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.BookingRequest"}}
            ], "responses": {"201": {"description": "Created"}, "400": {"description": "bad_request"}, "404": {"description": "not_found"}, "409": {"description": "conflict"}}}
        },
        "/bookings/count": {"get": {"tags": ["bookings"], "summary": "Count bookings for an event", "parameters": [
            {"type": "string", "name": "event_id", "in": "query", "required": true}
        ], "responses": {"200": {"description": "OK"}, "400": {"description": "bad_request"}}}},
        "/bookings/{id}": {"put": {"tags": ["bookings"], "summary": "Change a booking", "parameters": [
            {"type": "string", "name": "id", "in": "path", "required": true},
            {"name": "booking", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.BookingRequest"}}
        ], "responses": {"200": {"description": "OK"}, "400": {"description": "bad_request"}, "404": {"description": "not_found"}, "409": {"description": "conflict"}}}}
    },
    "definitions": {
        "controllers.EventRequest": {"type": "object", "properties": {
            "title": {"type": "string"}, "description": {"type": "string"}, "overview": {"type": "string"},
            "image": {"type": "string"}, "venue": {"type": "string"}, "location": {"type": "string"},
            "date": {"type": "string", "example": "2025-04-09"}, "time": {"type": "string", "example": "09:00"},
            "mode": {"type": "string", "enum": ["online", "offline", "hybrid"]}, "audience": {"type": "string"},
            "agenda": {"type": "array", "items": {"type": "string"}}, "organizer": {"type": "string"},
            "tags": {"type": "array", "items": {"type": "string"}}
        }},
        "controllers.BookingRequest": {"type": "object", "properties": {
            "event_id": {"type": "string"}, "email": {"type": "string"}
        }}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "DevEvent API",
	Description:      "Publish developer events and book attendees by email.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
