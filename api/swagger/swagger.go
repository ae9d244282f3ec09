package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Seating API",
        "description": "Seating arrangement service: grid sessions, auto-placement and chart exports",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Arrangements", "description": "Arrangement event lifecycle"},
        {"name": "Conditions", "description": "Placement conditions per course"},
        {"name": "Seating", "description": "Interactive seat grid sessions"},
        {"name": "Placement", "description": "Auto-placement proposals"},
        {"name": "Exports", "description": "Seating chart exports"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/arrangements": {
            "get": {
                "tags": ["Arrangements"],
                "summary": "List active arrangement events grouped by course",
                "parameters": [
                    {"name": "course", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/arrangement-events": {
            "post": {
                "tags": ["Arrangements"],
                "summary": "Create arrangement event",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateArrangementRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/arrangement-events/deactivated": {
            "get": {
                "tags": ["Arrangements"],
                "summary": "List deactivated arrangement events",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/arrangement-events/{id}/deactivate": {
            "post": {
                "tags": ["Arrangements"],
                "summary": "Deactivate arrangement event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/arrangement-events/{id}/reactivate": {
            "post": {
                "tags": ["Arrangements"],
                "summary": "Reactivate arrangement event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/courses/{courseId}/students": {
            "get": {
                "tags": ["Arrangements"],
                "summary": "List active students enrolled in a course",
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{courseId}/conditions": {
            "get": {
                "tags": ["Conditions"],
                "summary": "List placement conditions for a course",
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Conditions"],
                "summary": "Create placement condition",
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateConditionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/conditions/{id}": {
            "delete": {
                "tags": ["Conditions"],
                "summary": "Delete placement condition",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/arrangements/{id}/grid": {
            "get": {
                "tags": ["Seating"],
                "summary": "Get grid snapshot",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/arrangements/{id}/grid/seat-click": {
            "post": {
                "tags": ["Seating"],
                "summary": "Handle seat cell click",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SeatClickRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/arrangements/{id}/grid/roster-click": {
            "post": {
                "tags": ["Seating"],
                "summary": "Handle roster entry click",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RosterClickRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/arrangements/{id}/grid/drag-drop": {
            "post": {
                "tags": ["Seating"],
                "summary": "Drop unseated student onto a seat",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DragDropRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/arrangements/{id}/grid/clear": {
            "post": {
                "tags": ["Seating"],
                "summary": "Unseat every student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/arrangements/{id}/grid/save": {
            "post": {
                "tags": ["Seating"],
                "summary": "Persist the session assignment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveSeatingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Stale version", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/placements/generate": {
            "post": {
                "tags": ["Placement"],
                "summary": "Generate auto-placement proposal",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GeneratePlacementRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/placements/apply": {
            "post": {
                "tags": ["Placement"],
                "summary": "Apply generated proposal to the grid session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ApplyPlacementRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/arrangements/{id}/export": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue seating chart export",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download rendered export via signed token",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        }
    },
    "definitions": {
        "CreateArrangementRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "course": {"type": "string"},
                "teacher": {"type": "string"},
                "available_place_number": {"type": "integer"}
            },
            "required": ["name", "course"]
        },
        "CreateConditionRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["separate", "group", "front", "back"]},
                "studentIds": {"type": "array", "items": {"type": "string"}},
                "priority": {"type": "integer"}
            },
            "required": ["type", "studentIds"]
        },
        "SeatClickRequest": {
            "type": "object",
            "properties": {
                "seat": {"type": "integer"}
            },
            "required": ["seat"]
        },
        "RosterClickRequest": {
            "type": "object",
            "properties": {
                "studentId": {"type": "string"}
            },
            "required": ["studentId"]
        },
        "DragDropRequest": {
            "type": "object",
            "properties": {
                "studentId": {"type": "string"},
                "seat": {"type": "integer"}
            },
            "required": ["studentId", "seat"]
        },
        "SaveSeatingRequest": {
            "type": "object",
            "properties": {
                "version": {"type": "integer"}
            }
        },
        "GeneratePlacementRequest": {
            "type": "object",
            "properties": {
                "arrangementId": {"type": "string"},
                "conditions": {"type": "array", "items": {"$ref": "#/definitions/ConditionInput"}},
                "seed": {"type": "integer"}
            },
            "required": ["arrangementId"]
        },
        "ConditionInput": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["separate", "group", "front", "back"]},
                "studentIds": {"type": "array", "items": {"type": "string"}},
                "priority": {"type": "integer"}
            }
        },
        "ApplyPlacementRequest": {
            "type": "object",
            "properties": {
                "proposalId": {"type": "string"}
            },
            "required": ["proposalId"]
        },
        "ExportRequest": {
            "type": "object",
            "properties": {
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            },
            "required": ["format"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
