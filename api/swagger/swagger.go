package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "TutorPlan API",
        "description": "Conflict-aware weekly tutoring timetable generator",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Scheduler", "description": "Schedule generation, persistence and export"},
        {"name": "Availability", "description": "Per-student availability files"}
    ],
    "paths": {
        "/schedule/generate": {
            "post": {
                "tags": ["Scheduler"],
                "summary": "Generate a weekly schedule proposal",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/save": {
            "post": {
                "tags": ["Scheduler"],
                "summary": "Save a generated proposal as a named schedule",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveScheduleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules": {
            "get": {
                "tags": ["Scheduler"],
                "summary": "List saved schedules",
                "parameters": [
                    {"name": "name", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}": {
            "get": {
                "tags": ["Scheduler"],
                "summary": "Get one saved schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Scheduler"],
                "summary": "Delete a saved schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/schedules/{id}/archive": {
            "post": {
                "tags": ["Scheduler"],
                "summary": "Archive a saved schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}/export": {
            "get": {
                "tags": ["Scheduler"],
                "summary": "Export a saved schedule as CSV, PDF or JSON",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "json"]}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/availability/upload": {
            "post": {
                "tags": ["Availability"],
                "summary": "Upload per-student availability",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AvailabilityUpload"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/availability/files": {
            "get": {
                "tags": ["Availability"],
                "summary": "List stored availability files",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/availability/files/{student}": {
            "get": {
                "tags": ["Availability"],
                "summary": "Get one student's stored availability",
                "parameters": [
                    {"name": "student", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Availability"],
                "summary": "Delete one student's stored availability",
                "parameters": [
                    {"name": "student", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        }
    },
    "definitions": {
        "GenerateScheduleRequest": {
            "type": "object",
            "properties": {
                "workingHours": {"$ref": "#/definitions/WorkingHours"},
                "lunchTime": {"type": "string", "example": "12:00"},
                "prepTime": {"$ref": "#/definitions/PrepTime"},
                "students": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/StudentConfig"}
                }
            },
            "required": ["workingHours", "lunchTime", "students"]
        },
        "WorkingHours": {
            "type": "object",
            "properties": {
                "days": {"type": "array", "items": {"type": "string"}},
                "startTime": {"type": "string", "example": "09:00"},
                "endTime": {"type": "string", "example": "17:00"}
            },
            "required": ["days", "startTime", "endTime"]
        },
        "PrepTime": {
            "type": "object",
            "properties": {
                "mode": {"type": "string", "enum": ["fixed", "flexible"]},
                "startTime": {"type": "string", "example": "16:00"}
            },
            "required": ["mode"]
        },
        "StudentConfig": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "blockedTimes": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/BlockedInterval"}
                },
                "canOverlap": {"type": "array", "items": {"type": "string"}},
                "subjects": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/SubjectRequirement"}
                }
            },
            "required": ["name", "subjects"]
        },
        "BlockedInterval": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "start": {"type": "string", "example": "10:00"},
                "end": {"type": "string", "example": "11:00"},
                "label": {"type": "string"}
            },
            "required": ["day", "start", "end"]
        },
        "SubjectRequirement": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "constraintType": {"type": "string", "enum": ["daily", "weekly"]},
                "dailyMinutes": {"type": "integer"},
                "weeklyDays": {"type": "integer"},
                "weeklyMinutesPerSession": {"type": "integer"}
            },
            "required": ["name", "constraintType"]
        },
        "SaveScheduleRequest": {
            "type": "object",
            "properties": {
                "proposalId": {"type": "string"},
                "name": {"type": "string"}
            },
            "required": ["proposalId", "name"]
        },
        "AvailabilityUpload": {
            "type": "object",
            "additionalProperties": {
                "type": "object",
                "properties": {
                    "blocked_times": {
                        "type": "array",
                        "items": {"$ref": "#/definitions/BlockedInterval"}
                    }
                }
            }
        },
        "ScheduleEntry": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "start": {"type": "string"},
                "end": {"type": "string"},
                "type": {"type": "string", "enum": ["session", "lunch", "prep", "blocked"]},
                "students": {"type": "array", "items": {"type": "string"}},
                "subject": {"type": "string"},
                "label": {"type": "string"}
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
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
