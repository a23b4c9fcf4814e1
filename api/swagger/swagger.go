package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Course Scheduler API",
        "description": "Deterministic course timetabling service",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Schedules", "description": "Timetable generation and manual placement"},
        {"name": "Instructors", "description": "Teaching staff management"},
        {"name": "Courses", "description": "Course offerings"},
        {"name": "Rooms", "description": "Rooms and capacities"},
        {"name": "Departments", "description": "Departments and their course order"},
        {"name": "Sections", "description": "Student cohorts"},
        {"name": "TimeSlots", "description": "Schedulable periods"},
        {"name": "Exports", "description": "Timetable downloads"},
        {"name": "Auth", "description": "Authentication"},
        {"name": "Admin", "description": "Operational endpoints"}
    ],
    "paths": {
        "/schedules/generate": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Generate the full timetable",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Missing prerequisite data"},
                    "422": {"description": "No valid schedule possible"}
                }
            }
        },
        "/schedules": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List stored assignments",
                "parameters": [
                    {"name": "section_id", "in": "query", "type": "string"},
                    {"name": "instructor_id", "in": "query", "type": "string"},
                    {"name": "room_id", "in": "query", "type": "string"},
                    {"name": "course_id", "in": "query", "type": "string"},
                    {"name": "time_slot_id", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Schedules"],
                "summary": "Add a manual assignment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ManualAssignmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Instructor or room already booked"}
                }
            },
            "delete": {
                "tags": ["Schedules"],
                "summary": "Clear the stored schedule",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sections/{id}/grid": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Get one section's weekly grid",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown section"}
                }
            }
        },
        "/sections/{id}/export": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download one section's timetable",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/instructors": {
            "get": {
                "tags": ["Instructors"],
                "summary": "List instructors",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Instructors"],
                "summary": "Create instructor",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateInstructorRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/instructors/{id}": {
            "get": {
                "tags": ["Instructors"],
                "summary": "Get instructor",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Instructors"],
                "summary": "Update instructor",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateInstructorRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Instructors"],
                "summary": "Delete instructor",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and obtain an access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/admin/seed": {
            "post": {
                "tags": ["Admin"],
                "summary": "Install the demo dataset",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Database already contains data"}
                }
            }
        }
    },
    "definitions": {
        "ManualAssignmentRequest": {
            "type": "object",
            "required": ["course_id", "instructor_id", "room_id", "time_slot_id", "section_id"],
            "properties": {
                "course_id": {"type": "string"},
                "instructor_id": {"type": "string"},
                "room_id": {"type": "string"},
                "time_slot_id": {"type": "string"},
                "section_id": {"type": "string"}
            }
        },
        "CreateInstructorRequest": {
            "type": "object",
            "required": ["name", "designation"],
            "properties": {
                "name": {"type": "string"},
                "designation": {"type": "string"},
                "max_hours": {"type": "integer"}
            }
        },
        "UpdateInstructorRequest": {
            "type": "object",
            "required": ["name", "designation"],
            "properties": {
                "name": {"type": "string"},
                "designation": {"type": "string"},
                "max_hours": {"type": "integer"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
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
