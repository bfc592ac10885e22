package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Absensi TK API",
        "description": "Kindergarten attendance register: classes, students, daily rosters and printable recaps.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Operator login"},
        {"name": "Register", "description": "Full reload from the store"},
        {"name": "Classes", "description": "Kindergarten classes and report signatories"},
        {"name": "Students", "description": "Students and their class"},
        {"name": "Attendance", "description": "Daily roster entry"},
        {"name": "Dashboard", "description": "Headline counts and rates"},
        {"name": "Reports", "description": "Daily sheets and monthly recaps"},
        {"name": "Exports", "description": "Background renders with signed downloads"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Log the operator in",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Access token", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/state": {
            "get": {
                "tags": ["Register"],
                "summary": "Register load state",
                "responses": {
                    "200": {"description": "Counts and last sync time", "schema": {"$ref": "#/definitions/RegisterStats"}}
                }
            }
        },
        "/sync": {
            "post": {
                "tags": ["Register"],
                "summary": "Reload every collection from the store",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Reloaded", "schema": {"$ref": "#/definitions/RegisterStats"}},
                    "502": {"description": "Store unavailable, previous register kept", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/classes": {
            "get": {
                "tags": ["Classes"],
                "summary": "List classes",
                "responses": {
                    "200": {"description": "Classes", "schema": {"type": "array", "items": {"$ref": "#/definitions/ClassRoom"}}}
                }
            },
            "post": {
                "tags": ["Classes"],
                "summary": "Create a class",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ClassRoom"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ClassRoom"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/classes/{id}": {
            "parameters": [
                {"in": "path", "name": "id", "required": true, "type": "string"}
            ],
            "get": {
                "tags": ["Classes"],
                "summary": "Get a class",
                "responses": {
                    "200": {"description": "Class", "schema": {"$ref": "#/definitions/ClassRoom"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Classes"],
                "summary": "Update a class; omitted fields are kept",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ClassRoom"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/ClassRoom"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Classes"],
                "summary": "Delete a class; its students are kept",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"in": "query", "name": "search", "type": "string", "description": "Name (case-insensitive) or NIS substring"},
                    {"in": "query", "name": "classId", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Students with class names", "schema": {"type": "array", "items": {"$ref": "#/definitions/StudentView"}}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Create a student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/Student"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Student"}}
                }
            }
        },
        "/students/{id}": {
            "parameters": [
                {"in": "path", "name": "id", "required": true, "type": "string"}
            ],
            "get": {
                "tags": ["Students"],
                "summary": "Get a student",
                "responses": {
                    "200": {"description": "Student", "schema": {"$ref": "#/definitions/StudentView"}}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update a student; omitted fields are kept",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/Student"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/Student"}}
                }
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete a student; attendance history is kept",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/attendance/session": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Roster of a class for one date with existing entries",
                "parameters": [
                    {"in": "query", "name": "classId", "required": true, "type": "string"},
                    {"in": "query", "name": "date", "required": true, "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "Session"}
                }
            }
        },
        "/attendance/status": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Status of one student on one date",
                "parameters": [
                    {"in": "query", "name": "studentId", "required": true, "type": "string"},
                    {"in": "query", "name": "date", "required": true, "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "Status, or a dash when unrecorded"}
                }
            }
        },
        "/attendance/roster": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Save a complete class roster for one date",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/SaveRosterRequest"}}
                ],
                "responses": {
                    "200": {"description": "Saved records", "schema": {"type": "array", "items": {"$ref": "#/definitions/AttendanceRecord"}}},
                    "422": {"description": "Roster incomplete or note missing", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Dashboard summary",
                "parameters": [
                    {"in": "query", "name": "date", "type": "string", "format": "date", "description": "Defaults to today"}
                ],
                "responses": {
                    "200": {"description": "Summary"}
                }
            }
        },
        "/reports/daily": {
            "get": {
                "tags": ["Reports"],
                "summary": "Daily sheet of one class",
                "parameters": [
                    {"in": "query", "name": "classId", "required": true, "type": "string"},
                    {"in": "query", "name": "date", "required": true, "type": "string", "format": "date"},
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf", "xlsx"], "description": "Download a file instead of JSON"}
                ],
                "responses": {
                    "200": {"description": "Report or file"}
                }
            }
        },
        "/reports/monthly": {
            "get": {
                "tags": ["Reports"],
                "summary": "Monthly recap of one class",
                "parameters": [
                    {"in": "query", "name": "classId", "required": true, "type": "string"},
                    {"in": "query", "name": "month", "required": true, "type": "integer", "minimum": 1, "maximum": 12},
                    {"in": "query", "name": "year", "required": true, "type": "integer"},
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf", "xlsx"]}
                ],
                "responses": {
                    "200": {"description": "Report or file"}
                }
            }
        },
        "/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue a report render",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ReportParams"}}
                ],
                "responses": {
                    "202": {"description": "Queued", "schema": {"$ref": "#/definitions/ExportJob"}}
                }
            }
        },
        "/exports/{id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export job status",
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Job", "schema": {"$ref": "#/definitions/ExportJob"}},
                    "404": {"description": "Unknown or expired job", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/download/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a finished export",
                "parameters": [
                    {"in": "path", "name": "token", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "403": {"description": "Invalid or expired link", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "token_type": {"type": "string"},
                "expires_in": {"type": "integer"},
                "issued_at": {"type": "string", "format": "date-time"}
            }
        },
        "RegisterStats": {
            "type": "object",
            "properties": {
                "loaded": {"type": "boolean"},
                "classes": {"type": "integer"},
                "students": {"type": "integer"},
                "attendance": {"type": "integer"},
                "syncedAt": {"type": "string", "format": "date-time"}
            }
        },
        "ClassRoom": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "teacherName": {"type": "string"},
                "teacherNip": {"type": "string"},
                "headmasterName": {"type": "string"},
                "headmasterNip": {"type": "string"}
            }
        },
        "Student": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "nis": {"type": "string"},
                "name": {"type": "string"},
                "classId": {"type": "string"}
            }
        },
        "StudentView": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "nis": {"type": "string"},
                "name": {"type": "string"},
                "classId": {"type": "string"},
                "className": {"type": "string"}
            }
        },
        "AttendanceRecord": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "studentId": {"type": "string"},
                "date": {"type": "string", "format": "date"},
                "status": {"type": "string", "enum": ["Hadir", "Sakit", "Izin", "Alpha"]},
                "note": {"type": "string"}
            }
        },
        "SaveRosterRequest": {
            "type": "object",
            "required": ["classId", "date", "entries"],
            "properties": {
                "classId": {"type": "string"},
                "date": {"type": "string", "format": "date"},
                "entries": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "studentId": {"type": "string"},
                            "status": {"type": "string", "enum": ["Hadir", "Sakit", "Izin", "Alpha"]},
                            "note": {"type": "string"}
                        }
                    }
                }
            }
        },
        "ReportParams": {
            "type": "object",
            "required": ["kind", "format", "classId"],
            "properties": {
                "kind": {"type": "string", "enum": ["daily", "monthly"]},
                "format": {"type": "string", "enum": ["csv", "pdf", "xlsx"]},
                "classId": {"type": "string"},
                "date": {"type": "string", "format": "date"},
                "month": {"type": "integer"},
                "year": {"type": "integer"}
            }
        },
        "ExportJob": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "params": {"$ref": "#/definitions/ReportParams"},
                "status": {"type": "string", "enum": ["queued", "processing", "finished", "failed"]},
                "filename": {"type": "string"},
                "download_url": {"type": "string"},
                "expires_at": {"type": "string", "format": "date-time"},
                "error": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"},
                "finished_at": {"type": "string", "format": "date-time"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
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
