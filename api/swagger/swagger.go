package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Grade Analytics API",
        "description": "Grade averages, statistics, trends and predictions for the 1-10 grading scale",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Client-credentials token issuing"},
        {"name": "Analytics", "description": "Aggregates, statistics and trends"},
        {"name": "Predictions", "description": "Forecasts, target solving and what-if scenarios"},
        {"name": "Grades", "description": "Grade history"},
        {"name": "Exports", "description": "Downloadable reports"}
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
                "summary": "Readiness check including accelerator state",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/auth/token": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Issue an access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/average": {
            "post": {
                "tags": ["Analytics"],
                "summary": "Simple grade average",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordsRequest"}}
                ],
                "responses": {
                    "200": {"description": "Average", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/weighted-average": {
            "post": {
                "tags": ["Analytics"],
                "summary": "Weighted grade average",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordsRequest"}}
                ],
                "responses": {
                    "200": {"description": "Weighted average", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/gpa": {
            "post": {
                "tags": ["Analytics"],
                "summary": "GPA on the configured scale",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordsRequest"}}
                ],
                "responses": {
                    "200": {"description": "GPA", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/subjects": {
            "post": {
                "tags": ["Analytics"],
                "summary": "Aggregates for every subject",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordsRequest"}}
                ],
                "responses": {
                    "200": {"description": "Subject summaries", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/statistics": {
            "post": {
                "tags": ["Analytics"],
                "summary": "Descriptive statistics of a sample",
                "responses": {
                    "200": {"description": "Statistics summary", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/trend": {
            "post": {
                "tags": ["Analytics"],
                "summary": "Least-squares trend over a series",
                "responses": {
                    "200": {"description": "Trend result", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/report": {
            "post": {
                "tags": ["Analytics"],
                "summary": "Full analysis in one call",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordsRequest"}}
                ],
                "responses": {
                    "200": {"description": "Analytics report", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/prediction/next": {
            "post": {
                "tags": ["Predictions"],
                "summary": "Forecast the next grade",
                "responses": {
                    "200": {"description": "Prediction", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/whatif": {
            "post": {
                "tags": ["Predictions"],
                "summary": "Simulate hypothetical grades",
                "responses": {
                    "200": {"description": "What-if result", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/system": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Instrumentation snapshot",
                "responses": {
                    "200": {"description": "System metrics", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/grades": {
            "post": {
                "tags": ["Grades"],
                "summary": "Record a grade",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Grades"],
                "summary": "Grade history for a student",
                "responses": {
                    "200": {"description": "History", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/export/report.csv": {
            "get": {
                "tags": ["Exports"],
                "summary": "Grade report as CSV",
                "responses": {
                    "200": {"description": "CSV document"}
                }
            }
        },
        "/export/report.pdf": {
            "get": {
                "tags": ["Exports"],
                "summary": "Grade report as PDF",
                "responses": {
                    "200": {"description": "PDF document"}
                }
            }
        }
    },
    "definitions": {
        "TokenRequest": {
            "type": "object",
            "required": ["client_id", "client_secret"],
            "properties": {
                "client_id": {"type": "string"},
                "client_secret": {"type": "string"}
            }
        },
        "GradeInput": {
            "type": "object",
            "required": ["value"],
            "properties": {
                "value": {"type": "string", "example": "7,5"},
                "weight": {"type": "number"},
                "subject": {"type": "string"},
                "description": {"type": "string"},
                "timestamp": {"type": "integer", "description": "Unix milliseconds"}
            }
        },
        "RecordsRequest": {
            "type": "object",
            "required": ["grades"],
            "properties": {
                "grades": {"type": "array", "items": {"$ref": "#/definitions/GradeInput"}}
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
