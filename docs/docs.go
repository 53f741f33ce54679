// Package docs registers the OpenAPI document served by the Swagger UI.
// Keep it in step with the godoc annotations on the controllers.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.HealthResponse"}}
                }
            }
        },
        "/quizzes": {
            "get": {
                "description": "Newest first, each with its question count.",
                "produces": ["application/json"],
                "tags": ["Quizzes"],
                "summary": "List all quizzes",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Quizzes"],
                "summary": "Create a new quiz",
                "parameters": [
                    {"description": "Quiz title and optional description", "name": "quiz", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateQuizRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/quizzes/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Quizzes"],
                "summary": "Get a quiz by ID",
                "parameters": [
                    {"type": "integer", "description": "Quiz ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "400": {"description": "Invalid ID", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Quiz not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/quizzes/{id}/questions": {
            "get": {
                "description": "Options are returned without their correctness flag.",
                "produces": ["application/json"],
                "tags": ["Questions"],
                "summary": "Get all questions for a quiz",
                "parameters": [
                    {"type": "integer", "description": "Quiz ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "404": {"description": "Quiz not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Question and options are stored atomically.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Questions"],
                "summary": "Add a question with its options to a quiz",
                "parameters": [
                    {"type": "integer", "description": "Quiz ID", "name": "id", "in": "path", "required": true},
                    {"description": "Question with options", "name": "question", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateQuestionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Quiz not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/quizzes/{id}/submit": {
            "post": {
                "description": "option_ids is a single option id or an array of ids.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Submissions"],
                "summary": "Submit answers for a quiz",
                "parameters": [
                    {"type": "integer", "description": "Quiz ID", "name": "id", "in": "path", "required": true},
                    {"description": "Answers", "name": "submission", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SubmitQuizRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Quiz not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/admin/quizzes/{id}": {
            "delete": {
                "description": "Deletes the quiz with its questions, options and submissions.",
                "tags": ["Admin"],
                "summary": "(Admin) Delete a quiz",
                "parameters": [
                    {"type": "integer", "description": "Quiz ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Quiz not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/admin/quizzes/{id}/questions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "(Admin) Get all questions of a quiz with answers",
                "parameters": [
                    {"type": "integer", "description": "Quiz ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "404": {"description": "Quiz not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/admin/quizzes/{id}/submissions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "(Admin) List submissions of a quiz",
                "parameters": [
                    {"type": "integer", "description": "Quiz ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SuccessResponse"}},
                    "404": {"description": "Quiz not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.AnswerRequest": {
            "type": "object",
            "required": ["option_ids", "question_id"],
            "properties": {
                "option_ids": {"type": "array", "items": {"type": "integer"}},
                "question_id": {"type": "integer"}
            }
        },
        "dto.CreateQuestionRequest": {
            "type": "object",
            "required": ["question_text"],
            "properties": {
                "options": {"type": "array", "items": {"$ref": "#/definitions/dto.OptionRequest"}},
                "question_text": {"type": "string", "maxLength": 500},
                "question_type": {"type": "string", "enum": ["single_choice", "multiple_choice", "text"]},
                "word_limit": {"type": "integer", "maximum": 300, "minimum": 1}
            }
        },
        "dto.CreateQuizRequest": {
            "type": "object",
            "required": ["title"],
            "properties": {
                "description": {"type": "string", "maxLength": 500},
                "title": {"type": "string", "maxLength": 200}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "array", "items": {"type": "string"}},
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "dto.HealthResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "dto.OptionRequest": {
            "type": "object",
            "required": ["text"],
            "properties": {
                "is_correct": {"type": "boolean"},
                "text": {"type": "string", "maxLength": 200}
            }
        },
        "dto.SubmitQuizRequest": {
            "type": "object",
            "required": ["answers"],
            "properties": {
                "answers": {"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/dto.AnswerRequest"}}
            }
        },
        "dto.SuccessResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "data": {},
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Quiz Authoring & Evaluation API",
	Description:      "Build multi-question quizzes and score submitted answers.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
