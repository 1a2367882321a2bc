// Package api registers the studyhub OpenAPI document with swag.
// Regenerate with: swag init -g cmd/server/main.go -o docs/api
package api

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "http://swagger.io/terms/",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/localnerve/studyhub",
            "email": "info@localnerve.com"
        },
        "license": {
            "name": "AGPL-3.0",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/study/overview": {
            "get": {
                "security": [{"BearerAuth": []}, {"CookieAuth": []}],
                "produces": ["application/json"],
                "tags": ["Study"],
                "summary": "Get the study overview",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.Overview"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}
                }
            }
        },
        "/study/subjects": {
            "post": {
                "security": [{"BearerAuth": []}, {"CookieAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Study"],
                "summary": "Create a subject",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.NameRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Subject"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}
                }
            }
        },
        "/study/subjects/{id}": {
            "patch": {
                "security": [{"BearerAuth": []}, {"CookieAuth": []}],
                "tags": ["Study"],
                "summary": "Rename a subject",
                "parameters": [
                    {"type": "string", "description": "Subject ID", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.NameRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Subject"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}, {"CookieAuth": []}],
                "tags": ["Study"],
                "summary": "Delete a subject",
                "parameters": [{"type": "string", "description": "Subject ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.DeletedResponseStruct"}}}
            }
        },
        "/study/subjects/{id}/chapters": {
            "post": {
                "security": [{"BearerAuth": []}, {"CookieAuth": []}],
                "tags": ["Study"],
                "summary": "Create a chapter",
                "parameters": [
                    {"type": "string", "description": "Subject ID", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.NameRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.CreateChapterResponse"}}}
            }
        },
        "/study/subjects/{id}/presets": {
            "get": {
                "security": [{"BearerAuth": []}, {"CookieAuth": []}],
                "tags": ["Presets"],
                "summary": "List the presets of a subject",
                "parameters": [{"type": "string", "description": "Subject ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.PresetsResponse"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}, {"CookieAuth": []}],
                "tags": ["Presets"],
                "summary": "Create a preset",
                "parameters": [
                    {"type": "string", "description": "Subject ID", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreatePresetRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Preset"}}}
            }
        },
        "/study/subjects/{id}/presets/import": {
            "post": {
                "security": [{"BearerAuth": []}, {"CookieAuth": []}],
                "consumes": ["text/plain"],
                "tags": ["Presets"],
                "summary": "Import a YAML preset library",
                "parameters": [
                    {"type": "string", "description": "Subject ID", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "schema": {"type": "string"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.PresetsResponse"}}}
            }
        },
        "/study/subjects/{id}/presets/apply": {
            "post": {
                "security": [{"BearerAuth": []}, {"CookieAuth": []}],
                "tags": ["Presets"],
                "summary": "Apply chapter presets to every chapter",
                "parameters": [{"type": "string", "description": "Subject ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.PartsResponse"}}}
            }
        },
        "/study/presets/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}, {"CookieAuth": []}],
                "tags": ["Presets"],
                "summary": "Delete a preset",
                "parameters": [{"type": "string", "description": "Preset ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.DeletedResponseStruct"}}}
            }
        },
        "/study/chapters/{id}": {
            "get": {
                "security": [{"BearerAuth": []}, {"CookieAuth": []}],
                "tags": ["Study"],
                "summary": "Get a chapter tree",
                "parameters": [{"type": "string", "description": "Chapter ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ChapterTreeResponse"}}}
            },
            "patch": {
                "security": [{"BearerAuth": []}, {"CookieAuth": []}],
                "tags": ["Study"],
                "summary": "Rename a chapter",
                "parameters": [
                    {"type": "string", "description": "Chapter ID", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.NameRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Chapter"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}, {"CookieAuth": []}],
                "tags": ["Study"],
                "summary": "Delete a chapter",
                "parameters": [{"type": "string", "description": "Chapter ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.DeletedResponseStruct"}}}
            }
        },
        "/study/chapters/{id}/presets": {
            "post": {
                "security": [{"BearerAuth": []}, {"CookieAuth": []}],
                "tags": ["Presets"],
                "summary": "Apply presets to a chapter",
                "parameters": [
                    {"type": "string", "description": "Chapter ID", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ApplyPresetsRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.PartsResponse"}}}
            }
        },
        "/study/chapters/{id}/parts": {
            "post": {
                "security": [{"BearerAuth": []}, {"CookieAuth": []}],
                "tags": ["Study"],
                "summary": "Create a part",
                "parameters": [
                    {"type": "string", "description": "Chapter ID", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreatePartRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Part"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/utils.ErrorResponseStruct"}}
                }
            }
        },
        "/study/parts/{id}": {
            "patch": {
                "security": [{"BearerAuth": []}, {"CookieAuth": []}],
                "tags": ["Study"],
                "summary": "Update a part",
                "parameters": [
                    {"type": "string", "description": "Part ID", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.UpdatePartRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Part"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}, {"CookieAuth": []}],
                "tags": ["Study"],
                "summary": "Delete a part",
                "parameters": [{"type": "string", "description": "Part ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.DeletedResponseStruct"}}}
            }
        },
        "/study/parts/{id}/toggle": {
            "post": {
                "security": [{"BearerAuth": []}, {"CookieAuth": []}],
                "tags": ["Study"],
                "summary": "Advance a part's status",
                "parameters": [{"type": "string", "description": "Part ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Part"}}}
            }
        },
        "/assistant/actions": {
            "post": {
                "security": [{"BearerAuth": []}, {"CookieAuth": []}],
                "tags": ["Assistant"],
                "summary": "Execute an assistant action",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/assistant.Request"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/assistant.Result"}}}
            }
        }
    },
    "definitions": {
        "assistant.Request": {
            "type": "object",
            "required": ["action"],
            "properties": {
                "action": {"type": "string"},
                "data": {"type": "object", "additionalProperties": true}
            }
        },
        "assistant.Result": {
            "type": "object",
            "properties": {
                "action": {"type": "string"},
                "outcome": {"type": "string"},
                "subject": {"$ref": "#/definitions/models.Subject"},
                "chapter": {"$ref": "#/definitions/models.Chapter"},
                "part": {"$ref": "#/definitions/models.Part"},
                "created": {"type": "array", "items": {"$ref": "#/definitions/models.Part"}}
            }
        },
        "handlers.NameRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {"name": {"type": "string", "maxLength": 255}}
        },
        "handlers.CreatePartRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string", "maxLength": 255},
                "estimatedMinutes": {"type": "integer"},
                "scheduledDate": {"type": "string"},
                "scheduledTime": {"type": "string"},
                "parentId": {"type": "string"}
            }
        },
        "handlers.UpdatePartRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "maxLength": 255},
                "estimatedMinutes": {"type": "integer"},
                "scheduledDate": {"type": "string"},
                "scheduledTime": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "handlers.CreatePresetRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string", "maxLength": 255},
                "estimatedMinutes": {"type": "integer"},
                "parentId": {"type": "string"},
                "presetType": {"type": "string", "enum": ["chapter", "part"]}
            }
        },
        "handlers.ApplyPresetsRequest": {
            "type": "object",
            "required": ["presetIds"],
            "properties": {
                "presetIds": {"type": "array", "items": {"type": "string"}},
                "targetPartId": {"type": "string"}
            }
        },
        "handlers.CreateChapterResponse": {
            "type": "object",
            "properties": {
                "chapter": {"$ref": "#/definitions/models.Chapter"},
                "created": {"type": "array", "items": {"$ref": "#/definitions/models.Part"}}
            }
        },
        "handlers.ChapterTreeResponse": {
            "type": "object",
            "properties": {
                "chapter": {"$ref": "#/definitions/models.Chapter"},
                "parts": {"type": "array", "items": {"$ref": "#/definitions/models.Part"}}
            }
        },
        "handlers.PartsResponse": {
            "type": "object",
            "properties": {
                "created": {"type": "array", "items": {"$ref": "#/definitions/models.Part"}},
                "count": {"type": "integer"}
            }
        },
        "handlers.PresetsResponse": {
            "type": "object",
            "properties": {
                "presets": {"type": "array", "items": {"$ref": "#/definitions/models.Preset"}},
                "count": {"type": "integer"}
            }
        },
        "models.Subject": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "owner_id": {"type": "string"},
                "name": {"type": "string"},
                "color_index": {"type": "integer"},
                "created_at": {"type": "string"}
            }
        },
        "models.Chapter": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "owner_id": {"type": "string"},
                "subject_id": {"type": "string"},
                "name": {"type": "string"},
                "sort_order": {"type": "integer"},
                "created_at": {"type": "string"}
            }
        },
        "models.Part": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "owner_id": {"type": "string"},
                "chapter_id": {"type": "string"},
                "parent_id": {"type": "string"},
                "name": {"type": "string"},
                "status": {"type": "string", "enum": ["not-started", "in-progress", "completed"]},
                "estimated_minutes": {"type": "integer"},
                "scheduled_date": {"type": "string"},
                "scheduled_time": {"type": "string"},
                "notes": {"type": "string"},
                "sort_order": {"type": "integer"},
                "created_at": {"type": "string"},
                "completed_at": {"type": "string"}
            }
        },
        "models.Preset": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "subject_id": {"type": "string"},
                "parent_id": {"type": "string"},
                "name": {"type": "string"},
                "estimated_minutes": {"type": "integer"},
                "preset_type": {"type": "string", "enum": ["chapter", "part"]},
                "created_at": {"type": "string"}
            }
        },
        "services.Overview": {
            "type": "object",
            "properties": {
                "subjects": {"type": "array", "items": {"$ref": "#/definitions/models.Subject"}},
                "chapters": {"type": "array", "items": {"$ref": "#/definitions/models.Chapter"}},
                "parts": {"type": "array", "items": {"$ref": "#/definitions/models.Part"}},
                "presets": {"type": "array", "items": {"$ref": "#/definitions/models.Preset"}},
                "hierarchy": {"type": "object"},
                "stats": {
                    "type": "object",
                    "properties": {
                        "totalParts": {"type": "integer"},
                        "completedParts": {"type": "integer"},
                        "inProgressParts": {"type": "integer"},
                        "overallProgress": {"type": "integer"}
                    }
                }
            }
        },
        "utils.ErrorResponseStruct": {
            "type": "object",
            "properties": {
                "status": {"type": "integer"},
                "message": {"type": "string"},
                "ok": {"type": "boolean"},
                "timestamp": {"type": "string"},
                "url": {"type": "string"},
                "type": {"type": "string"}
            }
        },
        "utils.DeletedResponseStruct": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "ok": {"type": "boolean"},
                "timestamp": {"type": "string"},
                "affectedRows": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"},
        "CookieAuth": {"type": "apiKey", "name": "cookie_session", "in": "cookie"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:3000",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "StudyHub API",
	Description:      "Study planner service: subjects, chapters, parts and preset templates",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
