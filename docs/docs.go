package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "Case Intake Backend",
    "description": "Lawsuit intake, AI classification and triage",
    "version": "1.0"
  },
  "basePath": "/",
  "paths": {
    "/healthz": {"get": {"tags": ["health"], "summary": "Liveness", "responses": {"200": {"description": "OK"}}}},
    "/api/cases": {
      "get": {
        "tags": ["cases"],
        "summary": "List cases",
        "parameters": [
          {"name": "q", "in": "query", "type": "string"},
          {"name": "limit", "in": "query", "type": "integer"},
          {"name": "offset", "in": "query", "type": "integer"}
        ],
        "responses": {"200": {"description": "OK"}}
      },
      "post": {
        "tags": ["intake"],
        "summary": "Submit a typed filing",
        "consumes": ["application/json"],
        "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}],
        "responses": {"201": {"description": "Created"}, "400": {"description": "Validation failed"}, "409": {"description": "Submission in flight"}, "502": {"description": "Classification failed"}}
      }
    },
    "/api/cases/{id}": {
      "get": {
        "tags": ["cases"],
        "summary": "Case details",
        "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
        "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
      }
    },
    "/api/cases/upload": {
      "post": {
        "tags": ["intake"],
        "summary": "Submit a scanned filing",
        "consumes": ["multipart/form-data"],
        "parameters": [{"name": "file", "in": "formData", "required": true, "type": "file"}],
        "responses": {"201": {"description": "Created"}, "400": {"description": "Unsupported file"}, "413": {"description": "Too large"}, "502": {"description": "Classification failed"}}
      }
    },
    "/api/cases/document": {
      "post": {
        "tags": ["intake"],
        "summary": "Submit a filing as base64",
        "consumes": ["application/json"],
        "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}],
        "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid payload"}, "413": {"description": "Too large"}, "502": {"description": "Classification failed"}}
      }
    },
    "/api/dashboard": {"get": {"tags": ["dashboard"], "summary": "Dashboard aggregates", "responses": {"200": {"description": "OK"}}}},
    "/api/intake/state": {"get": {"tags": ["intake"], "summary": "Intake workflow state", "responses": {"200": {"description": "OK"}}}},
    "/api/intake/reset": {"post": {"tags": ["intake"], "summary": "Return the intake workflow to idle", "responses": {"204": {"description": "No Content"}}}}
  }
}`

func init() {
	swag.Register(swag.Name, &s{})
}

type s struct{}

func (s *s) ReadDoc() string {
	return docTemplate
}
