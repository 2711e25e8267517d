package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
		c.String(http.StatusOK, swaggerJSON)
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>meeting-syntesis — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document describing the main endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "meeting-syntesis", "version": "v0.1.0" },
  "paths": {
    "/auth/register": {
      "post": { "summary": "Create an account", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"},"fullName":{"type":"string"}}}}}}, "responses": { "201": { "description": "user created" }, "409": { "description": "email already registered" } } }
    },
    "/auth/login": {
      "post": { "summary": "Login with email and password", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}}, "responses": { "200": { "description": "tokens returned" }, "401": { "description": "invalid credentials" } } }
    },
    "/auth/refresh": {
      "post": { "summary": "Refresh access token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refresh_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "new access token" }, "401": { "description": "invalid refresh" } } }
    },
    "/auth/logout": {
      "post": { "summary": "Logout and invalidate refresh token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refresh_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "logged out" } } }
    },
    "/api/v1/users/me": {
      "get": { "summary": "Get current user", "responses": { "200": { "description": "user" } } }
    },
    "/api/v1/users": {
      "get": { "summary": "List all users", "responses": { "200": { "description": "users" } } }
    },
    "/api/v1/meetings/upload": {
      "post": { "summary": "Upload a recording and transcribe it", "requestBody": { "content": { "multipart/form-data": { "schema": {"type":"object","properties":{"title":{"type":"string"},"project_id":{"type":"string"},"tags":{"type":"string"},"meeting_datetime":{"type":"string","format":"date-time"},"duration_seconds":{"type":"integer"},"audio_file":{"type":"string","format":"binary"}}}}}}, "responses": { "201": { "description": "meeting record; transcription outcome in processingStatus" } } }
    },
    "/api/v1/meetings": {
      "get": { "summary": "List meetings with optional q/project_ids/tags/sort_by filters", "responses": { "200": { "description": "meetings" } } }
    },
    "/api/v1/meetings/{id}": {
      "get": { "summary": "Get a meeting", "responses": { "200": { "description": "meeting" }, "404": { "description": "not found" } } },
      "patch": { "summary": "Partially update a meeting", "responses": { "200": { "description": "updated meeting" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete a meeting", "responses": { "204": { "description": "deleted" }, "404": { "description": "not found" } } }
    },
    "/api/v1/meetings/{id}/audio": {
      "get": { "summary": "Stream the stored audio", "responses": { "200": { "description": "audio bytes" }, "404": { "description": "not found" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
