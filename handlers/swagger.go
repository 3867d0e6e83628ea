package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the glossary API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>glosario LSC - Swagger</title>
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

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "glosario-lsc", "version": "v0.1.0" },
  "paths": {
    "/api/words": {
      "get": { "summary": "List every word with its signs", "responses": { "200": { "description": "words, alphabetical; signs newest first" }, "503": { "description": "repository unavailable" } } },
      "delete": {
        "summary": "Delete every word and sign",
        "parameters": [{ "name": "confirm", "in": "query", "required": true, "schema": { "type": "boolean" } }],
        "responses": { "204": { "description": "library cleared" }, "400": { "description": "confirmation missing" }, "503": { "description": "repository unavailable" } }
      }
    },
    "/api/words/{name}": {
      "get": {
        "summary": "Get one word by case-insensitive name",
        "parameters": [{ "name": "name", "in": "path", "required": true, "schema": { "type": "string" } }],
        "responses": { "200": { "description": "word" }, "404": { "description": "not found" } }
      }
    },
    "/api/words/{name}/signs": {
      "post": {
        "summary": "Add a sign video, creating the word when absent",
        "parameters": [{ "name": "name", "in": "path", "required": true, "schema": { "type": "string" } }],
        "requestBody": { "content": { "multipart/form-data": { "schema": {"type":"object","required":["video"],"properties":{"video":{"type":"string","format":"binary"},"note":{"type":"string"},"latitude":{"type":"number"},"longitude":{"type":"number"},"test":{"type":"boolean"}}}}}},
        "responses": { "201": { "description": "word and sign created" }, "200": { "description": "sign added to an existing word" }, "400": { "description": "validation error" }, "413": { "description": "video too large" }, "429": { "description": "rate limited" }, "503": { "description": "repository unavailable" } }
      }
    },
    "/api/search": {
      "get": {
        "summary": "Match a phrase word by word",
        "parameters": [{ "name": "q", "in": "query", "schema": { "type": "string" } }],
        "responses": { "200": { "description": "found and missing items in query order" } }
      }
    },
    "/api/cities/nearest": {
      "get": {
        "summary": "Resolve coordinates to the nearest known city",
        "parameters": [{ "name": "lat", "in": "query", "required": true, "schema": { "type": "number" } }, { "name": "lng", "in": "query", "required": true, "schema": { "type": "number" } }],
        "responses": { "200": { "description": "city and distance" }, "404": { "description": "no city within range" } }
      }
    },
    "/media/{key}": { "get": { "summary": "Stream a stored sign video", "responses": { "200": { "description": "video bytes" }, "404": { "description": "not found" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
