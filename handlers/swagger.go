package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// openAPISpec is the embedded API description served to the swagger UI.
const openAPISpec = `{
  "openapi": "3.0.3",
  "info": {
    "title": "docuvault API",
    "description": "Document sharing service with private, public and role based visibility.",
    "version": "1.0.0"
  },
  "servers": [{"url": "/api/v1"}],
  "components": {
    "securitySchemes": {
      "bearerAuth": {"type": "http", "scheme": "bearer", "bearerFormat": "JWT"}
    },
    "schemas": {
      "Document": {
        "type": "object",
        "properties": {
          "id": {"type": "integer", "format": "int64"},
          "title": {"type": "string"},
          "content": {"type": "string"},
          "access": {"type": "string", "enum": ["private", "public", "role"]},
          "userId": {"type": "integer", "format": "int64"},
          "ownerRoleId": {"type": "integer", "format": "int64"},
          "createdAt": {"type": "string", "format": "date-time"},
          "updatedAt": {"type": "string", "format": "date-time"}
        }
      },
      "User": {
        "type": "object",
        "properties": {
          "id": {"type": "integer", "format": "int64"},
          "roleId": {"type": "integer", "format": "int64"},
          "email": {"type": "string"},
          "userName": {"type": "string"},
          "fullName": {"type": "string"},
          "createdAt": {"type": "string", "format": "date-time"},
          "updatedAt": {"type": "string", "format": "date-time"}
        }
      },
      "Message": {
        "type": "object",
        "properties": {"message": {"type": "string"}}
      }
    }
  },
  "security": [{"bearerAuth": []}],
  "paths": {
    "/users": {
      "post": {
        "summary": "Register a new user",
        "security": [],
        "responses": {"201": {"description": "User was created successfully"}, "409": {"description": "Duplicate email or username"}}
      },
      "get": {
        "summary": "List users",
        "parameters": [
          {"name": "page", "in": "query", "schema": {"type": "integer"}},
          {"name": "size", "in": "query", "schema": {"type": "integer"}}
        ],
        "responses": {"200": {"description": "Users were retrieved successfully"}}
      }
    },
    "/users/login": {
      "post": {"summary": "Log in with email or username", "security": [], "responses": {"200": {"description": "User was logged in successfully"}, "401": {"description": "Invalid credentials"}}}
    },
    "/users/logout": {
      "post": {"summary": "Revoke the access token and refresh session", "responses": {"200": {"description": "User is logged out"}}}
    },
    "/users/refresh": {
      "post": {"summary": "Exchange a refresh token for a new access token", "security": [], "responses": {"200": {"description": "New access token"}, "401": {"description": "Invalid or expired refresh token"}}}
    },
    "/users/{id}": {
      "get": {"summary": "Fetch a user", "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "integer"}}], "responses": {"200": {"description": "User"}, "404": {"description": "User not found"}}},
      "put": {"summary": "Update a user (self or admin)", "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "integer"}}], "responses": {"200": {"description": "Updated"}, "403": {"description": "Not permitted"}}},
      "delete": {"summary": "Delete a user (self or admin)", "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "integer"}}], "responses": {"200": {"description": "User was successfully deleted"}}}
    },
    "/documents": {
      "post": {"summary": "Create a document", "responses": {"201": {"description": "Document created"}, "400": {"description": "Document must have a title"}}},
      "get": {
        "summary": "List all documents (admin only)",
        "parameters": [
          {"name": "page", "in": "query", "schema": {"type": "integer"}},
          {"name": "size", "in": "query", "schema": {"type": "integer"}}
        ],
        "responses": {"200": {"description": "Paged documents"}, "403": {"description": "User is not an admin"}}
      }
    },
    "/documents/{id}": {
      "get": {"summary": "Fetch a document the caller may read", "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "integer"}}], "responses": {"200": {"description": "Document"}, "403": {"description": "Access denied"}, "404": {"description": "Document not found"}}},
      "put": {"summary": "Update an owned document", "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "integer"}}], "responses": {"200": {"description": "Document updated"}}},
      "delete": {"summary": "Delete an owned document", "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "integer"}}], "responses": {"200": {"description": "Document deleted"}}}
    },
    "/public-documents": {
      "get": {"summary": "List public documents", "responses": {"200": {"description": "Paged documents"}}}
    },
    "/role-documents": {
      "get": {"summary": "List role restricted documents visible to the caller", "responses": {"200": {"description": "Paged documents"}}}
    },
    "/my-documents": {
      "get": {"summary": "List the caller's own documents", "responses": {"200": {"description": "Paged documents"}}}
    },
    "/search/documents": {
      "get": {"summary": "Search documents by title or access level", "parameters": [{"name": "q", "in": "query", "required": true, "schema": {"type": "string"}}], "responses": {"200": {"description": "Matching documents"}}}
    },
    "/search/users": {
      "get": {"summary": "Search users by name", "parameters": [{"name": "q", "in": "query", "required": true, "schema": {"type": "string"}}], "responses": {"200": {"description": "Matching users"}}}
    }
  }
}`

const swaggerPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>docuvault API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
<script>
  window.onload = () => {
    SwaggerUIBundle({url: "/swagger/doc.json", dom_id: "#swagger-ui"});
  };
</script>
</body>
</html>`

// RegisterSwagger serves the API documentation UI and its spec.
func RegisterSwagger(r *gin.Engine) {
	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	r.GET("/swagger/index.html", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerPage))
	})
	r.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(openAPISpec))
	})
}
