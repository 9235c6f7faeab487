// Package docs registers the OpenAPI document for the admin API.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/api/admin/v1/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in with email and password",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {"200": {"description": "token and admin profile"}, "401": {"description": "INVALID_CREDENTIALS"}}
            }
        },
        "/api/admin/v1/auth/logout": {
            "post": {"tags": ["auth"], "summary": "Revoke the presented token", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "always succeeds"}}}
        },
        "/api/admin/v1/auth/me": {
            "get": {"tags": ["auth"], "summary": "Current admin", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "admin profile"}, "401": {"description": "AUTH_REQUIRED"}}}
        },
        "/api/admin/v1/admin-users": {
            "get": {"tags": ["admins"], "summary": "List admins", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "admins"}}},
            "post": {"tags": ["admins"], "summary": "Create admin", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "created"}, "400": {"description": "ADMIN_EXISTS or VALIDATION_ERROR"}}}
        },
        "/api/admin/v1/admin-users/{id}": {
            "put": {"tags": ["admins"], "summary": "Update name, role or active flag", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "updated"}, "404": {"description": "ADMIN_NOT_FOUND"}}}
        },
        "/api/admin/v1/admin-users/{id}/reset-password": {
            "post": {"tags": ["admins"], "summary": "Reset password", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "reset"}}}
        },
        "/api/admin/v1/categories": {
            "get": {"tags": ["categories"], "summary": "List active categories", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "categories"}}},
            "post": {"tags": ["categories"], "summary": "Create category", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "created"}}}
        },
        "/api/admin/v1/categories/{id}": {
            "put": {"tags": ["categories"], "summary": "Update category", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "updated"}}},
            "delete": {"tags": ["categories"], "summary": "Archive category", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "archived"}, "400": {"description": "CATEGORY_IN_USE"}}}
        },
        "/api/admin/v1/products": {
            "get": {
                "tags": ["products"], "summary": "Paginated product list", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "size", "type": "integer"},
                    {"in": "query", "name": "status", "type": "string"},
                    {"in": "query", "name": "categoryId", "type": "string"},
                    {"in": "query", "name": "color", "type": "string"},
                    {"in": "query", "name": "search", "type": "string"}
                ],
                "responses": {"200": {"description": "page of product summaries"}}
            },
            "post": {"tags": ["products"], "summary": "Create product", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "created"}}}
        },
        "/api/admin/v1/products/{id}": {
            "get": {"tags": ["products"], "summary": "Get product", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "product"}, "404": {"description": "PRODUCT_NOT_FOUND"}}},
            "put": {"tags": ["products"], "summary": "Merge non-null fields", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "product"}}},
            "delete": {"tags": ["products"], "summary": "Archive product", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "archived"}}}
        },
        "/api/admin/v1/products/{id}/images": {
            "post": {"tags": ["products"], "summary": "Upload images (multipart files or files[])", "consumes": ["multipart/form-data"], "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "all images of the product"}}}
        },
        "/api/admin/v1/products/{id}/images/{imageId}": {
            "get": {"tags": ["products"], "summary": "Stream image", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}, {"in": "path", "name": "imageId", "required": true, "type": "string"}], "responses": {"200": {"description": "image bytes"}, "404": {"description": "IMAGE_NOT_FOUND"}}},
            "delete": {"tags": ["products"], "summary": "Delete image", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}, {"in": "path", "name": "imageId", "required": true, "type": "string"}], "responses": {"200": {"description": "deleted"}}}
        },
        "/api/admin/v1/inventory/low-stock": {
            "get": {"tags": ["inventory"], "summary": "Products at or below threshold", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "items"}}}
        },
        "/api/admin/v1/dashboard/summary": {
            "get": {"tags": ["dashboard"], "summary": "Catalog and order totals", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "summary"}}}
        },
        "/api/admin/v1/dashboard/top-products": {
            "get": {"tags": ["dashboard"], "summary": "Top 10 products by sold quantity", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "products"}}}
        },
        "/api/invoice/generate": {
            "post": {
                "tags": ["invoice"], "summary": "Render an invoice PDF", "security": [{"BearerAuth": []}],
                "consumes": ["application/json", "text/plain"], "produces": ["application/pdf"],
                "responses": {"200": {"description": "PDF attachment"}, "400": {"description": "INVALID_REQUEST or INVALID_JSON"}, "500": {"description": "INTERNAL_ERROR"}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "SGSP Admin API",
	Description:      "Back-office API for the SGSP catalog: admins, categories, products, dashboard and invoices.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
