// Package docs holds the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go
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
        "/api/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [{"description": "User registration details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.registerResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/auth/verify-otp": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Verify email OTP",
                "parameters": [{"description": "Email and code", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.verifyOTPRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/auth/resend-otp": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Resend email OTP",
                "parameters": [{"description": "Email", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.resendOTPRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [{"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/auth/google-login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Google sign-in",
                "parameters": [{"description": "Google ID token", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.googleLoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/auth/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}}}
            }
        },
        "/api/auth/me": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/auth/counsellors": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "List counsellors",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.CounsellorOption"}}}}
            }
        },
        "/api/counsilli/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["counsilli"],
                "summary": "Counsilli dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.counsilliDashboardResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/counsilli/sadhana/add": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["counsilli"],
                "summary": "Submit sadhana card",
                "parameters": [{"description": "Sadhana card", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.addEntryRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.addEntryResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/counsilli/sadhana/monthly/{month}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["counsilli"],
                "summary": "Own monthly report",
                "parameters": [{"type": "string", "description": "Month as YYYY-MM", "name": "month", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.monthlyReportResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/counsellor/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["counsellor"],
                "summary": "Counsellor dashboard",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.counsellorDashboardResponse"}}}
            }
        },
        "/api/counsellor/counsillis": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["counsellor"],
                "summary": "Assigned counsillis",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.counsillisResponse"}}}
            }
        },
        "/api/counsellor/counsilli/{id}/sadhana": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["counsellor"],
                "summary": "Counsilli full report",
                "parameters": [{"type": "string", "description": "Counsilli id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.counsilliReportResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/counsellor/counsilli/{id}/sadhana/{month}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["counsellor"],
                "summary": "Counsilli monthly report",
                "parameters": [
                    {"type": "string", "description": "Counsilli id", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Month as YYYY-MM", "name": "month", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.counsilliReportResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.User": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["counsellor", "counsilli"]},
                "counsellor": {"type": "string"},
                "lastLogin": {"type": "string"},
                "verified": {"type": "boolean"},
                "createdAt": {"type": "string"}
            }
        },
        "domain.CounsellorOption": {
            "type": "object",
            "properties": {"_id": {"type": "string"}, "name": {"type": "string"}}
        },
        "domain.CounsilliSummary": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"},
                "lastSubmission": {"type": "string"}
            }
        },
        "domain.SadhanaEntry": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "counsilli": {"type": "string"},
                "date": {"type": "string"},
                "wakeUp": {"type": "string"},
                "japaCompleted": {"type": "string"},
                "dayRest": {"type": "string"},
                "hearing": {"type": "string"},
                "reading": {"type": "string"},
                "study": {"type": "string"},
                "timeToBed": {"type": "string"},
                "seva": {"type": "string"},
                "concern": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "error": {"type": "string"}}
        },
        "handler.messageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["email", "name", "password", "role"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "role": {"type": "string", "enum": ["counsellor", "counsilli"]},
                "counsellorName": {"type": "string"}
            }
        },
        "handler.registerResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "user": {"$ref": "#/definitions/domain.User"},
                "verificationPending": {"type": "boolean"}
            }
        },
        "handler.verifyOTPRequest": {
            "type": "object",
            "required": ["email", "otp"],
            "properties": {"email": {"type": "string"}, "otp": {"type": "string"}}
        },
        "handler.resendOTPRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {"email": {"type": "string"}}
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.googleLoginRequest": {
            "type": "object",
            "required": ["idToken"],
            "properties": {
                "idToken": {"type": "string"},
                "role": {"type": "string", "enum": ["counsellor", "counsilli"]},
                "counsellorName": {"type": "string"}
            }
        },
        "handler.sessionResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/domain.User"}
            }
        },
        "handler.userResponse": {
            "type": "object",
            "properties": {"user": {"$ref": "#/definitions/domain.User"}}
        },
        "handler.addEntryRequest": {
            "type": "object",
            "required": ["date"],
            "properties": {
                "date": {"type": "string"},
                "wakeUp": {"type": "string"},
                "japaCompleted": {"type": "string"},
                "dayRest": {"type": "string"},
                "hearing": {"type": "string"},
                "reading": {"type": "string"},
                "study": {"type": "string"},
                "timeToBed": {"type": "string"},
                "seva": {"type": "string"},
                "concern": {"type": "string"}
            }
        },
        "handler.addEntryResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "sadhana": {"$ref": "#/definitions/domain.SadhanaEntry"}}
        },
        "handler.counsilliDashboardResponse": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/domain.User"},
                "recentSadhana": {"type": "array", "items": {"$ref": "#/definitions/domain.SadhanaEntry"}}
            }
        },
        "handler.monthlyReportResponse": {
            "type": "object",
            "properties": {
                "month": {"type": "string"},
                "sadhanaCards": {"type": "array", "items": {"$ref": "#/definitions/domain.SadhanaEntry"}}
            }
        },
        "handler.counsellorDashboardResponse": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/domain.User"},
                "assignedCounsilliCount": {"type": "integer"}
            }
        },
        "handler.counsillisResponse": {
            "type": "object",
            "properties": {"counsillis": {"type": "array", "items": {"$ref": "#/definitions/domain.CounsilliSummary"}}}
        },
        "handler.counsilliReportResponse": {
            "type": "object",
            "properties": {
                "counsilliId": {"type": "string"},
                "month": {"type": "string"},
                "sadhanaCards": {"type": "array", "items": {"$ref": "#/definitions/domain.SadhanaEntry"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "VIT VOICE Sadhana API",
	Description:      "Daily sadhana card tracking for counsellors and counsillis.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
