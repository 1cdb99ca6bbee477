// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/server/main.go
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
		"/api/v1/auth/register": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"auth"
				],
				"summary": "Register a user with a password",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/v1/auth/login": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"auth"
				],
				"summary": "Log in and receive a token",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/v1/quizzes": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"quizzes"
				],
				"summary": "List quizzes",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/v1/quizzes/{id}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"quizzes"
				],
				"summary": "Get a quiz with questions and answers",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/v1/quizzes/{id}/stats": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"quizzes"
				],
				"summary": "Quiz statistics",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/v1/quizzes/{id}/correct-answers": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"quizzes"
				],
				"summary": "Correct answer of every question",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/v1/quiz": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"legacy"
				],
				"summary": "Quiz lookup (legacy)",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"legacy"
				],
				"summary": "Quiz actions (legacy)",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/v1/quiz/check": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"sessions"
				],
				"summary": "Check answers without saving",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/v1/quiz/submit": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"sessions"
				],
				"summary": "Submit a completed quiz",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/v1/leaderboard": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"leaderboard"
				],
				"summary": "Quiz or global leaderboard",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"leaderboard"
				],
				"summary": "Quiz or global leaderboard",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/v1/stats": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"stats"
				],
				"summary": "Site statistics",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/v1/users": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"users"
				],
				"summary": "Create a player",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/v1/users/{id}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"users"
				],
				"summary": "Get a player",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			},
			"patch": {
				"produces": [
					"application/json"
				],
				"tags": [
					"users"
				],
				"summary": "Update own profile",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/v1/users/{id}/stats": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"users"
				],
				"summary": "Player statistics",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/v1/users/{id}/activity": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"users"
				],
				"summary": "Recent sessions of a player",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/v1/users/{id}/rank": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"users"
				],
				"summary": "Player rank",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/v1/admin/quizzes": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"admin"
				],
				"summary": "Create a quiz",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"AdminKey": []
					}
				]
			}
		},
		"/api/v1/admin/quizzes/import": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"admin"
				],
				"summary": "Import a new quiz",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"AdminKey": []
					}
				]
			}
		},
		"/api/v1/admin/quizzes/{id}": {
			"put": {
				"produces": [
					"application/json"
				],
				"tags": [
					"admin"
				],
				"summary": "Update a quiz",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"AdminKey": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			},
			"delete": {
				"produces": [
					"application/json"
				],
				"tags": [
					"admin"
				],
				"summary": "Delete a quiz",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"AdminKey": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/v1/admin/quizzes/{id}/questions": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"admin"
				],
				"summary": "Add a question",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"AdminKey": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/v1/admin/quizzes/{id}/export": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"admin"
				],
				"summary": "Export a quiz as JSON or CSV",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"AdminKey": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/v1/admin/quizzes/{id}/import": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"admin"
				],
				"summary": "Import questions into a quiz",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"AdminKey": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/v1/admin/questions/{id}": {
			"put": {
				"produces": [
					"application/json"
				],
				"tags": [
					"admin"
				],
				"summary": "Replace a question",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"AdminKey": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			},
			"delete": {
				"produces": [
					"application/json"
				],
				"tags": [
					"admin"
				],
				"summary": "Delete a question",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"AdminKey": []
					}
				],
				"parameters": [
					{
						"type": "integer",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/v1/admin/reconcile": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"admin"
				],
				"summary": "Recompute user totals",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"AdminKey": []
					}
				]
			}
		},
		"/ws/leaderboard": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"websocket"
				],
				"summary": "Global leaderboard feed",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/ws/leaderboard/{quizId}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"websocket"
				],
				"summary": "Quiz leaderboard feed",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"name": "quizId",
						"in": "path",
						"required": true
					}
				]
			}
		}
	},
	"securityDefinitions": {
		"AdminKey": {
			"type": "apiKey",
			"name": "X-Admin-API-Key",
			"in": "header"
		},
		"BearerAuth": {
			"description": "Enter \"Bearer {token}\"",
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Quizzy API",
	Description:      "Quiz catalogue, answer checking and scoring, leaderboards and player statistics.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
