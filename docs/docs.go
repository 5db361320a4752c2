// Package docs registers the OpenAPI description served under /swagger.
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
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/usuarios/login/": {
            "post": {
                "tags": ["usuarios"],
                "summary": "Inicio de sesión",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.LoginInput"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Credenciales inválidas"}}
            }
        },
        "/usuarios/registro/": {
            "post": {
                "tags": ["usuarios"],
                "summary": "Registro de usuario",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RegisterInput"}}],
                "responses": {"201": {"description": "Creado"}}
            }
        },
        "/hoteles/": {
            "get": {
                "tags": ["hoteles"],
                "summary": "Lista de hoteles",
                "parameters": [
                    {"type": "string", "name": "departamento", "in": "query"},
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/habitaciones/{num}/disponibilidad/": {
            "get": {
                "tags": ["habitaciones"],
                "summary": "Disponibilidad de una habitación",
                "parameters": [
                    {"type": "string", "name": "num", "in": "path", "required": true},
                    {"type": "string", "name": "desde", "in": "query"},
                    {"type": "string", "name": "hasta", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "No encontrado"}}
            }
        },
        "/reservas/": {
            "get": {"tags": ["reservas"], "summary": "Reservas", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {
                "tags": ["reservas"],
                "summary": "Crear reserva",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ReservationInput"}}],
                "responses": {"201": {"description": "Creado"}, "400": {"description": "Solapamiento o datos inválidos"}}
            }
        },
        "/reservas/{id}/cancelar/": {
            "post": {
                "tags": ["reservas"],
                "summary": "Cancelar reserva (idempotente)",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reservas/{id}/reactivar/": {
            "post": {
                "tags": ["reservas"],
                "summary": "Reactivar reserva cancelada",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Solapamiento"}}
            }
        },
        "/llm/generate/": {
            "post": {
                "tags": ["llm"],
                "summary": "Pregunta al asistente turístico",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.GenerateInput"}}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/chat/sessions/{id}/messages/": {
            "get": {
                "tags": ["chat"],
                "summary": "Historial de una sesión",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "format", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "dto.LoginInput": {
            "type": "object",
            "required": ["correo", "contrasenia"],
            "properties": {"correo": {"type": "string"}, "contrasenia": {"type": "string"}}
        },
        "dto.RegisterInput": {
            "type": "object",
            "required": ["nombre", "correo", "contrasenia"],
            "properties": {
                "nombre": {"type": "string"},
                "correo": {"type": "string"},
                "contrasenia": {"type": "string"},
                "pais": {"type": "string"},
                "pasaporte": {"type": "string"}
            }
        },
        "dto.ReservationInput": {
            "type": "object",
            "properties": {
                "fecha_reserva": {"type": "string", "example": "2025-03-10"},
                "fecha_caducidad": {"type": "string", "example": "2025-03-15"},
                "num_habitacion": {"type": "string"},
                "codigo_hotel": {"type": "integer"},
                "id_pago": {"type": "integer"},
                "id_paquete": {"type": "integer"},
                "id_usuario": {"type": "integer"}
            }
        },
        "dto.GenerateInput": {
            "type": "object",
            "required": ["prompt"],
            "properties": {
                "prompt": {"type": "string"},
                "chat_id": {"type": "string"},
                "format": {"type": "string", "enum": ["text", "html"]}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "MunayBol API",
	Description:      "Backend de turismo en Bolivia: hoteles, reservas y asistente MunayBot.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
