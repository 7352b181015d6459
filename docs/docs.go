// Package docs holds the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs
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
                "summary": "Estado de la base de datos y de Redis",
                "tags": [
                    "sistema"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "type": "object"
                        }
                    }
                },
                "description": "Redis es opcional: sin cliente se informa \"disabled\" y el servicio sigue sano."
            }
        },
        "/v1/almacenes": {
            "post": {
                "summary": "Crea una entrada de catalogo",
                "tags": [
                    "catalogo"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "get": {
                "summary": "Lista un catalogo",
                "tags": [
                    "catalogo"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "q",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "activo",
                        "in": "query",
                        "enum": [
                            "true",
                            "false",
                            "all"
                        ]
                    },
                    {
                        "type": "integer",
                        "name": "page",
                        "in": "query",
                        "default": 1
                    },
                    {
                        "type": "integer",
                        "name": "limit",
                        "in": "query",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/almacenes/{id}": {
            "get": {
                "summary": "Obtiene una entrada de catalogo",
                "tags": [
                    "catalogo"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "put": {
                "summary": "Actualiza una entrada de catalogo",
                "tags": [
                    "catalogo"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/almacenes/{id}/activo": {
            "patch": {
                "summary": "Activa o desactiva una entrada de catalogo",
                "tags": [
                    "catalogo"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ToggleResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/auth/cambiar-password": {
            "post": {
                "summary": "Cambia la contraseña del usuario autenticado",
                "tags": [
                    "auth"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CambiarPasswordRequest"
                        }
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/auth/login": {
            "post": {
                "summary": "Inicia sesion y emite los tokens",
                "tags": [
                    "auth"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.LoginRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.LoginResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    },
                    "429": {
                        "description": "Too Many Requests",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                }
            }
        },
        "/v1/auth/me": {
            "get": {
                "summary": "Perfil y permisos efectivos del usuario autenticado",
                "tags": [
                    "auth"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.PerfilResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/auth/primer-cambio": {
            "post": {
                "summary": "Establece la contraseña desde el enlace de alta",
                "tags": [
                    "auth"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.PrimerCambioRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                }
            }
        },
        "/v1/auth/refresh": {
            "post": {
                "summary": "Renueva el token de acceso",
                "tags": [
                    "auth"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.RefreshRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.LoginResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                }
            }
        },
        "/v1/caja/abrir": {
            "post": {
                "summary": "Abre una nueva sesion de caja",
                "tags": [
                    "caja"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.AbrirCajaRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.SesionCajaResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "description": "Solo puede haber una sesion abierta a la vez.",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/caja/activa": {
            "get": {
                "summary": "Sesion de caja abierta",
                "tags": [
                    "caja"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.SesionCajaResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/caja/cerrar": {
            "post": {
                "summary": "Cierra la caja con arqueo",
                "tags": [
                    "caja"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CerrarCajaRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.SesionCajaResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "description": "Calcula el arqueo y clasifica la diferencia; una diferencia critica exige observaciones.",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/caja/historial": {
            "get": {
                "summary": "Historial de sesiones de caja",
                "tags": [
                    "caja"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "name": "page",
                        "in": "query",
                        "default": 1
                    },
                    {
                        "type": "integer",
                        "name": "limit",
                        "in": "query",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ListResponse-dto_SesionCajaResponse"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/caja/movimientos": {
            "post": {
                "summary": "Registra un movimiento en la caja abierta",
                "tags": [
                    "caja"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.MovimientoCajaRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.MovimientoCajaResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/caja/{id}": {
            "get": {
                "summary": "Obtiene una sesion de caja",
                "tags": [
                    "caja"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.SesionCajaResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/categorias": {
            "post": {
                "summary": "Crea una entrada de catalogo",
                "tags": [
                    "catalogo"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "get": {
                "summary": "Lista un catalogo",
                "tags": [
                    "catalogo"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "q",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "activo",
                        "in": "query",
                        "enum": [
                            "true",
                            "false",
                            "all"
                        ]
                    },
                    {
                        "type": "integer",
                        "name": "page",
                        "in": "query",
                        "default": 1
                    },
                    {
                        "type": "integer",
                        "name": "limit",
                        "in": "query",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/categorias/{id}": {
            "get": {
                "summary": "Obtiene una entrada de catalogo",
                "tags": [
                    "catalogo"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "put": {
                "summary": "Actualiza una entrada de catalogo",
                "tags": [
                    "catalogo"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/categorias/{id}/activo": {
            "patch": {
                "summary": "Activa o desactiva una entrada de catalogo",
                "tags": [
                    "catalogo"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ToggleResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/clientes": {
            "post": {
                "summary": "Crea un cliente",
                "tags": [
                    "personas"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.ClienteRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.PersonaResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "get": {
                "summary": "Lista empleados o clientes",
                "tags": [
                    "personas"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "q",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "tipo",
                        "in": "query",
                        "enum": [
                            "contacto",
                            "empleado",
                            "cliente"
                        ]
                    },
                    {
                        "type": "string",
                        "name": "activo",
                        "in": "query",
                        "enum": [
                            "true",
                            "false",
                            "all"
                        ]
                    },
                    {
                        "type": "integer",
                        "name": "page",
                        "in": "query",
                        "default": 1
                    },
                    {
                        "type": "integer",
                        "name": "limit",
                        "in": "query",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ListResponse-dto_PersonaResponse"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/clientes/{id}": {
            "put": {
                "summary": "Actualiza un cliente",
                "tags": [
                    "personas"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.ClienteRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.PersonaResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/empleados": {
            "post": {
                "summary": "Crea un empleado",
                "tags": [
                    "personas"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.EmpleadoRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.PersonaResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "get": {
                "summary": "Lista empleados o clientes",
                "tags": [
                    "personas"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "q",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "tipo",
                        "in": "query",
                        "enum": [
                            "contacto",
                            "empleado",
                            "cliente"
                        ]
                    },
                    {
                        "type": "string",
                        "name": "activo",
                        "in": "query",
                        "enum": [
                            "true",
                            "false",
                            "all"
                        ]
                    },
                    {
                        "type": "integer",
                        "name": "page",
                        "in": "query",
                        "default": 1
                    },
                    {
                        "type": "integer",
                        "name": "limit",
                        "in": "query",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ListResponse-dto_PersonaResponse"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/empleados/{id}": {
            "put": {
                "summary": "Actualiza un empleado",
                "tags": [
                    "personas"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.EmpleadoRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.PersonaResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/facturas": {
            "post": {
                "summary": "Emite una factura",
                "tags": [
                    "facturas"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CrearFacturaRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.FacturaResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "get": {
                "summary": "Lista facturas",
                "tags": [
                    "facturas"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "cliente_id",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "estado",
                        "in": "query",
                        "enum": [
                            "pendiente",
                            "pagada",
                            "anulada"
                        ]
                    },
                    {
                        "type": "string",
                        "name": "desde",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "hasta",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "name": "page",
                        "in": "query",
                        "default": 1
                    },
                    {
                        "type": "integer",
                        "name": "limit",
                        "in": "query",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ListResponse-dto_FacturaResponse"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/facturas/desde-pedido": {
            "post": {
                "summary": "Factura un pedido entregado",
                "tags": [
                    "facturas"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.GenerarFacturaRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.FacturaResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/facturas/{id}": {
            "get": {
                "summary": "Obtiene una factura",
                "tags": [
                    "facturas"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.FacturaResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/facturas/{id}/anular": {
            "post": {
                "summary": "Anula o restaura una factura",
                "tags": [
                    "facturas"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.FacturaResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "description": "Alterna entre anulada y pendiente. Anular libera el pedido de origen.",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/facturas/{id}/cobrar": {
            "post": {
                "summary": "Cobra una factura pendiente",
                "tags": [
                    "facturas"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CobrarFacturaRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.FacturaResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/facturas/{id}/detalles": {
            "post": {
                "summary": "Agrega una linea a una factura pendiente",
                "tags": [
                    "facturas"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.DetalleFacturaRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.FacturaResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/facturas/{id}/detalles/{detalle_id}": {
            "delete": {
                "summary": "Quita una linea de una factura pendiente",
                "tags": [
                    "facturas"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "ID del detalle",
                        "name": "detalle_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.FacturaResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/facturas/{id}/enviar": {
            "post": {
                "summary": "Envia la factura por correo al cliente",
                "tags": [
                    "facturas"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "202": {
                        "description": "Accepted",
                        "schema": {
                            "$ref": "#/definitions/dto.EnviarFacturaResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "description": "Encola el PDF hacia el correo del cliente.",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/facturas/{id}/pdf": {
            "get": {
                "summary": "Descarga la factura en PDF",
                "tags": [
                    "facturas"
                ],
                "produces": [
                    "application/pdf"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/inventario": {
            "get": {
                "summary": "Stock por producto y almacen",
                "tags": [
                    "inventario"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "producto_id",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "almacen_id",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "name": "page",
                        "in": "query",
                        "default": 1
                    },
                    {
                        "type": "integer",
                        "name": "limit",
                        "in": "query",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ListResponse-dto_InventarioResponse"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/inventario/alertas": {
            "get": {
                "summary": "Productos en o bajo el stock minimo",
                "tags": [
                    "inventario"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/dto.AlertaStockResponse"
                            }
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/inventario/exportar": {
            "get": {
                "summary": "Exporta el inventario a xlsx o csv",
                "tags": [
                    "reportes"
                ],
                "produces": [
                    "application/octet-stream"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "almacen_id",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "formato",
                        "in": "query",
                        "enum": [
                            "json",
                            "xlsx",
                            "csv"
                        ]
                    },
                    {
                        "type": "string",
                        "name": "desde",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "hasta",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/marcas": {
            "post": {
                "summary": "Crea una entrada de catalogo",
                "tags": [
                    "catalogo"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "get": {
                "summary": "Lista un catalogo",
                "tags": [
                    "catalogo"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "q",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "activo",
                        "in": "query",
                        "enum": [
                            "true",
                            "false",
                            "all"
                        ]
                    },
                    {
                        "type": "integer",
                        "name": "page",
                        "in": "query",
                        "default": 1
                    },
                    {
                        "type": "integer",
                        "name": "limit",
                        "in": "query",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/marcas/{id}": {
            "get": {
                "summary": "Obtiene una entrada de catalogo",
                "tags": [
                    "catalogo"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "put": {
                "summary": "Actualiza una entrada de catalogo",
                "tags": [
                    "catalogo"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/marcas/{id}/activo": {
            "patch": {
                "summary": "Activa o desactiva una entrada de catalogo",
                "tags": [
                    "catalogo"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ToggleResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/movimientos": {
            "post": {
                "summary": "Registra una entrada o salida de stock",
                "tags": [
                    "inventario"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.MovimientoRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.MovimientoResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "description": "Una salida mayor al stock del almacen se rechaza con error en cantidad.",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "get": {
                "summary": "Lista movimientos de stock",
                "tags": [
                    "inventario"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "producto_id",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "almacen_id",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "tipo",
                        "in": "query",
                        "enum": [
                            "entrada",
                            "salida"
                        ]
                    },
                    {
                        "type": "string",
                        "name": "desde",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "hasta",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "name": "page",
                        "in": "query",
                        "default": 1
                    },
                    {
                        "type": "integer",
                        "name": "limit",
                        "in": "query",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ListResponse-dto_MovimientoResponse"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/ordenes-compra": {
            "post": {
                "summary": "Crea una orden de compra",
                "tags": [
                    "ordenes-compra"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CrearOrdenCompraRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.OrdenCompraResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "get": {
                "summary": "Lista ordenes de compra",
                "tags": [
                    "ordenes-compra"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "proveedor_id",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "estado",
                        "in": "query",
                        "enum": [
                            "pendiente",
                            "recibido",
                            "cancelado"
                        ]
                    },
                    {
                        "type": "string",
                        "name": "desde",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "hasta",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "name": "page",
                        "in": "query",
                        "default": 1
                    },
                    {
                        "type": "integer",
                        "name": "limit",
                        "in": "query",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ListResponse-dto_OrdenCompraResponse"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/ordenes-compra/{id}": {
            "get": {
                "summary": "Obtiene una orden de compra",
                "tags": [
                    "ordenes-compra"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.OrdenCompraResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/ordenes-compra/{id}/cancelar": {
            "post": {
                "summary": "Cancela una orden pendiente",
                "tags": [
                    "ordenes-compra"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.OrdenCompraResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/ordenes-compra/{id}/recibir": {
            "post": {
                "summary": "Recibe la orden e ingresa el stock",
                "tags": [
                    "ordenes-compra"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.RecibirOrdenResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "description": "Recibir dos veces no vuelve a mover stock; la respuesta lo indica.",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/pedidos": {
            "post": {
                "summary": "Crea un pedido",
                "tags": [
                    "pedidos"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CrearPedidoRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.PedidoResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "get": {
                "summary": "Lista pedidos",
                "tags": [
                    "pedidos"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "cliente_id",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "estado",
                        "in": "query",
                        "enum": [
                            "pendiente",
                            "enviado",
                            "entregado",
                            "cancelado"
                        ]
                    },
                    {
                        "type": "integer",
                        "name": "page",
                        "in": "query",
                        "default": 1
                    },
                    {
                        "type": "integer",
                        "name": "limit",
                        "in": "query",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ListResponse-dto_PedidoResponse"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/pedidos/{id}": {
            "get": {
                "summary": "Obtiene un pedido",
                "tags": [
                    "pedidos"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.PedidoResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "put": {
                "summary": "Actualiza un pedido pendiente",
                "tags": [
                    "pedidos"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.ActualizarPedidoRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.PedidoResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/pedidos/{id}/estado": {
            "patch": {
                "summary": "Avanza o cancela un pedido",
                "tags": [
                    "pedidos"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CambiarEstadoPedidoRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.PedidoResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/permisos": {
            "post": {
                "summary": "Crea un permiso",
                "tags": [
                    "permisos"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.PermisoRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.PermisoResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "get": {
                "summary": "Lista permisos",
                "tags": [
                    "permisos"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "q",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "activo",
                        "in": "query",
                        "enum": [
                            "true",
                            "false",
                            "all"
                        ]
                    },
                    {
                        "type": "integer",
                        "name": "page",
                        "in": "query",
                        "default": 1
                    },
                    {
                        "type": "integer",
                        "name": "limit",
                        "in": "query",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ListResponse-dto_PermisoResponse"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/permisos/{id}": {
            "put": {
                "summary": "Actualiza un permiso",
                "tags": [
                    "permisos"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.PermisoRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.PermisoResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/permisos/{id}/activo": {
            "patch": {
                "summary": "Activa o desactiva un permiso",
                "tags": [
                    "permisos"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ToggleResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/personas": {
            "post": {
                "summary": "Crea un contacto",
                "tags": [
                    "personas"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.PersonaRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.PersonaResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "get": {
                "summary": "Lista personas",
                "tags": [
                    "personas"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "q",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "tipo",
                        "in": "query",
                        "enum": [
                            "contacto",
                            "empleado",
                            "cliente"
                        ]
                    },
                    {
                        "type": "string",
                        "name": "activo",
                        "in": "query",
                        "enum": [
                            "true",
                            "false",
                            "all"
                        ]
                    },
                    {
                        "type": "integer",
                        "name": "page",
                        "in": "query",
                        "default": 1
                    },
                    {
                        "type": "integer",
                        "name": "limit",
                        "in": "query",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ListResponse-dto_PersonaResponse"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/personas/exportar": {
            "get": {
                "summary": "Exporta personas a xlsx o csv",
                "tags": [
                    "reportes"
                ],
                "produces": [
                    "application/octet-stream"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "q",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "tipo",
                        "in": "query",
                        "enum": [
                            "contacto",
                            "empleado",
                            "cliente"
                        ]
                    },
                    {
                        "type": "string",
                        "name": "activo",
                        "in": "query",
                        "enum": [
                            "true",
                            "false",
                            "all"
                        ]
                    },
                    {
                        "type": "integer",
                        "name": "page",
                        "in": "query",
                        "default": 1
                    },
                    {
                        "type": "integer",
                        "name": "limit",
                        "in": "query",
                        "default": 20
                    },
                    {
                        "type": "string",
                        "description": "xlsx o csv",
                        "name": "formato",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/personas/{id}": {
            "get": {
                "summary": "Obtiene una persona",
                "tags": [
                    "personas"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.PersonaResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "put": {
                "summary": "Actualiza un contacto",
                "tags": [
                    "personas"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.PersonaRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.PersonaResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/personas/{id}/activo": {
            "patch": {
                "summary": "Activa o desactiva una persona",
                "tags": [
                    "personas"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ToggleResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/productos": {
            "post": {
                "summary": "Crea un producto; precio_venta se calcula",
                "tags": [
                    "productos"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CrearProductoRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.ProductoResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    }
                },
                "description": "precio_venta se deriva de precio_compra, margen e IVA; nunca se lee del cuerpo.",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "get": {
                "summary": "Lista productos",
                "tags": [
                    "productos"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "q",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "categoria_id",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "marca_id",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "proveedor_id",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "activo",
                        "in": "query",
                        "enum": [
                            "true",
                            "false",
                            "all"
                        ]
                    },
                    {
                        "type": "boolean",
                        "name": "bajo_minimo",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "name": "page",
                        "in": "query",
                        "default": 1
                    },
                    {
                        "type": "integer",
                        "name": "limit",
                        "in": "query",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ListResponse-dto_ProductoResponse"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/productos/consulta/{codigo}": {
            "get": {
                "summary": "Consulta precio y stock por codigo de barras",
                "tags": [
                    "productos"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Codigo de barras",
                        "name": "codigo",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ConsultaPrecioResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/productos/exportar": {
            "get": {
                "summary": "Exporta productos a xlsx o csv",
                "tags": [
                    "reportes"
                ],
                "produces": [
                    "application/octet-stream"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "q",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "categoria_id",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "marca_id",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "proveedor_id",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "activo",
                        "in": "query",
                        "enum": [
                            "true",
                            "false",
                            "all"
                        ]
                    },
                    {
                        "type": "boolean",
                        "name": "bajo_minimo",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "name": "page",
                        "in": "query",
                        "default": 1
                    },
                    {
                        "type": "integer",
                        "name": "limit",
                        "in": "query",
                        "default": 20
                    },
                    {
                        "type": "string",
                        "description": "xlsx o csv",
                        "name": "formato",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/productos/{id}": {
            "get": {
                "summary": "Obtiene un producto",
                "tags": [
                    "productos"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ProductoResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "put": {
                "summary": "Actualiza un producto",
                "tags": [
                    "productos"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.ActualizarProductoRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ProductoResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/productos/{id}/activo": {
            "patch": {
                "summary": "Activa o desactiva un producto",
                "tags": [
                    "productos"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ToggleResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/productos/{id}/precios": {
            "get": {
                "summary": "Historial de precios de un producto",
                "tags": [
                    "precios"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/dto.PrecioResponse"
                            }
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "summary": "Registra un nuevo precio vigente",
                "tags": [
                    "precios"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CrearPrecioRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.PrecioResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/proveedores": {
            "post": {
                "summary": "Crea una entrada de catalogo",
                "tags": [
                    "catalogo"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "get": {
                "summary": "Lista un catalogo",
                "tags": [
                    "catalogo"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "q",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "activo",
                        "in": "query",
                        "enum": [
                            "true",
                            "false",
                            "all"
                        ]
                    },
                    {
                        "type": "integer",
                        "name": "page",
                        "in": "query",
                        "default": 1
                    },
                    {
                        "type": "integer",
                        "name": "limit",
                        "in": "query",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/proveedores/{id}": {
            "get": {
                "summary": "Obtiene una entrada de catalogo",
                "tags": [
                    "catalogo"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "put": {
                "summary": "Actualiza una entrada de catalogo",
                "tags": [
                    "catalogo"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/proveedores/{id}/activo": {
            "patch": {
                "summary": "Activa o desactiva una entrada de catalogo",
                "tags": [
                    "catalogo"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ToggleResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/reportes/compras": {
            "get": {
                "summary": "Reporte de compras",
                "tags": [
                    "reportes"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "almacen_id",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "formato",
                        "in": "query",
                        "enum": [
                            "json",
                            "xlsx",
                            "csv"
                        ]
                    },
                    {
                        "type": "string",
                        "name": "desde",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "hasta",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ComprasResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/reportes/dashboard": {
            "get": {
                "summary": "Indicadores del tablero",
                "tags": [
                    "reportes"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.DashboardResponse"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/reportes/inventario": {
            "get": {
                "summary": "Inventario valorizado",
                "tags": [
                    "reportes"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "almacen_id",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "formato",
                        "in": "query",
                        "enum": [
                            "json",
                            "xlsx",
                            "csv"
                        ]
                    },
                    {
                        "type": "string",
                        "name": "desde",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "hasta",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.InventarioValorizadoResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/reportes/stock-bajo": {
            "get": {
                "summary": "Productos con stock bajo",
                "tags": [
                    "reportes"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "xlsx o csv",
                        "name": "formato",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/dto.AlertaStockResponse"
                            }
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/reportes/ventas": {
            "get": {
                "summary": "Reporte de ventas",
                "tags": [
                    "reportes"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "almacen_id",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "formato",
                        "in": "query",
                        "enum": [
                            "json",
                            "xlsx",
                            "csv"
                        ]
                    },
                    {
                        "type": "string",
                        "name": "desde",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "hasta",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.VentasResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/roles": {
            "post": {
                "summary": "Crea un rol",
                "tags": [
                    "roles"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.RolRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.RolResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "get": {
                "summary": "Lista roles",
                "tags": [
                    "roles"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "q",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "activo",
                        "in": "query",
                        "enum": [
                            "true",
                            "false",
                            "all"
                        ]
                    },
                    {
                        "type": "integer",
                        "name": "page",
                        "in": "query",
                        "default": 1
                    },
                    {
                        "type": "integer",
                        "name": "limit",
                        "in": "query",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ListResponse-dto_RolResponse"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/roles/{id}": {
            "get": {
                "summary": "Obtiene un rol con sus permisos",
                "tags": [
                    "roles"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.RolResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "put": {
                "summary": "Actualiza un rol",
                "tags": [
                    "roles"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.RolRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.RolResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/roles/{id}/activo": {
            "patch": {
                "summary": "Activa o desactiva un rol",
                "tags": [
                    "roles"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ToggleResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/roles/{id}/permisos": {
            "put": {
                "summary": "Reemplaza los permisos de un rol",
                "tags": [
                    "roles"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.AsignarPermisosRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.RolResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/usuarios": {
            "post": {
                "summary": "Crea un usuario y envia el enlace de acceso",
                "tags": [
                    "usuarios"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CrearUsuarioRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.UsuarioResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "get": {
                "summary": "Lista usuarios",
                "tags": [
                    "usuarios"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "q",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "name": "activo",
                        "in": "query",
                        "enum": [
                            "true",
                            "false",
                            "all"
                        ]
                    },
                    {
                        "type": "integer",
                        "name": "page",
                        "in": "query",
                        "default": 1
                    },
                    {
                        "type": "integer",
                        "name": "limit",
                        "in": "query",
                        "default": 20
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ListResponse-dto_UsuarioResponse"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/usuarios/{id}": {
            "get": {
                "summary": "Obtiene un usuario",
                "tags": [
                    "usuarios"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.UsuarioResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "put": {
                "summary": "Actualiza un usuario",
                "tags": [
                    "usuarios"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.ActualizarUsuarioRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.UsuarioResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/usuarios/{id}/activo": {
            "patch": {
                "summary": "Activa o desactiva un usuario",
                "tags": [
                    "usuarios"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ToggleResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/usuarios/{id}/reenviar-acceso": {
            "post": {
                "summary": "Reenvia el enlace de acceso",
                "tags": [
                    "usuarios"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "202": {
                        "description": "Accepted"
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/v1/usuarios/{id}/roles": {
            "put": {
                "summary": "Reemplaza los roles de un usuario",
                "tags": [
                    "usuarios"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Datos",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.AsignarRolesRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.UsuarioResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/apierror.ValidationError"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/apierror.APIError"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        }
    },
    "definitions": {
        "apierror.APIError": {
            "type": "object",
            "properties": {
                "detail": {
                    "type": "string"
                }
            }
        },
        "apierror.ValidationError": {
            "type": "object",
            "properties": {
                "detail": {
                    "type": "string"
                },
                "fields": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "string"
                    }
                }
            }
        },
        "dto.AbrirCajaRequest": {
            "type": "object",
            "properties": {
                "monto_inicial": {
                    "type": "string",
                    "example": "0"
                }
            }
        },
        "dto.ActualizarPedidoRequest": {
            "type": "object",
            "properties": {
                "observacion": {
                    "type": "string"
                },
                "detalles": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.DetallePedidoRequest"
                    }
                }
            }
        },
        "dto.ActualizarProductoRequest": {
            "type": "object",
            "properties": {
                "nombre": {
                    "type": "string"
                },
                "descripcion": {
                    "type": "string"
                },
                "categoria_id": {
                    "type": "string"
                },
                "marca_id": {
                    "type": "string"
                },
                "proveedor_id": {
                    "type": "string"
                },
                "unidad_medida": {
                    "type": "string"
                },
                "precio_compra": {
                    "type": "string",
                    "example": "0"
                },
                "margen": {
                    "type": "string",
                    "example": "0"
                },
                "iva": {
                    "type": "integer"
                },
                "stock_minimo": {
                    "type": "integer"
                },
                "fecha_vencimiento": {
                    "type": "string"
                }
            }
        },
        "dto.ActualizarUsuarioRequest": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "es_staff": {
                    "type": "boolean"
                },
                "empleado_id": {
                    "type": "string"
                }
            }
        },
        "dto.AlertaStockResponse": {
            "type": "object",
            "properties": {
                "producto_id": {
                    "type": "string"
                },
                "codigo": {
                    "type": "string"
                },
                "nombre": {
                    "type": "string"
                },
                "stock": {
                    "type": "integer"
                },
                "stock_minimo": {
                    "type": "integer"
                },
                "faltante": {
                    "type": "integer"
                }
            }
        },
        "dto.AsignarPermisosRequest": {
            "type": "object",
            "properties": {
                "permiso_ids": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "dto.AsignarRolesRequest": {
            "type": "object",
            "properties": {
                "rol_ids": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "dto.CambiarEstadoPedidoRequest": {
            "type": "object",
            "properties": {
                "estado": {
                    "type": "string"
                }
            },
            "required": [
                "estado"
            ]
        },
        "dto.CambiarPasswordRequest": {
            "type": "object",
            "properties": {
                "password_actual": {
                    "type": "string"
                },
                "password_nueva": {
                    "type": "string"
                }
            },
            "required": [
                "password_actual",
                "password_nueva"
            ]
        },
        "dto.CerrarCajaRequest": {
            "type": "object",
            "properties": {
                "monto_declarado": {
                    "type": "string",
                    "example": "0"
                },
                "observaciones": {
                    "type": "string"
                }
            }
        },
        "dto.ClienteDetalle": {
            "type": "object",
            "properties": {
                "condicion_pago": {
                    "type": "string"
                },
                "dias_credito": {
                    "type": "integer"
                },
                "limite_credito": {
                    "type": "string",
                    "example": "0"
                }
            }
        },
        "dto.ClienteRequest": {
            "type": "object",
            "properties": {
                "documento": {
                    "type": "string"
                },
                "ruc": {
                    "type": "string"
                },
                "nombre": {
                    "type": "string"
                },
                "apellido": {
                    "type": "string"
                },
                "telefono": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "direccion": {
                    "type": "string"
                },
                "ciudad": {
                    "type": "string"
                },
                "condicion_pago": {
                    "type": "string"
                },
                "dias_credito": {
                    "type": "integer"
                },
                "limite_credito": {
                    "type": "string",
                    "example": "0"
                }
            },
            "required": [
                "apellido",
                "condicion_pago",
                "nombre"
            ]
        },
        "dto.CobrarFacturaRequest": {
            "type": "object",
            "properties": {
                "registrar_en_caja": {
                    "type": "boolean"
                }
            }
        },
        "dto.CompraProveedorItem": {
            "type": "object",
            "properties": {
                "proveedor_id": {
                    "type": "string"
                },
                "proveedor": {
                    "type": "string"
                },
                "ordenes": {
                    "type": "integer"
                },
                "total": {
                    "type": "string",
                    "example": "0"
                }
            }
        },
        "dto.ComprasResponse": {
            "type": "object",
            "properties": {
                "desde": {
                    "type": "string"
                },
                "hasta": {
                    "type": "string"
                },
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.CompraProveedorItem"
                    }
                },
                "total": {
                    "type": "string",
                    "example": "0"
                }
            }
        },
        "dto.ConsultaPrecioResponse": {
            "type": "object",
            "properties": {
                "codigo": {
                    "type": "string"
                },
                "nombre": {
                    "type": "string"
                },
                "precio_venta": {
                    "type": "string",
                    "example": "0"
                },
                "iva": {
                    "type": "integer"
                },
                "stock": {
                    "type": "integer"
                }
            }
        },
        "dto.CrearFacturaRequest": {
            "type": "object",
            "properties": {
                "cliente_id": {
                    "type": "string"
                },
                "condicion_venta": {
                    "type": "string"
                },
                "observacion": {
                    "type": "string"
                },
                "detalles": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.DetalleFacturaRequest"
                    }
                }
            },
            "required": [
                "cliente_id",
                "condicion_venta",
                "detalles"
            ]
        },
        "dto.CrearOrdenCompraRequest": {
            "type": "object",
            "properties": {
                "proveedor_id": {
                    "type": "string"
                },
                "almacen_id": {
                    "type": "string"
                },
                "nro_factura": {
                    "type": "string"
                },
                "fecha_entrega": {
                    "type": "string"
                },
                "observacion": {
                    "type": "string"
                },
                "detalles": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.DetalleOrdenRequest"
                    }
                }
            },
            "required": [
                "almacen_id",
                "detalles",
                "proveedor_id"
            ]
        },
        "dto.CrearPedidoRequest": {
            "type": "object",
            "properties": {
                "cliente_id": {
                    "type": "string"
                },
                "observacion": {
                    "type": "string"
                },
                "detalles": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.DetallePedidoRequest"
                    }
                }
            },
            "required": [
                "cliente_id",
                "detalles"
            ]
        },
        "dto.CrearPrecioRequest": {
            "type": "object",
            "properties": {
                "precio": {
                    "type": "string",
                    "example": "0"
                },
                "fecha_inicio": {
                    "type": "string",
                    "format": "date-time"
                },
                "fecha_fin": {
                    "type": "string",
                    "format": "date-time"
                },
                "cerrar_vigente": {
                    "type": "boolean"
                }
            },
            "required": [
                "fecha_inicio"
            ]
        },
        "dto.CrearProductoRequest": {
            "type": "object",
            "properties": {
                "codigo": {
                    "type": "string"
                },
                "nombre": {
                    "type": "string"
                },
                "descripcion": {
                    "type": "string"
                },
                "categoria_id": {
                    "type": "string"
                },
                "marca_id": {
                    "type": "string"
                },
                "proveedor_id": {
                    "type": "string"
                },
                "unidad_medida": {
                    "type": "string"
                },
                "precio_compra": {
                    "type": "string",
                    "example": "0"
                },
                "margen": {
                    "type": "string",
                    "example": "0"
                },
                "iva": {
                    "type": "integer"
                },
                "stock_minimo": {
                    "type": "integer"
                },
                "fecha_vencimiento": {
                    "type": "string"
                }
            },
            "required": [
                "codigo",
                "nombre",
                "unidad_medida"
            ]
        },
        "dto.CrearUsuarioRequest": {
            "type": "object",
            "properties": {
                "username": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "es_staff": {
                    "type": "boolean"
                },
                "empleado_id": {
                    "type": "string"
                },
                "rol_ids": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            },
            "required": [
                "email",
                "username"
            ]
        },
        "dto.DashboardResponse": {
            "type": "object",
            "properties": {
                "productos_activos": {
                    "type": "integer"
                },
                "bajo_minimo": {
                    "type": "integer"
                },
                "pedidos_pendientes": {
                    "type": "integer"
                },
                "facturas_pendientes": {
                    "type": "integer"
                },
                "ventas_hoy": {
                    "type": "string",
                    "example": "0"
                },
                "caja_abierta": {
                    "type": "boolean"
                }
            }
        },
        "dto.DetalleFacturaRequest": {
            "type": "object",
            "properties": {
                "producto_id": {
                    "type": "string"
                },
                "cantidad": {
                    "type": "integer"
                },
                "precio_unitario": {
                    "type": "string",
                    "example": "0"
                }
            },
            "required": [
                "cantidad",
                "producto_id"
            ]
        },
        "dto.DetalleFacturaResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "producto_id": {
                    "type": "string"
                },
                "descripcion": {
                    "type": "string"
                },
                "cantidad": {
                    "type": "integer"
                },
                "precio_unitario": {
                    "type": "string",
                    "example": "0"
                },
                "iva_aplicado": {
                    "type": "integer"
                },
                "subtotal": {
                    "type": "string",
                    "example": "0"
                }
            }
        },
        "dto.DetalleOrdenRequest": {
            "type": "object",
            "properties": {
                "producto_id": {
                    "type": "string"
                },
                "cantidad": {
                    "type": "integer"
                },
                "precio_unitario": {
                    "type": "string",
                    "example": "0"
                }
            },
            "required": [
                "cantidad",
                "producto_id"
            ]
        },
        "dto.DetalleOrdenResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "producto_id": {
                    "type": "string"
                },
                "producto": {
                    "type": "string"
                },
                "cantidad": {
                    "type": "integer"
                },
                "precio_unitario": {
                    "type": "string",
                    "example": "0"
                },
                "subtotal": {
                    "type": "string",
                    "example": "0"
                }
            }
        },
        "dto.DetallePedidoRequest": {
            "type": "object",
            "properties": {
                "producto_id": {
                    "type": "string"
                },
                "cantidad": {
                    "type": "integer"
                },
                "precio_unitario": {
                    "type": "string",
                    "example": "0"
                }
            },
            "required": [
                "cantidad",
                "producto_id"
            ]
        },
        "dto.DetallePedidoResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "producto_id": {
                    "type": "string"
                },
                "producto": {
                    "type": "string"
                },
                "cantidad": {
                    "type": "integer"
                },
                "precio_unitario": {
                    "type": "string",
                    "example": "0"
                },
                "subtotal": {
                    "type": "string",
                    "example": "0"
                }
            }
        },
        "dto.EmpleadoDetalle": {
            "type": "object",
            "properties": {
                "fecha_contratacion": {
                    "type": "string"
                },
                "cargo": {
                    "type": "string"
                },
                "sucursal": {
                    "type": "string"
                },
                "salario": {
                    "type": "string",
                    "example": "0"
                },
                "genero": {
                    "type": "string"
                },
                "fecha_nacimiento": {
                    "type": "string"
                },
                "grupo_sanguineo": {
                    "type": "string"
                },
                "barrio": {
                    "type": "string"
                },
                "departamento": {
                    "type": "string"
                },
                "pais": {
                    "type": "string"
                },
                "codigo_postal": {
                    "type": "string"
                }
            }
        },
        "dto.EmpleadoRequest": {
            "type": "object",
            "properties": {
                "documento": {
                    "type": "string"
                },
                "ruc": {
                    "type": "string"
                },
                "nombre": {
                    "type": "string"
                },
                "apellido": {
                    "type": "string"
                },
                "telefono": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "direccion": {
                    "type": "string"
                },
                "ciudad": {
                    "type": "string"
                },
                "fecha_contratacion": {
                    "type": "string"
                },
                "cargo": {
                    "type": "string"
                },
                "sucursal": {
                    "type": "string"
                },
                "salario": {
                    "type": "string",
                    "example": "0"
                },
                "genero": {
                    "type": "string"
                },
                "fecha_nacimiento": {
                    "type": "string"
                },
                "grupo_sanguineo": {
                    "type": "string"
                },
                "barrio": {
                    "type": "string"
                },
                "departamento": {
                    "type": "string"
                },
                "pais": {
                    "type": "string"
                },
                "codigo_postal": {
                    "type": "string"
                }
            },
            "required": [
                "apellido",
                "cargo",
                "fecha_contratacion",
                "nombre"
            ]
        },
        "dto.EnviarFacturaResponse": {
            "type": "object",
            "properties": {
                "encolado": {
                    "type": "boolean"
                },
                "destinatario": {
                    "type": "string"
                }
            }
        },
        "dto.FacturaResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "numero": {
                    "type": "string"
                },
                "timbrado": {
                    "type": "string"
                },
                "cliente": {
                    "$ref": "#/definitions/dto.PersonaResumen"
                },
                "pedido_id": {
                    "type": "string"
                },
                "fecha": {
                    "type": "string"
                },
                "condicion_venta": {
                    "type": "string"
                },
                "estado": {
                    "type": "string"
                },
                "observacion": {
                    "type": "string"
                },
                "total": {
                    "type": "string",
                    "example": "0"
                },
                "total_exenta": {
                    "type": "string",
                    "example": "0"
                },
                "total_iva5": {
                    "type": "string",
                    "example": "0"
                },
                "total_iva10": {
                    "type": "string",
                    "example": "0"
                },
                "liquidacion_iva5": {
                    "type": "string",
                    "example": "0"
                },
                "liquidacion_iva10": {
                    "type": "string",
                    "example": "0"
                },
                "detalles": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.DetalleFacturaResponse"
                    }
                }
            }
        },
        "dto.GenerarFacturaRequest": {
            "type": "object",
            "properties": {
                "pedido_id": {
                    "type": "string"
                },
                "condicion_venta": {
                    "type": "string"
                }
            },
            "required": [
                "pedido_id"
            ]
        },
        "dto.InventarioResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "producto_id": {
                    "type": "string"
                },
                "codigo": {
                    "type": "string"
                },
                "producto": {
                    "type": "string"
                },
                "almacen_id": {
                    "type": "string"
                },
                "almacen": {
                    "type": "string"
                },
                "cantidad": {
                    "type": "integer"
                }
            }
        },
        "dto.InventarioValorizadoItem": {
            "type": "object",
            "properties": {
                "almacen_id": {
                    "type": "string"
                },
                "almacen": {
                    "type": "string"
                },
                "producto_id": {
                    "type": "string"
                },
                "codigo": {
                    "type": "string"
                },
                "producto": {
                    "type": "string"
                },
                "cantidad": {
                    "type": "integer"
                },
                "precio_compra": {
                    "type": "string",
                    "example": "0"
                },
                "valor": {
                    "type": "string",
                    "example": "0"
                }
            }
        },
        "dto.InventarioValorizadoResponse": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.InventarioValorizadoItem"
                    }
                },
                "total_valor": {
                    "type": "string",
                    "example": "0"
                }
            }
        },
        "dto.ListResponse-dto_FacturaResponse": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.FacturaResponse"
                    }
                },
                "total": {
                    "type": "integer"
                },
                "page": {
                    "type": "integer"
                },
                "limit": {
                    "type": "integer"
                },
                "total_pages": {
                    "type": "integer"
                }
            }
        },
        "dto.ListResponse-dto_InventarioResponse": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.InventarioResponse"
                    }
                },
                "total": {
                    "type": "integer"
                },
                "page": {
                    "type": "integer"
                },
                "limit": {
                    "type": "integer"
                },
                "total_pages": {
                    "type": "integer"
                }
            }
        },
        "dto.ListResponse-dto_MovimientoResponse": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.MovimientoResponse"
                    }
                },
                "total": {
                    "type": "integer"
                },
                "page": {
                    "type": "integer"
                },
                "limit": {
                    "type": "integer"
                },
                "total_pages": {
                    "type": "integer"
                }
            }
        },
        "dto.ListResponse-dto_OrdenCompraResponse": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.OrdenCompraResponse"
                    }
                },
                "total": {
                    "type": "integer"
                },
                "page": {
                    "type": "integer"
                },
                "limit": {
                    "type": "integer"
                },
                "total_pages": {
                    "type": "integer"
                }
            }
        },
        "dto.ListResponse-dto_PedidoResponse": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.PedidoResponse"
                    }
                },
                "total": {
                    "type": "integer"
                },
                "page": {
                    "type": "integer"
                },
                "limit": {
                    "type": "integer"
                },
                "total_pages": {
                    "type": "integer"
                }
            }
        },
        "dto.ListResponse-dto_PermisoResponse": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.PermisoResponse"
                    }
                },
                "total": {
                    "type": "integer"
                },
                "page": {
                    "type": "integer"
                },
                "limit": {
                    "type": "integer"
                },
                "total_pages": {
                    "type": "integer"
                }
            }
        },
        "dto.ListResponse-dto_PersonaResponse": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.PersonaResponse"
                    }
                },
                "total": {
                    "type": "integer"
                },
                "page": {
                    "type": "integer"
                },
                "limit": {
                    "type": "integer"
                },
                "total_pages": {
                    "type": "integer"
                }
            }
        },
        "dto.ListResponse-dto_ProductoResponse": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.ProductoResponse"
                    }
                },
                "total": {
                    "type": "integer"
                },
                "page": {
                    "type": "integer"
                },
                "limit": {
                    "type": "integer"
                },
                "total_pages": {
                    "type": "integer"
                }
            }
        },
        "dto.ListResponse-dto_RolResponse": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.RolResponse"
                    }
                },
                "total": {
                    "type": "integer"
                },
                "page": {
                    "type": "integer"
                },
                "limit": {
                    "type": "integer"
                },
                "total_pages": {
                    "type": "integer"
                }
            }
        },
        "dto.ListResponse-dto_SesionCajaResponse": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.SesionCajaResponse"
                    }
                },
                "total": {
                    "type": "integer"
                },
                "page": {
                    "type": "integer"
                },
                "limit": {
                    "type": "integer"
                },
                "total_pages": {
                    "type": "integer"
                }
            }
        },
        "dto.ListResponse-dto_UsuarioResponse": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.UsuarioResponse"
                    }
                },
                "total": {
                    "type": "integer"
                },
                "page": {
                    "type": "integer"
                },
                "limit": {
                    "type": "integer"
                },
                "total_pages": {
                    "type": "integer"
                }
            }
        },
        "dto.LoginRequest": {
            "type": "object",
            "properties": {
                "username": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            },
            "required": [
                "password",
                "username"
            ]
        },
        "dto.LoginResponse": {
            "type": "object",
            "properties": {
                "access_token": {
                    "type": "string"
                },
                "refresh_token": {
                    "type": "string"
                },
                "token_type": {
                    "type": "string"
                },
                "expires_in": {
                    "type": "integer"
                },
                "user": {
                    "$ref": "#/definitions/dto.UsuarioResponse"
                }
            }
        },
        "dto.MovimientoCajaRequest": {
            "type": "object",
            "properties": {
                "tipo": {
                    "type": "string"
                },
                "monto": {
                    "type": "string",
                    "example": "0"
                },
                "descripcion": {
                    "type": "string"
                }
            },
            "required": [
                "descripcion",
                "tipo"
            ]
        },
        "dto.MovimientoCajaResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "tipo": {
                    "type": "string"
                },
                "monto": {
                    "type": "string",
                    "example": "0"
                },
                "descripcion": {
                    "type": "string"
                },
                "factura_id": {
                    "type": "string"
                },
                "usuario_id": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                }
            }
        },
        "dto.MovimientoRequest": {
            "type": "object",
            "properties": {
                "producto_id": {
                    "type": "string"
                },
                "almacen_id": {
                    "type": "string"
                },
                "tipo": {
                    "type": "string"
                },
                "cantidad": {
                    "type": "integer"
                },
                "observacion": {
                    "type": "string"
                }
            },
            "required": [
                "almacen_id",
                "cantidad",
                "producto_id",
                "tipo"
            ]
        },
        "dto.MovimientoResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "producto_id": {
                    "type": "string"
                },
                "producto": {
                    "type": "string"
                },
                "almacen_id": {
                    "type": "string"
                },
                "almacen": {
                    "type": "string"
                },
                "tipo": {
                    "type": "string"
                },
                "cantidad": {
                    "type": "integer"
                },
                "stock_anterior": {
                    "type": "integer"
                },
                "stock_nuevo": {
                    "type": "integer"
                },
                "observacion": {
                    "type": "string"
                },
                "usuario_id": {
                    "type": "string"
                },
                "orden_compra_id": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                }
            }
        },
        "dto.OrdenCompraResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "proveedor_id": {
                    "type": "string"
                },
                "proveedor": {
                    "type": "string"
                },
                "almacen_id": {
                    "type": "string"
                },
                "almacen": {
                    "type": "string"
                },
                "estado": {
                    "type": "string"
                },
                "nro_factura": {
                    "type": "string"
                },
                "fecha_entrega": {
                    "type": "string"
                },
                "observacion": {
                    "type": "string"
                },
                "total": {
                    "type": "string",
                    "example": "0"
                },
                "recibido_por_id": {
                    "type": "string"
                },
                "recibido_at": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                },
                "detalles": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.DetalleOrdenResponse"
                    }
                }
            }
        },
        "dto.PedidoResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "cliente": {
                    "$ref": "#/definitions/dto.PersonaResumen"
                },
                "estado": {
                    "type": "string"
                },
                "observacion": {
                    "type": "string"
                },
                "total": {
                    "type": "string",
                    "example": "0"
                },
                "factura_id": {
                    "type": "string"
                },
                "enviado_at": {
                    "type": "string"
                },
                "entregado_at": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                },
                "detalles": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.DetallePedidoResponse"
                    }
                }
            }
        },
        "dto.PerfilResponse": {
            "type": "object",
            "properties": {
                "usuario": {
                    "$ref": "#/definitions/dto.UsuarioResponse"
                },
                "empleado": {
                    "$ref": "#/definitions/dto.PersonaResumen"
                },
                "permisos": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "dto.PermisoRequest": {
            "type": "object",
            "properties": {
                "codigo": {
                    "type": "string"
                },
                "descripcion": {
                    "type": "string"
                }
            },
            "required": [
                "codigo",
                "descripcion"
            ]
        },
        "dto.PermisoResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "codigo": {
                    "type": "string"
                },
                "descripcion": {
                    "type": "string"
                },
                "activo": {
                    "type": "boolean"
                }
            }
        },
        "dto.PersonaRequest": {
            "type": "object",
            "properties": {
                "documento": {
                    "type": "string"
                },
                "ruc": {
                    "type": "string"
                },
                "nombre": {
                    "type": "string"
                },
                "apellido": {
                    "type": "string"
                },
                "telefono": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "direccion": {
                    "type": "string"
                },
                "ciudad": {
                    "type": "string"
                }
            },
            "required": [
                "apellido",
                "nombre"
            ]
        },
        "dto.PersonaResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "tipo": {
                    "type": "string"
                },
                "documento": {
                    "type": "string"
                },
                "ruc": {
                    "type": "string"
                },
                "nombre": {
                    "type": "string"
                },
                "apellido": {
                    "type": "string"
                },
                "nombre_completo": {
                    "type": "string"
                },
                "telefono": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "direccion": {
                    "type": "string"
                },
                "ciudad": {
                    "type": "string"
                },
                "activo": {
                    "type": "boolean"
                },
                "empleado": {
                    "$ref": "#/definitions/dto.EmpleadoDetalle"
                },
                "cliente": {
                    "$ref": "#/definitions/dto.ClienteDetalle"
                },
                "created_at": {
                    "type": "string"
                }
            }
        },
        "dto.PersonaResumen": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "nombre_completo": {
                    "type": "string"
                },
                "documento": {
                    "type": "string"
                },
                "ruc": {
                    "type": "string"
                }
            }
        },
        "dto.PrecioResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "producto_id": {
                    "type": "string"
                },
                "precio": {
                    "type": "string",
                    "example": "0"
                },
                "fecha_inicio": {
                    "type": "string"
                },
                "fecha_fin": {
                    "type": "string"
                },
                "vigente": {
                    "type": "boolean"
                }
            }
        },
        "dto.PrimerCambioRequest": {
            "type": "object",
            "properties": {
                "uid": {
                    "type": "string"
                },
                "token": {
                    "type": "string"
                },
                "password_temporal": {
                    "type": "string"
                },
                "password_nueva": {
                    "type": "string"
                }
            },
            "required": [
                "password_nueva",
                "password_temporal",
                "token",
                "uid"
            ]
        },
        "dto.ProductoResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "codigo": {
                    "type": "string"
                },
                "nombre": {
                    "type": "string"
                },
                "descripcion": {
                    "type": "string"
                },
                "categoria_id": {
                    "type": "string"
                },
                "categoria": {
                    "type": "string"
                },
                "marca_id": {
                    "type": "string"
                },
                "marca": {
                    "type": "string"
                },
                "proveedor_id": {
                    "type": "string"
                },
                "proveedor": {
                    "type": "string"
                },
                "unidad_medida": {
                    "type": "string"
                },
                "precio_compra": {
                    "type": "string",
                    "example": "0"
                },
                "margen": {
                    "type": "string",
                    "example": "0"
                },
                "iva": {
                    "type": "integer"
                },
                "precio_venta": {
                    "type": "string",
                    "example": "0"
                },
                "stock_minimo": {
                    "type": "integer"
                },
                "stock": {
                    "type": "integer"
                },
                "bajo_minimo": {
                    "type": "boolean"
                },
                "fecha_vencimiento": {
                    "type": "string"
                },
                "activo": {
                    "type": "boolean"
                }
            }
        },
        "dto.RecibirOrdenResponse": {
            "type": "object",
            "properties": {
                "orden": {
                    "$ref": "#/definitions/dto.OrdenCompraResponse"
                },
                "sin_cambios": {
                    "type": "boolean"
                },
                "movimientos": {
                    "type": "integer"
                }
            }
        },
        "dto.RefreshRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {
                    "type": "string"
                }
            },
            "required": [
                "refresh_token"
            ]
        },
        "dto.RolRequest": {
            "type": "object",
            "properties": {
                "nombre": {
                    "type": "string"
                },
                "descripcion": {
                    "type": "string"
                },
                "permiso_ids": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            },
            "required": [
                "nombre"
            ]
        },
        "dto.RolResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "nombre": {
                    "type": "string"
                },
                "descripcion": {
                    "type": "string"
                },
                "activo": {
                    "type": "boolean"
                },
                "permisos": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.PermisoResponse"
                    }
                }
            }
        },
        "dto.RolResumen": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "nombre": {
                    "type": "string"
                }
            }
        },
        "dto.SesionCajaResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "usuario_apertura_id": {
                    "type": "string"
                },
                "usuario_cierre_id": {
                    "type": "string"
                },
                "estado": {
                    "type": "string"
                },
                "monto_inicial": {
                    "type": "string",
                    "example": "0"
                },
                "saldo_actual": {
                    "type": "string",
                    "example": "0"
                },
                "monto_esperado": {
                    "type": "string",
                    "example": "0"
                },
                "monto_declarado": {
                    "type": "string",
                    "example": "0"
                },
                "diferencia": {
                    "type": "string",
                    "example": "0"
                },
                "clasificacion": {
                    "type": "string"
                },
                "observaciones": {
                    "type": "string"
                },
                "abierta_at": {
                    "type": "string"
                },
                "cerrada_at": {
                    "type": "string"
                },
                "movimientos": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.MovimientoCajaResponse"
                    }
                }
            }
        },
        "dto.ToggleResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "activo": {
                    "type": "boolean"
                }
            }
        },
        "dto.UsuarioResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "username": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "es_superusuario": {
                    "type": "boolean"
                },
                "es_staff": {
                    "type": "boolean"
                },
                "activo": {
                    "type": "boolean"
                },
                "debe_cambiar_password": {
                    "type": "boolean"
                },
                "ultimo_login": {
                    "type": "string"
                },
                "empleado_id": {
                    "type": "string"
                },
                "roles": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.RolResumen"
                    }
                }
            }
        },
        "dto.VentaDiaItem": {
            "type": "object",
            "properties": {
                "fecha": {
                    "type": "string"
                },
                "facturas": {
                    "type": "integer"
                },
                "total": {
                    "type": "string",
                    "example": "0"
                }
            }
        },
        "dto.VentasResponse": {
            "type": "object",
            "properties": {
                "desde": {
                    "type": "string"
                },
                "hasta": {
                    "type": "string"
                },
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.VentaDiaItem"
                    }
                },
                "total": {
                    "type": "string",
                    "example": "0"
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Bearer <access_token>",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Bodega Eirete API",
	Description:      "Inventario, compras, ventas, caja y personal de la bodega.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
