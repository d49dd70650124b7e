package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs a response code with the message shown to the user
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError turns a storage error into a safe code and message. Driver
// details stay in the logs; the user gets enough to fix the input.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Ocurrió un error en el servidor",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. Restricciones (PostgreSQL y SQLite)

	// 2-1. Unique (23505 / UNIQUE constraint failed)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// 2-2. Foreign key (23503 / FOREIGN KEY constraint failed)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr)
	}

	// 2-3. Not null (23502 / NOT NULL constraint failed)
	if strings.Contains(errStrLower, "not-null constraint") || strings.Contains(errStrLower, "not null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "Falta un campo obligatorio",
		}
	}

	// 2-4. Check (23514)
	if strings.Contains(errStrLower, "check constraint") {
		return ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: "Los datos enviados no son válidos",
		}
	}

	// 3. Conexión
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "database is locked") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "La base de datos no está disponible. Intente de nuevo más tarde",
		}
	}

	// 4. Por defecto
	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	switch {
	case strings.Contains(errLower, "sku"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "El SKU ya está registrado"}
	case strings.Contains(errLower, "barcode"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "El código de barras ya está registrado"}
	case strings.Contains(errLower, "username"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "El nombre de usuario ya está en uso"}
	case strings.Contains(errLower, "email"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "El email ya está registrado"}
	case strings.Contains(errLower, "rfc"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "El RFC ya está registrado"}
	case strings.Contains(errLower, "name"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Ya existe un registro con ese nombre"}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "El registro ya existe",
	}
}

func parseForeignKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	// borrado de una fila todavía referenciada
	if strings.Contains(errLower, "still referenced") || strings.Contains(errLower, "on delete") {
		return ErrorInfo{
			Code:    ResourceInUse,
			Message: "El registro tiene datos asociados y no se puede eliminar",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "El registro referenciado no existe",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "template") || strings.Contains(contextLower, "variant"):
		return "El producto no existe"
	case strings.Contains(contextLower, "user"):
		return "El usuario no existe"
	case strings.Contains(contextLower, "sale"):
		return "La venta no existe"
	case strings.Contains(contextLower, "purchase"):
		return "La orden de compra no existe"
	case strings.Contains(contextLower, "audit"):
		return "La auditoría no existe"
	}
	return "El registro solicitado no existe"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "Ocurrió un error al registrar. Intente de nuevo más tarde"
	case strings.Contains(contextLower, "update"):
		return "Ocurrió un error al guardar los cambios. Intente de nuevo más tarde"
	case strings.Contains(contextLower, "delete"):
		return "Ocurrió un error al eliminar. Intente de nuevo más tarde"
	case strings.Contains(contextLower, "import"):
		return "Ocurrió un error durante la importación. Intente de nuevo más tarde"
	}
	return "Ocurrió un error en el servidor. Intente de nuevo más tarde"
}

// ParseAndRespond parses err and writes the reply with statusCode
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
