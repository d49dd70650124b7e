package errors

// Códigos de error expuestos al frontend
// Formato: CATEGORIA_DETALLE
// El frontend puede mapear el código o mostrar el mensaje tal cual

const (
	// ==================== Autenticación (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // sesión requerida
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // usuario o contraseña incorrectos
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // token vencido
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // token mal formado
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // sesión cerrada

	// ==================== Autorización (AUTHZ_) ====================
	AuthzForbidden      = "AUTHZ_FORBIDDEN"       // sin permiso sobre el módulo
	AuthzAdminOnly      = "AUTHZ_ADMIN_ONLY"      // sólo administradores
	AuthzAdminProtected = "AUTHZ_ADMIN_PROTECTED" // el rol Admin no se modifica

	// ==================== Validación (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // cuerpo inválido
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // id inválido en la ruta
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // RFC, CURP, email, color
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"  // cantidades y montos
	ValidationTooShort      = "VALIDATION_TOO_SHORT"      // nombre o concepto corto
	ValidationRequired      = "VALIDATION_REQUIRED"       // campo obligatorio

	// ==================== Recursos (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // no existe
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // nombre, SKU o email duplicado
	ResourceInUse         = "RESOURCE_IN_USE"         // referenciado por otros registros
	ResourceConflict      = "RESOURCE_CONFLICT"       // cambió durante la operación

	// ==================== Inventario (STOCK_) ====================
	StockNegative      = "STOCK_NEGATIVE"       // el ajuste dejaría stock negativo
	StockInsufficient  = "STOCK_INSUFFICIENT"   // no alcanza para la venta
	StockKitDerived    = "STOCK_KIT_DERIVED"    // el stock de un kit no se ajusta
	StockInvalidAdjust = "STOCK_INVALID_ADJUST" // tipo o signo de ajuste inválido
	StockStillPresent  = "STOCK_STILL_PRESENT"  // no se elimina con existencias

	// ==================== Operaciones (STATE_) ====================
	StateNotPending    = "STATE_NOT_PENDING"     // orden de compra ya procesada
	StateNotInProgress = "STATE_NOT_IN_PROGRESS" // venta o auditoría cerrada
	StateInProgress    = "STATE_IN_PROGRESS"     // ya hay una auditoría abierta
	StateEmpty         = "STATE_EMPTY"           // sin líneas
	StatePayment       = "STATE_PAYMENT"         // pago insuficiente o inválido
	StateGracePeriod   = "STATE_GRACE_PERIOD"    // usuario desactivado hace poco

	// ==================== Importación (IMPORT_) ====================
	ImportFailed      = "IMPORT_FAILED"       // se revirtió la importación
	ImportInvalidFile = "IMPORT_INVALID_FILE" // archivo ilegible
	ImportInvalidRow  = "IMPORT_INVALID_ROW"  // fila confirmada que no cumple las reglas

	// ==================== Carga de archivos (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // formato no permitido
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"    // excede el límite
	UploadFailed          = "UPLOAD_FAILED"            // error al guardar

	// ==================== Interno (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // error inesperado
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // error de base de datos
)
