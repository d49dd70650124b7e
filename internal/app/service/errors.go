package service

import "errors"

// Sentinel errors shared by the services. Messages are user facing; callers
// add detail with fmt.Errorf("%w: ...") so errors.Is keeps matching.

// Not found
var (
	ErrTemplateNotFound       = errors.New("la plantilla no existe")
	ErrVariantNotFound        = errors.New("la variante no existe")
	ErrAttributeNotFound      = errors.New("el atributo no existe")
	ErrAttributeValueNotFound = errors.New("el valor de atributo no existe")
	ErrCategoryNotFound       = errors.New("la categoría no existe")
	ErrSupplierNotFound       = errors.New("el proveedor no existe")
	ErrCustomerNotFound       = errors.New("el cliente no existe")
	ErrRoleNotFound           = errors.New("el rol no existe")
	ErrUserNotFound           = errors.New("el usuario no existe")
	ErrPurchaseOrderNotFound  = errors.New("la orden de compra no existe")
	ErrSaleNotFound           = errors.New("la venta no existe")
	ErrSaleLineNotFound       = errors.New("la línea de venta no existe")
	ErrAuditNotFound          = errors.New("la auditoría no existe")
	ErrImageNotFound          = errors.New("la imagen no existe")
)

// Uniqueness
var (
	ErrDuplicateTemplateName   = errors.New("ya existe una plantilla con ese nombre")
	ErrDuplicateSKU            = errors.New("el SKU ya está registrado")
	ErrDuplicateBarcode        = errors.New("el código de barras ya está registrado")
	ErrDuplicateAttributeName  = errors.New("ya existe un atributo con ese nombre")
	ErrDuplicateAttributeValue = errors.New("el valor ya existe para este atributo")
	ErrDuplicateCategoryName   = errors.New("ya existe una categoría con ese nombre")
	ErrDuplicateSupplierName   = errors.New("ya existe un proveedor con ese nombre")
	ErrDuplicateSupplierEmail  = errors.New("el email del proveedor ya está registrado")
	ErrDuplicateCustomerEmail  = errors.New("el email del cliente ya está registrado")
	ErrDuplicateCustomerRFC    = errors.New("el RFC del cliente ya está registrado")
	ErrDuplicateRoleName       = errors.New("ya existe un rol con ese nombre")
	ErrDuplicateUsername       = errors.New("el nombre de usuario ya está en uso")
)

// Invariants
var (
	ErrNegativeStock         = errors.New("el ajuste resultaría en stock negativo")
	ErrZeroAdjustment        = errors.New("la cantidad del ajuste no puede ser cero")
	ErrAdjustmentTooLarge    = errors.New("el ajuste excede el límite de unidades permitido")
	ErrInvalidAdjustmentKind = errors.New("tipo de ajuste no válido")
	ErrAdjustmentDirection   = errors.New("el signo de la cantidad no corresponde al tipo de ajuste")
	ErrKitStockIsDerived     = errors.New("el stock de un kit se calcula a partir de sus componentes")
	ErrStockConflict         = errors.New("el stock cambió durante la operación, intente de nuevo")
	ErrInsufficientStock     = errors.New("stock insuficiente")
	ErrTemplateHasStock      = errors.New("no se puede eliminar el producto porque aún tiene existencias en el inventario")
	ErrVariantHasStock       = errors.New("no se puede eliminar una variante con existencias")
	ErrVariantInUseByKit     = errors.New("la variante es componente de un kit")
	ErrInvalidTemplateShape  = errors.New("la estructura de variantes no corresponde al tipo de producto")
	ErrInvalidKitComponent   = errors.New("componente de kit no válido")
	ErrKindChange            = errors.New("el tipo de producto no puede cambiarse")
	ErrAttributeInUse        = errors.New("el atributo está en uso por al menos una variante")
	ErrAttributeValueInUse   = errors.New("el valor está en uso por al menos una variante")
	ErrCategoryHasChildren   = errors.New("la categoría tiene subcategorías")
	ErrCategoryHasTemplates  = errors.New("la categoría tiene productos asociados")
	ErrCategoryCycle         = errors.New("una categoría no puede ser su propia ascendiente")
	ErrSupplierHasTemplates  = errors.New("el proveedor tiene productos asociados")
	ErrCustomerHasSales      = errors.New("el cliente tiene ventas asociadas")
	ErrRoleInUse             = errors.New("el rol está asignado a usuarios")
	ErrEmptyOrder            = errors.New("la orden de compra no tiene productos")
	ErrOrderNotPending       = errors.New("la orden de compra no está pendiente")
	ErrSaleNotInProgress     = errors.New("la venta no está en progreso")
	ErrEmptySale             = errors.New("la venta no tiene productos")
	ErrInsufficientPayment   = errors.New("el pago es insuficiente")
	ErrAuditInProgress       = errors.New("ya existe una auditoría en progreso")
	ErrAuditNotInProgress    = errors.New("la auditoría no está en progreso")
	ErrEmptyAudit            = errors.New("no se puede finalizar una auditoría sin productos contados")
	ErrInvalidCredentials    = errors.New("usuario o contraseña incorrectos")
	ErrUserStillActive       = errors.New("sólo se pueden eliminar usuarios inactivos")
	ErrCannotDeleteAdmin     = errors.New("no se puede eliminar a un administrador")
	ErrDeactivationTooRecent = errors.New("el usuario debe llevar al menos 30 días desactivado")
	ErrImportFailed          = errors.New("la importación falló y fue revertida")
	ErrInvalidImportRow      = errors.New("la fila de importación no es válida")
)

// Format validation
var (
	ErrValidation       = errors.New("datos no válidos")
	ErrNameRequired     = errors.New("el nombre es obligatorio")
	ErrNameTooShort     = errors.New("el nombre debe tener al menos 3 caracteres")
	ErrConceptTooShort  = errors.New("el concepto debe tener al menos 3 caracteres")
	ErrSKURequired      = errors.New("el SKU es obligatorio")
	ErrInvalidEmail     = errors.New("el email no es válido")
	ErrInvalidRFC       = errors.New("el RFC no es válido")
	ErrInvalidCURP      = errors.New("la CURP no es válida")
	ErrInvalidColorCode = errors.New("el código de color debe tener el formato #RRGGBB")
	ErrInvalidQuantity  = errors.New("la cantidad debe ser mayor que cero")
	ErrInvalidPrice     = errors.New("el precio no puede ser negativo")
	ErrInvalidAmount    = errors.New("el monto debe ser mayor que cero")
	ErrInvalidPayment   = errors.New("método de pago no válido")
	ErrInvalidStatus    = errors.New("estado no válido")
	ErrPasswordRequired = errors.New("la contraseña es obligatoria")
)
