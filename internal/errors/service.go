package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sibors/sibors-backend/internal/app/service"
	"github.com/sibors/sibors-backend/internal/storage"
	"github.com/sibors/sibors-backend/pkg/logger"
	"github.com/sibors/sibors-backend/pkg/util"
)

type serviceMapping struct {
	target error
	status int
	code   string
}

// serviceMappings is checked in order; the first errors.Is match wins.
var serviceMappings = []serviceMapping{
	// no encontrado
	{service.ErrTemplateNotFound, http.StatusNotFound, ResourceNotFound},
	{service.ErrVariantNotFound, http.StatusNotFound, ResourceNotFound},
	{service.ErrAttributeNotFound, http.StatusNotFound, ResourceNotFound},
	{service.ErrAttributeValueNotFound, http.StatusNotFound, ResourceNotFound},
	{service.ErrCategoryNotFound, http.StatusNotFound, ResourceNotFound},
	{service.ErrSupplierNotFound, http.StatusNotFound, ResourceNotFound},
	{service.ErrCustomerNotFound, http.StatusNotFound, ResourceNotFound},
	{service.ErrRoleNotFound, http.StatusNotFound, ResourceNotFound},
	{service.ErrUserNotFound, http.StatusNotFound, ResourceNotFound},
	{service.ErrPurchaseOrderNotFound, http.StatusNotFound, ResourceNotFound},
	{service.ErrSaleNotFound, http.StatusNotFound, ResourceNotFound},
	{service.ErrSaleLineNotFound, http.StatusNotFound, ResourceNotFound},
	{service.ErrAuditNotFound, http.StatusNotFound, ResourceNotFound},
	{service.ErrImageNotFound, http.StatusNotFound, ResourceNotFound},

	// importación, antes que las causas que envuelve
	{service.ErrInvalidImportRow, http.StatusBadRequest, ImportInvalidRow},
	{service.ErrImportFailed, http.StatusUnprocessableEntity, ImportFailed},

	// duplicados
	{service.ErrDuplicateTemplateName, http.StatusConflict, ResourceAlreadyExists},
	{service.ErrDuplicateSKU, http.StatusConflict, ResourceAlreadyExists},
	{service.ErrDuplicateBarcode, http.StatusConflict, ResourceAlreadyExists},
	{service.ErrDuplicateAttributeName, http.StatusConflict, ResourceAlreadyExists},
	{service.ErrDuplicateAttributeValue, http.StatusConflict, ResourceAlreadyExists},
	{service.ErrDuplicateCategoryName, http.StatusConflict, ResourceAlreadyExists},
	{service.ErrDuplicateSupplierName, http.StatusConflict, ResourceAlreadyExists},
	{service.ErrDuplicateSupplierEmail, http.StatusConflict, ResourceAlreadyExists},
	{service.ErrDuplicateCustomerEmail, http.StatusConflict, ResourceAlreadyExists},
	{service.ErrDuplicateCustomerRFC, http.StatusConflict, ResourceAlreadyExists},
	{service.ErrDuplicateRoleName, http.StatusConflict, ResourceAlreadyExists},
	{service.ErrDuplicateUsername, http.StatusConflict, ResourceAlreadyExists},

	// inventario
	{service.ErrNegativeStock, http.StatusUnprocessableEntity, StockNegative},
	{service.ErrInsufficientStock, http.StatusUnprocessableEntity, StockInsufficient},
	{service.ErrKitStockIsDerived, http.StatusUnprocessableEntity, StockKitDerived},
	{service.ErrZeroAdjustment, http.StatusBadRequest, StockInvalidAdjust},
	{service.ErrAdjustmentTooLarge, http.StatusBadRequest, StockInvalidAdjust},
	{service.ErrInvalidAdjustmentKind, http.StatusBadRequest, StockInvalidAdjust},
	{service.ErrAdjustmentDirection, http.StatusBadRequest, StockInvalidAdjust},
	{service.ErrTemplateHasStock, http.StatusConflict, StockStillPresent},
	{service.ErrVariantHasStock, http.StatusConflict, StockStillPresent},
	{service.ErrStockConflict, http.StatusConflict, ResourceConflict},

	// referencias
	{service.ErrVariantInUseByKit, http.StatusConflict, ResourceInUse},
	{service.ErrAttributeInUse, http.StatusConflict, ResourceInUse},
	{service.ErrAttributeValueInUse, http.StatusConflict, ResourceInUse},
	{service.ErrCategoryHasChildren, http.StatusConflict, ResourceInUse},
	{service.ErrCategoryHasTemplates, http.StatusConflict, ResourceInUse},
	{service.ErrSupplierHasTemplates, http.StatusConflict, ResourceInUse},
	{service.ErrCustomerHasSales, http.StatusConflict, ResourceInUse},
	{service.ErrRoleInUse, http.StatusConflict, ResourceInUse},
	{service.ErrCategoryCycle, http.StatusBadRequest, ValidationInvalidInput},
	{service.ErrInvalidTemplateShape, http.StatusBadRequest, ValidationInvalidInput},
	{service.ErrInvalidKitComponent, http.StatusBadRequest, ValidationInvalidInput},
	{service.ErrKindChange, http.StatusBadRequest, ValidationInvalidInput},

	// estados
	{service.ErrEmptyOrder, http.StatusBadRequest, StateEmpty},
	{service.ErrEmptySale, http.StatusBadRequest, StateEmpty},
	{service.ErrEmptyAudit, http.StatusBadRequest, StateEmpty},
	{service.ErrOrderNotPending, http.StatusConflict, StateNotPending},
	{service.ErrSaleNotInProgress, http.StatusConflict, StateNotInProgress},
	{service.ErrAuditNotInProgress, http.StatusConflict, StateNotInProgress},
	{service.ErrAuditInProgress, http.StatusConflict, StateInProgress},
	{service.ErrInsufficientPayment, http.StatusUnprocessableEntity, StatePayment},
	{service.ErrInvalidPayment, http.StatusBadRequest, StatePayment},

	// usuarios
	{service.ErrInvalidCredentials, http.StatusUnauthorized, AuthInvalidCredentials},
	{service.ErrUserStillActive, http.StatusConflict, StateGracePeriod},
	{service.ErrDeactivationTooRecent, http.StatusConflict, StateGracePeriod},
	{service.ErrCannotDeleteAdmin, http.StatusForbidden, AuthzAdminProtected},
	{util.ErrExpiredToken, http.StatusUnauthorized, AuthTokenExpired},
	{util.ErrInvalidToken, http.StatusUnauthorized, AuthTokenInvalid},

	// formato
	{service.ErrNameRequired, http.StatusBadRequest, ValidationRequired},
	{service.ErrSKURequired, http.StatusBadRequest, ValidationRequired},
	{service.ErrPasswordRequired, http.StatusBadRequest, ValidationRequired},
	{service.ErrNameTooShort, http.StatusBadRequest, ValidationTooShort},
	{service.ErrConceptTooShort, http.StatusBadRequest, ValidationTooShort},
	{service.ErrInvalidEmail, http.StatusBadRequest, ValidationInvalidFormat},
	{service.ErrInvalidRFC, http.StatusBadRequest, ValidationInvalidFormat},
	{service.ErrInvalidCURP, http.StatusBadRequest, ValidationInvalidFormat},
	{service.ErrInvalidColorCode, http.StatusBadRequest, ValidationInvalidFormat},
	{service.ErrInvalidQuantity, http.StatusBadRequest, ValidationInvalidRange},
	{service.ErrInvalidPrice, http.StatusBadRequest, ValidationInvalidRange},
	{service.ErrInvalidAmount, http.StatusBadRequest, ValidationInvalidRange},
	{service.ErrInvalidStatus, http.StatusBadRequest, ValidationInvalidInput},
	{service.ErrValidation, http.StatusBadRequest, ValidationInvalidInput},

	// imágenes
	{storage.ErrUnsupportedImage, http.StatusBadRequest, UploadInvalidFileType},
}

// ClassifyServiceError returns the status and code for a service error.
// Unknown errors report ok=false.
func ClassifyServiceError(err error) (status int, code string, ok bool) {
	for _, m := range serviceMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code, true
		}
	}
	return 0, "", false
}

// RespondWithServiceError maps a service error to its HTTP reply. Known
// errors carry their own Spanish message; anything else is parsed as a
// storage error and logged.
func RespondWithServiceError(c *gin.Context, err error, context string) {
	if status, code, ok := ClassifyServiceError(err); ok {
		RespondWithError(c, status, code, err.Error())
		return
	}
	logger.Error("Unhandled service error", err, map[string]interface{}{
		"context": context,
		"path":    c.Request.URL.Path,
	})
	ParseAndRespond(c, http.StatusInternalServerError, err, context)
}
