package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sibors/sibors-backend/internal/app/service"
	apperrors "github.com/sibors/sibors-backend/internal/errors"
	"github.com/sibors/sibors-backend/internal/middleware"
)

type AuditController struct {
	auditService service.AuditService
}

func NewAuditController(auditService service.AuditService) *AuditController {
	return &AuditController{auditService: auditService}
}

type StartAuditRequest struct {
	Notes string `json:"notes"`
}

type RecordCountRequest struct {
	VariantID uint `json:"variant_id" binding:"required"`
	Count     *int `json:"count" binding:"required"`
}

// StartAudit snapshots current stock for a physical count
// POST /api/v1/audits
func (ctrl *AuditController) StartAudit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req StartAuditRequest
	_ = c.ShouldBindJSON(&req)

	audit, err := ctrl.auditService.StartAudit(userID, req.Notes)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "start audit")
		return
	}

	log.Info("Audit started", map[string]interface{}{
		"audit_id": audit.ID,
		"user_id":  userID,
	})

	c.JSON(http.StatusCreated, gin.H{"audit": audit})
}

// GetInProgress returns the open audit or null
// GET /api/v1/audits/in-progress
func (ctrl *AuditController) GetInProgress(c *gin.Context) {
	audit, err := ctrl.auditService.GetInProgress()
	if err != nil {
		if errors.Is(err, service.ErrAuditNotFound) {
			c.JSON(http.StatusOK, gin.H{"audit": nil})
			return
		}
		apperrors.RespondWithServiceError(c, err, "audit in progress")
		return
	}

	c.JSON(http.StatusOK, gin.H{"audit": audit})
}

// GET /api/v1/audits
func (ctrl *AuditController) ListAudits(c *gin.Context) {
	audits, err := ctrl.auditService.ListAudits()
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "list audits")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"audits": audits,
		"count":  len(audits),
	})
}

// GET /api/v1/audits/:id
func (ctrl *AuditController) GetAudit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	audit, err := ctrl.auditService.GetAudit(id)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "get audit")
		return
	}

	c.JSON(http.StatusOK, gin.H{"audit": audit})
}

// RecordCount stores the counted units of one variant
// POST /api/v1/audits/:id/counts
func (ctrl *AuditController) RecordCount(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RecordCountRequest
	if !bindJSON(c, &req) {
		return
	}

	line, err := ctrl.auditService.RecordCount(id, req.VariantID, *req.Count)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "record audit count")
		return
	}

	c.JSON(http.StatusOK, gin.H{"line": line})
}

// FinalizeAudit adjusts stock to the counted quantities
// POST /api/v1/audits/:id/finalize
func (ctrl *AuditController) FinalizeAudit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	audit, err := ctrl.auditService.FinalizeAudit(id, userID)
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "finalize audit")
		return
	}

	log.Info("Audit finalized", map[string]interface{}{
		"audit_id": audit.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Auditoría finalizada",
		"audit":   audit,
	})
}

// POST /api/v1/audits/:id/cancel
func (ctrl *AuditController) CancelAudit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.auditService.CancelAudit(id); err != nil {
		apperrors.RespondWithServiceError(c, err, "cancel audit")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Auditoría cancelada"})
}
