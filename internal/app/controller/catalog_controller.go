package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sibors/sibors-backend/internal/app/service"
	apperrors "github.com/sibors/sibors-backend/internal/errors"
	"github.com/sibors/sibors-backend/internal/middleware"
)

// maxImportSize caps catalog uploads
const maxImportSize = 10 << 20

type CatalogController struct {
	catalogService service.CatalogIOService
}

func NewCatalogController(catalogService service.CatalogIOService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

type ExecuteImportRequest struct {
	Rows []service.ImportRow `json:"rows" binding:"required"`
}

// ExportCSV downloads the whole catalog, one row per variant
// GET /api/v1/catalog/export
func (ctrl *CatalogController) ExportCSV(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var buf bytes.Buffer
	if err := ctrl.catalogService.ExportCSV(&buf); err != nil {
		apperrors.RespondWithServiceError(c, err, "export catalog")
		return
	}

	filename := fmt.Sprintf("catalogo_%s.csv", time.Now().Format("20060102"))
	log.Info("Catalog exported", map[string]interface{}{
		"bytes": buf.Len(),
	})

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// AnalyzeImport validates an uploaded CSV or XLSX file without writing
// anything. The optional sheet form field picks the XLSX sheet.
// POST /api/v1/catalog/import/analyze
func (ctrl *CatalogController) AnalyzeImport(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ImportInvalidFile, "Adjunte un archivo CSV o XLSX en el campo file")
		return
	}
	if fileHeader.Size > maxImportSize {
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "El archivo excede el tamaño máximo de 10 MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded catalog", err, map[string]interface{}{
			"filename": fileHeader.Filename,
		})
		apperrors.BadRequest(c, apperrors.ImportInvalidFile, "No se pudo leer el archivo")
		return
	}
	defer file.Close()

	var rows []service.ImportRow
	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".csv":
		rows, err = ctrl.catalogService.AnalyzeCSV(c.Request.Context(), file)
	case ".xlsx":
		rows, err = ctrl.catalogService.AnalyzeXLSX(c.Request.Context(), file, c.PostForm("sheet"))
	default:
		apperrors.BadRequest(c, apperrors.ImportInvalidFile, "Sólo se aceptan archivos .csv o .xlsx")
		return
	}
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "analyze import")
		return
	}

	counts := map[service.ImportStatus]int{}
	for _, r := range rows {
		counts[r.Status]++
	}

	log.Info("Catalog import analyzed", map[string]interface{}{
		"filename": fileHeader.Filename,
		"rows":     len(rows),
		"errors":   counts[service.ImportError],
	})

	c.JSON(http.StatusOK, gin.H{
		"rows": rows,
		"summary": gin.H{
			"total":  len(rows),
			"new":    counts[service.ImportNew],
			"update": counts[service.ImportUpdate],
			"error":  counts[service.ImportError],
		},
	})
}

// ExecuteImport applies analyzed rows in one transaction. Rows marked as
// errors are skipped.
// POST /api/v1/catalog/import/execute
func (ctrl *CatalogController) ExecuteImport(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ExecuteImportRequest
	if !bindJSON(c, &req) {
		return
	}

	summary, err := ctrl.catalogService.Execute(c.Request.Context(), req.Rows, currentUserID(c))
	if err != nil {
		apperrors.RespondWithServiceError(c, err, "execute import")
		return
	}

	log.Info("Catalog import executed", map[string]interface{}{
		"templates_created": summary.TemplatesCreated,
		"variants_created":  summary.VariantsCreated,
		"variants_updated":  summary.VariantsUpdated,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Importación completada",
		"summary": summary,
	})
}
