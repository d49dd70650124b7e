package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/app/repository"
	"github.com/sibors/sibors-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const (
	importNewReason    = "Importación masiva desde CSV"
	importAdjustReason = "Ajuste por importación masiva desde CSV"
	utf8BOM            = "\ufeff"
	listSeparator      = " | "
)

// Catalog exchange columns, in file order.
const (
	colTemplateName = "plantilla_nombre"
	colCategoryPath = "categoria_ruta"
	colSupplierName = "proveedor_nombre"
	colKind         = "tipo_producto"
	colSKU          = "variante_sku"
	colPrice        = "variante_precio"
	colCost         = "variante_costo"
	colStock        = "variante_stock"
	colAttributes   = "variante_atributos"
	colComponents   = "kit_componentes"
)

var CatalogHeader = []string{
	colTemplateName, colCategoryPath, colSupplierName, colKind, colSKU,
	colPrice, colCost, colStock, colAttributes, colComponents,
}

type ImportStatus string

const (
	ImportError  ImportStatus = "ERROR"
	ImportNew    ImportStatus = "OK_NUEVO"
	ImportUpdate ImportStatus = "OK_ACTUALIZAR"
)

type AttributePair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ImportData is a parsed catalog row.
type ImportData struct {
	TemplateName string              `json:"template_name"`
	CategoryPath string              `json:"category_path"`
	SupplierName string              `json:"supplier_name"`
	SKU          string              `json:"sku"`
	Price        decimal.Decimal     `json:"price"`
	Cost         decimal.NullDecimal `json:"cost"`
	Stock        int                 `json:"stock"`
	Attributes   []AttributePair     `json:"attributes,omitempty"`
}

type ImportRow struct {
	RowNumber int          `json:"row_number"` // the header is row 1
	Data      ImportData   `json:"data"`
	Status    ImportStatus `json:"status"`
	Errors    []string     `json:"errors,omitempty"`
}

type ImportSummary struct {
	TemplatesCreated int `json:"templates_created"`
	VariantsCreated  int `json:"variants_created"`
	VariantsUpdated  int `json:"variants_updated"`
	StockAdjustments int `json:"stock_adjustments"`
	RowsSkipped      int `json:"rows_skipped"`
}

// RowSource yields raw records, header first, then io.EOF. *csv.Reader satisfies it.
type RowSource interface {
	Read() ([]string, error)
}

type CatalogIOService interface {
	ExportCSV(w io.Writer) error
	Analyze(ctx context.Context, source RowSource) ([]ImportRow, error)
	AnalyzeCSV(ctx context.Context, r io.Reader) ([]ImportRow, error)
	// AnalyzeXLSX reads the named sheet, or the first one when sheet is empty.
	AnalyzeXLSX(ctx context.Context, r io.Reader, sheet string) ([]ImportRow, error)
	Execute(ctx context.Context, rows []ImportRow, userID *uint) (*ImportSummary, error)
}

type catalogIOService struct {
	db            *gorm.DB
	productRepo   repository.ProductRepository
	attributeRepo repository.AttributeRepository
	categoryRepo  repository.CategoryRepository
	supplierRepo  repository.SupplierRepository
	stockService  StockService
	publisher     StockPublisher
}

func NewCatalogIOService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	attributeRepo repository.AttributeRepository,
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
	stockService StockService,
	publisher StockPublisher,
) CatalogIOService {
	return &catalogIOService{
		db:            db,
		productRepo:   productRepo,
		attributeRepo: attributeRepo,
		categoryRepo:  categoryRepo,
		supplierRepo:  supplierRepo,
		stockService:  stockService,
		publisher:     publisher,
	}
}

// ExportCSV writes one row per variant, templates by name and variants by id.
func (s *catalogIOService) ExportCSV(w io.Writer) error {
	templates, err := s.productRepo.FindTemplates(repository.TemplateFilter{})
	if err != nil {
		return err
	}
	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		return err
	}
	byID := indexCategories(categories)

	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(CatalogHeader); err != nil {
		return err
	}

	rows := 0
	for _, t := range templates {
		path := ""
		if t.CategoryID != nil {
			path = strings.Join(categoryPath(byID, *t.CategoryID), CategoryPathSeparator)
		}
		supplierName := ""
		if t.Supplier != nil {
			supplierName = t.Supplier.CompanyName
		}
		components := ""
		if t.IsKit() {
			components = formatComponents(t.Components)
		}

		for _, v := range t.Variants {
			cost := ""
			if v.PurchaseCost.Valid {
				cost = v.PurchaseCost.Decimal.StringFixed(2)
			}
			record := []string{
				t.Name,
				path,
				supplierName,
				t.Kind.Label(),
				v.SKU,
				v.SalePrice.StringFixed(2),
				cost,
				strconv.Itoa(v.Stock),
				formatAttributes(v.Values),
				components,
			}
			if err := writer.Write(record); err != nil {
				return err
			}
			rows++
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		logger.Error("Failed to write catalog CSV", err)
		return err
	}

	logger.Info("Catalog exported", map[string]interface{}{
		"templates": len(templates),
		"rows":      rows,
	})
	return nil
}

func formatAttributes(values []model.AttributeValue) string {
	pairs := make([]string, 0, len(values))
	for _, v := range values {
		name := ""
		if v.Attribute != nil {
			name = v.Attribute.Name
		}
		pairs = append(pairs, name+":"+v.Value)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, listSeparator)
}

func formatComponents(components []model.KitComponent) string {
	pairs := make([]string, 0, len(components))
	for _, c := range components {
		if c.Component == nil {
			continue
		}
		pairs = append(pairs, fmt.Sprintf("%s:%d", c.Component.SKU, c.Quantity))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, listSeparator)
}

// importCache holds the catalog as seen before any row is applied.
type importCache struct {
	categories map[string]bool
	suppliers  map[string]bool
	attributes map[string]map[string]bool // attribute -> values, lowercased
	variants   map[string]model.Variant   // lowercased SKU
	templates  map[string]model.TemplateKind
}

func (s *catalogIOService) loadCache() (*importCache, error) {
	cache := &importCache{
		categories: make(map[string]bool),
		suppliers:  make(map[string]bool),
		attributes: make(map[string]map[string]bool),
		variants:   make(map[string]model.Variant),
		templates:  make(map[string]model.TemplateKind),
	}

	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		cache.categories[strings.ToLower(c.Name)] = true
	}

	suppliers, err := s.supplierRepo.FindAll("")
	if err != nil {
		return nil, err
	}
	for _, sup := range suppliers {
		cache.suppliers[strings.ToLower(sup.CompanyName)] = true
	}

	attributes, err := s.attributeRepo.FindAll()
	if err != nil {
		return nil, err
	}
	for _, a := range attributes {
		values := make(map[string]bool, len(a.Values))
		for _, v := range a.Values {
			values[strings.ToLower(v.Value)] = true
		}
		cache.attributes[strings.ToLower(a.Name)] = values
	}

	variants, err := s.productRepo.FindVariants("")
	if err != nil {
		return nil, err
	}
	for _, v := range variants {
		cache.variants[strings.ToLower(v.SKU)] = v
		if v.Template != nil {
			cache.templates[strings.ToLower(v.Template.Name)] = v.Template.Kind
		}
	}
	return cache, nil
}

func (s *catalogIOService) AnalyzeCSV(ctx context.Context, r io.Reader) ([]ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return s.Analyze(ctx, reader)
}

func (s *catalogIOService) AnalyzeXLSX(ctx context.Context, r io.Reader, sheet string) ([]ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: no se pudo abrir el archivo XLSX: %v", ErrValidation, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, fmt.Errorf("%w: el archivo no tiene hojas", ErrValidation)
	}
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: no se pudo leer la hoja %s: %v", ErrValidation, sheet, err)
	}
	return s.Analyze(ctx, &sliceRowSource{records: records})
}

type sliceRowSource struct {
	records [][]string
	next    int
}

func (s *sliceRowSource) Read() ([]string, error) {
	if s.next >= len(s.records) {
		return nil, io.EOF
	}
	record := s.records[s.next]
	s.next++
	return record, nil
}

// Analyze classifies every row without writing. Row errors never stop the
// scan; only unreadable input or a missing required column does.
func (s *catalogIOService) Analyze(ctx context.Context, source RowSource) ([]ImportRow, error) {
	header, err := source.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: el archivo está vacío", ErrValidation)
		}
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{colTemplateName, colSKU} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: falta la columna %s", ErrValidation, required)
		}
	}

	cache, err := s.loadCache()
	if err != nil {
		return nil, err
	}

	var rows []ImportRow
	seen := make(map[string]int)
	for rowNumber := 2; ; rowNumber++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := source.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: fila %d: %v", ErrValidation, rowNumber, err)
		}
		if blankRecord(record) {
			continue
		}

		get := func(column string) string {
			i, ok := columns[column]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		row := analyzeRow(get, cache)
		row.RowNumber = rowNumber

		if row.Data.SKU != "" {
			key := strings.ToLower(row.Data.SKU)
			if first, dup := seen[key]; dup {
				row.Errors = append(row.Errors, fmt.Sprintf("El SKU '%s' ya aparece en la fila %d.", row.Data.SKU, first))
			} else {
				seen[key] = rowNumber
			}
		}
		row.Status = classify(&row, cache)
		rows = append(rows, row)
	}

	errorRows := 0
	for _, r := range rows {
		if r.Status == ImportError {
			errorRows++
		}
	}
	logger.Info("Catalog import analyzed", map[string]interface{}{
		"rows":   len(rows),
		"errors": errorRows,
	})
	return rows, nil
}

func blankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func analyzeRow(get func(string) string, cache *importCache) ImportRow {
	row := ImportRow{
		Data: ImportData{
			TemplateName: get(colTemplateName),
			CategoryPath: get(colCategoryPath),
			SupplierName: get(colSupplierName),
			SKU:          get(colSKU),
		},
	}
	data := &row.Data
	addError := func(format string, args ...interface{}) {
		row.Errors = append(row.Errors, fmt.Sprintf(format, args...))
	}

	numericOK := true
	if price, err := decimal.NewFromString(get(colPrice)); err != nil {
		numericOK = false
	} else {
		data.Price = price
	}
	if stock, err := strconv.Atoi(get(colStock)); err != nil {
		numericOK = false
	} else {
		data.Stock = stock
	}
	// cost is the only optional number
	if raw := get(colCost); raw != "" {
		cost, err := decimal.NewFromString(raw)
		if err != nil {
			numericOK = false
		} else {
			data.Cost = decimal.NewNullDecimal(cost)
		}
	}

	row.Errors = append(row.Errors, rowRuleErrors(*data)...)
	if !numericOK {
		addError("Precio, costo o stock tienen un formato numérico inválido.")
	}

	if data.CategoryPath != "" {
		leaf := categoryLeaf(data.CategoryPath)
		if !cache.categories[strings.ToLower(leaf)] {
			addError("La categoría '%s' no fue encontrada.", leaf)
		}
	}
	if data.SupplierName != "" && !cache.suppliers[strings.ToLower(data.SupplierName)] {
		addError("El proveedor '%s' no fue encontrado.", data.SupplierName)
	}

	if raw := get(colAttributes); raw != "" {
		for _, part := range strings.Split(raw, "|") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			name, value, ok := strings.Cut(part, ":")
			if !ok {
				addError("El formato del atributo '%s' es inválido (debe ser 'Nombre:Valor').", part)
				continue
			}
			name, value = strings.TrimSpace(name), strings.TrimSpace(value)
			values, known := cache.attributes[strings.ToLower(name)]
			if !known {
				addError("El atributo '%s' no existe.", name)
				continue
			}
			if !values[strings.ToLower(value)] {
				addError("El valor '%s' no existe para el atributo '%s'.", value, name)
				continue
			}
			data.Attributes = append(data.Attributes, AttributePair{Name: name, Value: value})
		}
	}
	return row
}

// rowRuleErrors checks the rules a row must meet whatever its source: the
// parsed file or rows sent back for execution.
func rowRuleErrors(data ImportData) []string {
	var errs []string
	if strings.TrimSpace(data.TemplateName) == "" {
		errs = append(errs, "El 'plantilla_nombre' es obligatorio.")
	}
	if strings.TrimSpace(data.SKU) == "" {
		errs = append(errs, "El 'variante_sku' es obligatorio.")
	}
	if data.Stock < 0 {
		errs = append(errs, "El stock no puede ser negativo.")
	}
	if data.Price.IsNegative() || (data.Cost.Valid && data.Cost.Decimal.IsNegative()) {
		errs = append(errs, "El precio y el costo no pueden ser negativos.")
	}
	return errs
}

func classify(row *ImportRow, cache *importCache) ImportStatus {
	if len(row.Errors) > 0 {
		return ImportError
	}
	existing, ok := cache.variants[strings.ToLower(row.Data.SKU)]
	if !ok {
		if cache.templates[strings.ToLower(row.Data.TemplateName)] == model.TemplateKindKit {
			row.Errors = append(row.Errors, "No se pueden agregar variantes a un kit.")
			return ImportError
		}
		return ImportNew
	}
	if existing.Template != nil && existing.Template.IsKit() && row.Data.Stock != 0 {
		row.Errors = append(row.Errors, "El stock de un kit se calcula a partir de sus componentes.")
		return ImportError
	}
	return ImportUpdate
}

func categoryLeaf(path string) string {
	parts := strings.Split(path, "/")
	return strings.TrimSpace(parts[len(parts)-1])
}

type importGroup struct {
	name string
	rows []ImportRow
}

func (g *importGroup) hasNewRows() bool {
	for _, row := range g.rows {
		if row.Status == ImportNew {
			return true
		}
	}
	return false
}

func groupByTemplate(rows []ImportRow) (groups []*importGroup, skipped int) {
	index := make(map[string]*importGroup)
	for _, row := range rows {
		if row.Status != ImportNew && row.Status != ImportUpdate {
			skipped++
			continue
		}
		key := strings.ToLower(row.Data.TemplateName)
		g, ok := index[key]
		if !ok {
			g = &importGroup{name: row.Data.TemplateName}
			index[key] = g
			groups = append(groups, g)
		}
		g.rows = append(g.rows, row)
	}
	return groups, skipped
}

// Execute applies analyzed rows in one transaction. ERROR rows are skipped;
// any failure undoes the whole import.
func (s *catalogIOService) Execute(ctx context.Context, rows []ImportRow, userID *uint) (*ImportSummary, error) {
	for _, row := range rows {
		if row.Status != ImportNew && row.Status != ImportUpdate {
			continue
		}
		if errs := rowRuleErrors(row.Data); len(errs) > 0 {
			logger.Warn("Rejected import row on execute", map[string]interface{}{
				"row":    row.RowNumber,
				"errors": errs,
			})
			return nil, fmt.Errorf("%w: fila %d: %s", ErrInvalidImportRow, row.RowNumber, strings.Join(errs, " "))
		}
	}

	groups, skipped := groupByTemplate(rows)
	summary := &ImportSummary{RowsSkipped: skipped}

	logger.Info("Executing catalog import", map[string]interface{}{
		"templates": len(groups),
		"skipped":   skipped,
	})

	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during catalog import, rolling back", fmt.Errorf("panic: %v", r))
		}
	}()

	attributes, err := s.attributeRepo.WithTx(tx).FindAll()
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%w: %v", ErrImportFailed, err)
	}
	values := indexAttributeValues(attributes)

	var movements []model.StockMovement
	for _, g := range groups {
		groupMovements, err := s.importGroup(tx, g, values, userID, summary)
		if err != nil {
			tx.Rollback()
			logger.Error("Catalog import failed, rolled back", err, map[string]interface{}{
				"template": g.name,
			})
			return nil, fmt.Errorf("%w: %s: %w", ErrImportFailed, g.name, err)
		}
		movements = append(movements, groupMovements...)
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit catalog import", err)
		return nil, fmt.Errorf("%w: %w", ErrImportFailed, err)
	}
	publishMovements(s.publisher, movements)

	logger.Info("Catalog import completed", map[string]interface{}{
		"templates_created": summary.TemplatesCreated,
		"variants_created":  summary.VariantsCreated,
		"variants_updated":  summary.VariantsUpdated,
		"stock_adjustments": summary.StockAdjustments,
	})
	return summary, nil
}

// indexAttributeValues keys value ids by "attribute:value", lowercased.
func indexAttributeValues(attributes []model.Attribute) map[string]uint {
	index := make(map[string]uint)
	for _, a := range attributes {
		for _, v := range a.Values {
			index[strings.ToLower(a.Name)+":"+strings.ToLower(v.Value)] = v.ID
		}
	}
	return index
}

func (s *catalogIOService) importGroup(
	tx *gorm.DB,
	g *importGroup,
	values map[string]uint,
	userID *uint,
	summary *ImportSummary,
) ([]model.StockMovement, error) {
	products := s.productRepo.WithTx(tx)

	// updates locate variants by SKU; only new variants need the template
	var template *model.ProductTemplate
	if g.hasNewRows() {
		var err error
		template, err = products.FindTemplateByName(g.name, 0)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			template, err = s.createImportedTemplate(tx, g)
			if err == nil {
				summary.TemplatesCreated++
			}
		}
		if err != nil {
			return nil, err
		}
	}

	var movements []model.StockMovement
	added := 0
	for _, row := range g.rows {
		data := row.Data
		switch row.Status {
		case ImportNew:
			if template.IsKit() {
				return nil, fmt.Errorf("fila %d: %w", row.RowNumber, ErrInvalidTemplateShape)
			}
			movement, err := s.importNewVariant(tx, template, data, values, userID)
			if err != nil {
				return nil, fmt.Errorf("fila %d: %w", row.RowNumber, err)
			}
			if movement != nil {
				movements = append(movements, *movement)
			}
			summary.VariantsCreated++
			added++

		case ImportUpdate:
			movement, err := s.importUpdateVariant(tx, data, userID)
			if err != nil {
				return nil, fmt.Errorf("fila %d: %w", row.RowNumber, err)
			}
			if movement != nil {
				movements = append(movements, *movement)
				summary.StockAdjustments++
			}
			summary.VariantsUpdated++
		}
	}

	if added > 0 && template.Kind == model.TemplateKindSimple {
		ids, err := products.FindVariantIDsByTemplate(template.ID)
		if err != nil {
			return nil, err
		}
		if len(ids) > 1 {
			template.Kind = model.TemplateKindVariant
			if err := products.UpdateTemplate(template); err != nil {
				return nil, err
			}
		}
	}
	return movements, nil
}

// createImportedTemplate resolves category and supplier by name; unknown
// names leave the reference empty.
func (s *catalogIOService) createImportedTemplate(tx *gorm.DB, g *importGroup) (*model.ProductTemplate, error) {
	first := g.rows[0].Data
	template := &model.ProductTemplate{
		Name:   g.name,
		Active: true,
		Kind:   model.TemplateKindVariant,
	}
	if len(g.rows) == 1 && len(first.Attributes) == 0 {
		template.Kind = model.TemplateKindSimple
	}

	if first.CategoryPath != "" {
		category, err := s.categoryRepo.WithTx(tx).FindByName(categoryLeaf(first.CategoryPath), 0)
		if err == nil {
			template.CategoryID = &category.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	if first.SupplierName != "" {
		supplier, err := s.supplierRepo.WithTx(tx).FindByName(first.SupplierName, 0)
		if err == nil {
			template.SupplierID = &supplier.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if err := s.productRepo.WithTx(tx).CreateTemplate(template); err != nil {
		return nil, err
	}
	return template, nil
}

func (s *catalogIOService) importNewVariant(
	tx *gorm.DB,
	template *model.ProductTemplate,
	data ImportData,
	values map[string]uint,
	userID *uint,
) (*model.StockMovement, error) {
	products := s.productRepo.WithTx(tx)

	if _, err := products.FindVariantBySKU(data.SKU, 0); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateSKU, data.SKU)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	valueIDs := make([]uint, 0, len(data.Attributes))
	for _, pair := range data.Attributes {
		id, ok := values[strings.ToLower(pair.Name)+":"+strings.ToLower(pair.Value)]
		if !ok {
			return nil, fmt.Errorf("%w: %s:%s", ErrAttributeValueNotFound, pair.Name, pair.Value)
		}
		valueIDs = append(valueIDs, id)
	}

	variant := &model.Variant{
		TemplateID:   template.ID,
		SKU:          data.SKU,
		SalePrice:    data.Price,
		PurchaseCost: data.Cost,
	}
	if err := products.CreateVariant(variant); err != nil {
		return nil, err
	}
	if err := products.AddVariantValues(variant.ID, valueIDs); err != nil {
		return nil, err
	}

	if data.Stock <= 0 {
		return nil, nil
	}
	return s.stockService.AdjustStockTx(tx, AdjustStockInput{
		VariantID: variant.ID,
		Delta:     data.Stock,
		Kind:      model.AdjustManualIn,
		Reason:    importNewReason,
		UserID:    userID,
	})
}

// importUpdateVariant rewrites price and cost, then books the stock difference
// as a count adjustment.
func (s *catalogIOService) importUpdateVariant(tx *gorm.DB, data ImportData, userID *uint) (*model.StockMovement, error) {
	products := s.productRepo.WithTx(tx)

	variant, err := products.FindVariantBySKU(data.SKU, 0)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrVariantNotFound, data.SKU)
		}
		return nil, err
	}

	variant.SalePrice = data.Price
	variant.PurchaseCost = data.Cost
	if err := products.UpdateVariant(variant); err != nil {
		return nil, err
	}

	delta := data.Stock - variant.Stock
	if delta == 0 {
		return nil, nil
	}
	template, err := products.FindTemplateByID(variant.TemplateID)
	if err != nil {
		return nil, err
	}
	if template.IsKit() {
		return nil, fmt.Errorf("%w: %s", ErrKitStockIsDerived, data.SKU)
	}

	kind := model.AdjustCountPositive
	if delta < 0 {
		kind = model.AdjustCountNegative
	}
	return s.stockService.AdjustStockTx(tx, AdjustStockInput{
		VariantID: variant.ID,
		Delta:     delta,
		Kind:      kind,
		Reason:    importAdjustReason,
		UserID:    userID,
	})
}
