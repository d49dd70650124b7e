package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/app/repository"
	"github.com/sibors/sibors-backend/internal/storage"
	"github.com/sibors/sibors-backend/pkg/logger"
	"gorm.io/gorm"
)

const initialStockReason = "Stock inicial de creación de producto"

type VariantInput struct {
	ID                *uint               `json:"id,omitempty"`
	SKU               string              `json:"sku"`
	BarcodeUPC        *string             `json:"barcode_upc,omitempty"`
	BarcodeEAN        *string             `json:"barcode_ean,omitempty"`
	SalePrice         decimal.Decimal     `json:"sale_price"`
	PurchaseCost      decimal.NullDecimal `json:"purchase_cost"`
	Stock             int                 `json:"stock"`
	AttributeValueIDs []uint              `json:"attribute_value_ids"`
}

type ComponentInput struct {
	VariantID uint `json:"variant_id"`
	Quantity  int  `json:"quantity"`
}

type CreateTemplateInput struct {
	Name        string             `json:"name"`
	CategoryID  *uint              `json:"category_id"`
	SupplierID  *uint              `json:"supplier_id"`
	Kind        model.TemplateKind `json:"kind"`
	Active      *bool              `json:"active"`
	Variants    []VariantInput     `json:"variants"`
	Components  []ComponentInput   `json:"components"`
	ImagesToAdd []string           `json:"images_to_add"`
}

type UpdateTemplateInput struct {
	CreateTemplateInput
	ImageIDsToRemove []uint `json:"image_ids_to_remove"`
}

type TemplateFilter struct {
	Search     string
	CategoryID *uint
}

// TemplateView is a template with its current stock: the sum over variants,
// or for kits the number of kits the components can build.
type TemplateView struct {
	model.ProductTemplate
	TotalStock int `json:"total_stock"`
}

type VariantView struct {
	model.Variant
	Available int `json:"available"`
}

type TemplateResult struct {
	Template *TemplateView `json:"template"`
	Warnings []string      `json:"warnings,omitempty"`
}

type DeleteResult struct {
	Deleted            bool     `json:"deleted"`
	ImageCleanupErrors []string `json:"image_cleanup_errors,omitempty"`
}

type TemplateService interface {
	CreateTemplate(ctx context.Context, input CreateTemplateInput, userID *uint) (*TemplateResult, error)
	UpdateTemplate(ctx context.Context, id uint, input UpdateTemplateInput, userID *uint) (*TemplateResult, error)
	DeleteTemplate(ctx context.Context, id uint) (*DeleteResult, error)
	ListTemplates(filter TemplateFilter) ([]TemplateView, error)
	GetTemplate(id uint) (*TemplateView, error)
	TemplateStock(id uint) (int, error)
	ListVariants(search string) ([]VariantView, error)
	GetVariant(id uint) (*VariantView, error)
}

type templateService struct {
	db            *gorm.DB
	productRepo   repository.ProductRepository
	attributeRepo repository.AttributeRepository
	categoryRepo  repository.CategoryRepository
	supplierRepo  repository.SupplierRepository
	stockService  StockService
	images        storage.ImageStore
	publisher     StockPublisher
}

func NewTemplateService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	attributeRepo repository.AttributeRepository,
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
	stockService StockService,
	images storage.ImageStore,
	publisher StockPublisher,
) TemplateService {
	return &templateService{
		db:            db,
		productRepo:   productRepo,
		attributeRepo: attributeRepo,
		categoryRepo:  categoryRepo,
		supplierRepo:  supplierRepo,
		stockService:  stockService,
		images:        images,
		publisher:     publisher,
	}
}

// txRepos binds every repository the template operations touch to one transaction.
type txRepos struct {
	tx         *gorm.DB
	products   repository.ProductRepository
	attributes repository.AttributeRepository
	categories repository.CategoryRepository
	suppliers  repository.SupplierRepository
}

func (s *templateService) bind(tx *gorm.DB) *txRepos {
	return &txRepos{
		tx:         tx,
		products:   s.productRepo.WithTx(tx),
		attributes: s.attributeRepo.WithTx(tx),
		categories: s.categoryRepo.WithTx(tx),
		suppliers:  s.supplierRepo.WithTx(tx),
	}
}

// inferKind picks a kind for callers that did not send one.
func inferKind(variants []VariantInput, components []ComponentInput) model.TemplateKind {
	if len(components) > 0 {
		return model.TemplateKindKit
	}
	if len(variants) > 1 {
		return model.TemplateKindVariant
	}
	for _, v := range variants {
		if len(v.AttributeValueIDs) > 0 {
			return model.TemplateKindVariant
		}
	}
	return model.TemplateKindSimple
}

func validateShape(kind model.TemplateKind, variants []VariantInput, components []ComponentInput) error {
	switch kind {
	case model.TemplateKindSimple:
		if len(variants) != 1 || len(components) > 0 {
			return fmt.Errorf("%w: un producto simple tiene exactamente una variante", ErrInvalidTemplateShape)
		}
		if len(variants[0].AttributeValueIDs) > 0 {
			return fmt.Errorf("%w: un producto simple no lleva atributos", ErrInvalidTemplateShape)
		}
	case model.TemplateKindVariant:
		if len(variants) == 0 || len(components) > 0 {
			return fmt.Errorf("%w: un producto con variantes necesita al menos una variante y no lleva componentes", ErrInvalidTemplateShape)
		}
	case model.TemplateKindKit:
		if len(components) == 0 || len(variants) != 1 {
			return fmt.Errorf("%w: un kit necesita componentes y exactamente una variante", ErrInvalidTemplateShape)
		}
	default:
		return fmt.Errorf("%w: %s", ErrInvalidTemplateShape, kind)
	}
	return nil
}

func normalizeBarcode(code *string) *string {
	if code == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*code)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (s *templateService) checkReferences(r *txRepos, categoryID, supplierID *uint) error {
	if categoryID != nil {
		if _, err := r.categories.FindByID(*categoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}
	}
	if supplierID != nil {
		if _, err := r.suppliers.FindByID(*supplierID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSupplierNotFound
			}
			return err
		}
	}
	return nil
}

func (s *templateService) checkTemplateName(r *txRepos, name string, excludeID uint) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	_, err := r.products.FindTemplateByName(name, excludeID)
	if err == nil {
		return "", ErrDuplicateTemplateName
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	return name, nil
}

// validateVariants normalizes the inputs in place and checks every per-variant rule.
func (s *templateService) validateVariants(r *txRepos, variants []VariantInput) error {
	seen := make(map[string]bool, len(variants))
	for i := range variants {
		v := &variants[i]
		v.SKU = strings.TrimSpace(v.SKU)
		v.BarcodeUPC = normalizeBarcode(v.BarcodeUPC)
		v.BarcodeEAN = normalizeBarcode(v.BarcodeEAN)

		if v.SKU == "" {
			return ErrSKURequired
		}
		key := strings.ToLower(v.SKU)
		if seen[key] {
			return fmt.Errorf("%w: %s", ErrDuplicateSKU, v.SKU)
		}
		seen[key] = true

		var excludeID uint
		if v.ID != nil {
			excludeID = *v.ID
		}
		if _, err := r.products.FindVariantBySKU(v.SKU, excludeID); err == nil {
			return fmt.Errorf("%w: %s", ErrDuplicateSKU, v.SKU)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		for _, code := range []*string{v.BarcodeUPC, v.BarcodeEAN} {
			if code == nil {
				continue
			}
			if _, err := r.products.FindVariantByBarcode(*code, excludeID); err == nil {
				return fmt.Errorf("%w: %s", ErrDuplicateBarcode, *code)
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		if v.SalePrice.IsNegative() {
			return fmt.Errorf("%w: %s", ErrInvalidPrice, v.SKU)
		}
		if v.PurchaseCost.Valid && v.PurchaseCost.Decimal.IsNegative() {
			return fmt.Errorf("%w: %s", ErrInvalidPrice, v.SKU)
		}
		if v.Stock < 0 {
			return fmt.Errorf("%w: %s", ErrNegativeStock, v.SKU)
		}

		if err := s.validateValues(r, v.AttributeValueIDs); err != nil {
			return err
		}
	}
	return nil
}

func (s *templateService) validateValues(r *txRepos, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	unique := make(map[uint]bool, len(ids))
	for _, id := range ids {
		unique[id] = true
	}
	values, err := r.attributes.FindValuesByIDs(ids)
	if err != nil {
		return err
	}
	if len(values) != len(unique) || len(unique) != len(ids) {
		return ErrAttributeValueNotFound
	}
	perAttribute := make(map[uint]bool, len(values))
	for _, v := range values {
		if perAttribute[v.AttributeID] {
			return fmt.Errorf("%w: una variante sólo puede tener un valor por atributo", ErrValidation)
		}
		perAttribute[v.AttributeID] = true
	}
	return nil
}

// validateComponents loads each component and rejects kits, duplicates and
// non-positive quantities.
func (s *templateService) validateComponents(r *txRepos, components []ComponentInput) error {
	seen := make(map[uint]bool, len(components))
	for _, c := range components {
		if c.Quantity <= 0 {
			return fmt.Errorf("%w: la cantidad debe ser mayor que cero", ErrInvalidKitComponent)
		}
		if seen[c.VariantID] {
			return fmt.Errorf("%w: componente repetido", ErrInvalidKitComponent)
		}
		seen[c.VariantID] = true

		variant, err := r.products.FindVariantByID(c.VariantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: la variante %d no existe", ErrInvalidKitComponent, c.VariantID)
			}
			return err
		}
		if variant.Template != nil && variant.Template.IsKit() {
			return fmt.Errorf("%w: un kit no puede contener otro kit", ErrInvalidKitComponent)
		}
	}
	return nil
}

func toKitComponents(components []ComponentInput) []model.KitComponent {
	rows := make([]model.KitComponent, 0, len(components))
	for _, c := range components {
		rows = append(rows, model.KitComponent{ComponentID: c.VariantID, Quantity: c.Quantity})
	}
	return rows
}

// createVariant inserts the variant with zero stock and seeds its initial
// stock through the ledger.
func (s *templateService) createVariant(r *txRepos, template *model.ProductTemplate, input VariantInput, userID *uint) (*model.StockMovement, error) {
	variant := &model.Variant{
		TemplateID:   template.ID,
		SKU:          input.SKU,
		BarcodeUPC:   input.BarcodeUPC,
		BarcodeEAN:   input.BarcodeEAN,
		SalePrice:    input.SalePrice,
		PurchaseCost: input.PurchaseCost,
	}
	if err := r.products.CreateVariant(variant); err != nil {
		return nil, err
	}
	if err := r.products.AddVariantValues(variant.ID, input.AttributeValueIDs); err != nil {
		return nil, err
	}

	if input.Stock <= 0 || template.IsKit() {
		return nil, nil
	}
	return s.stockService.AdjustStockTx(r.tx, AdjustStockInput{
		VariantID: variant.ID,
		Delta:     input.Stock,
		Kind:      model.AdjustManualIn,
		Reason:    initialStockReason,
		UserID:    userID,
	})
}

// addImages copies images in. Failures are skipped and reported as warnings.
func (s *templateService) addImages(ctx context.Context, r *txRepos, templateID uint, sources []string, startOrder int) (stored []string, warnings []string) {
	if s.images == nil {
		for _, src := range sources {
			warnings = append(warnings, fmt.Sprintf("no hay almacenamiento de imágenes configurado: %s", src))
		}
		return nil, warnings
	}
	order := startOrder
	for _, src := range sources {
		path, err := storage.CopyFile(ctx, s.images, src)
		if err != nil {
			logger.Warn("Failed to store product image", map[string]interface{}{
				"template_id": templateID,
				"source":      src,
				"error":       err.Error(),
			})
			warnings = append(warnings, fmt.Sprintf("no se pudo guardar la imagen %s: %v", src, err))
			continue
		}
		stored = append(stored, path)
		if err := r.products.AddImage(&model.ProductImage{TemplateID: templateID, Path: path, SortOrder: order}); err != nil {
			warnings = append(warnings, fmt.Sprintf("no se pudo registrar la imagen %s: %v", src, err))
			continue
		}
		order++
	}
	return stored, warnings
}

// removeFiles deletes stored images and returns the failures.
func (s *templateService) removeFiles(ctx context.Context, paths []string) []string {
	if s.images == nil {
		return nil
	}
	var failures []string
	for _, path := range paths {
		if err := s.images.Delete(ctx, path); err != nil {
			logger.Warn("Failed to delete product image", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
			failures = append(failures, fmt.Sprintf("%s: %v", path, err))
		}
	}
	return failures
}

func (s *templateService) CreateTemplate(ctx context.Context, input CreateTemplateInput, userID *uint) (*TemplateResult, error) {
	logger.Info("Creating product template", map[string]interface{}{
		"name":       input.Name,
		"kind":       input.Kind,
		"variants":   len(input.Variants),
		"components": len(input.Components),
	})

	kind := input.Kind
	if kind == "" {
		kind = inferKind(input.Variants, input.Components)
	}
	if err := validateShape(kind, input.Variants, input.Components); err != nil {
		logger.Warn("Template shape rejected", map[string]interface{}{
			"name":  input.Name,
			"kind":  kind,
			"error": err.Error(),
		})
		return nil, err
	}
	if kind == model.TemplateKindKit {
		input.Variants[0].Stock = 0
	}

	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during template creation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"name": input.Name,
			})
		}
	}()
	r := s.bind(tx)

	name, err := s.checkTemplateName(r, input.Name, 0)
	if err == nil {
		err = s.checkReferences(r, input.CategoryID, input.SupplierID)
	}
	if err == nil {
		err = s.validateVariants(r, input.Variants)
	}
	if err == nil && kind == model.TemplateKindKit {
		err = s.validateComponents(r, input.Components)
	}
	if err != nil {
		tx.Rollback()
		logger.Warn("Template creation rejected", map[string]interface{}{
			"name":  input.Name,
			"error": err.Error(),
		})
		return nil, err
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}
	template := &model.ProductTemplate{
		Name:       name,
		Active:     active,
		Kind:       kind,
		CategoryID: input.CategoryID,
		SupplierID: input.SupplierID,
	}
	if err := r.products.CreateTemplate(template); err != nil {
		tx.Rollback()
		return nil, err
	}

	var movements []model.StockMovement
	for _, v := range input.Variants {
		movement, err := s.createVariant(r, template, v, userID)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if movement != nil {
			movements = append(movements, *movement)
		}
	}
	if kind == model.TemplateKindKit {
		if err := r.products.ReplaceComponents(template.ID, toKitComponents(input.Components)); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	stored, warnings := s.addImages(ctx, r, template.ID, input.ImagesToAdd, 0)

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit template creation", err, map[string]interface{}{
			"name": name,
		})
		s.removeFiles(ctx, stored)
		return nil, err
	}
	publishMovements(s.publisher, movements)

	view, err := s.GetTemplate(template.ID)
	if err != nil {
		return nil, err
	}
	logger.Info("Product template created", map[string]interface{}{
		"template_id": template.ID,
		"name":        name,
		"kind":        kind,
	})
	return &TemplateResult{Template: view, Warnings: warnings}, nil
}

func (s *templateService) UpdateTemplate(ctx context.Context, id uint, input UpdateTemplateInput, userID *uint) (*TemplateResult, error) {
	logger.Info("Updating product template", map[string]interface{}{
		"template_id": id,
		"variants":    len(input.Variants),
	})

	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during template update, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"template_id": id,
			})
		}
	}()
	r := s.bind(tx)

	template, err := r.products.FindTemplateByID(id)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	movements, removedPaths, warnings, err := s.applyUpdate(ctx, r, template, input, userID)
	if err != nil {
		tx.Rollback()
		logger.Warn("Template update rejected", map[string]interface{}{
			"template_id": id,
			"error":       err.Error(),
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit template update", err, map[string]interface{}{
			"template_id": id,
		})
		return nil, err
	}
	publishMovements(s.publisher, movements)
	warnings = append(warnings, s.removeFiles(ctx, removedPaths)...)

	view, err := s.GetTemplate(id)
	if err != nil {
		return nil, err
	}
	logger.Info("Product template updated", map[string]interface{}{
		"template_id": id,
		"kind":        view.Kind,
	})
	return &TemplateResult{Template: view, Warnings: warnings}, nil
}

func (s *templateService) applyUpdate(
	ctx context.Context,
	r *txRepos,
	template *model.ProductTemplate,
	input UpdateTemplateInput,
	userID *uint,
) ([]model.StockMovement, []string, []string, error) {
	name, err := s.checkTemplateName(r, input.Name, template.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := s.checkReferences(r, input.CategoryID, input.SupplierID); err != nil {
		return nil, nil, nil, err
	}

	kind := template.Kind
	if input.Kind != "" && input.Kind != kind {
		if !(kind == model.TemplateKindSimple && input.Kind == model.TemplateKindVariant) {
			return nil, nil, nil, ErrKindChange
		}
		kind = input.Kind
	}
	if kind == model.TemplateKindSimple && inferKind(input.Variants, nil) == model.TemplateKindVariant {
		kind = model.TemplateKindVariant
	}
	if err := validateShape(kind, input.Variants, input.Components); err != nil {
		return nil, nil, nil, err
	}

	existing := make(map[uint]model.Variant, len(template.Variants))
	for _, v := range template.Variants {
		existing[v.ID] = v
	}
	for _, v := range input.Variants {
		if v.ID != nil {
			if _, ok := existing[*v.ID]; !ok {
				return nil, nil, nil, fmt.Errorf("%w: %d", ErrVariantNotFound, *v.ID)
			}
		}
	}
	// Variants left out of the request are removed
	kept := make(map[uint]bool, len(input.Variants))
	for _, v := range input.Variants {
		if v.ID != nil {
			kept[*v.ID] = true
		}
	}
	var removeIDs []uint
	for _, v := range template.Variants {
		if kept[v.ID] {
			continue
		}
		if v.Stock != 0 {
			return nil, nil, nil, fmt.Errorf("%w: %s", ErrVariantHasStock, v.SKU)
		}
		removeIDs = append(removeIDs, v.ID)
	}
	inUse, err := r.products.CountKitsUsing(removeIDs, template.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	if inUse > 0 {
		return nil, nil, nil, ErrVariantInUseByKit
	}
	if err := r.products.DeleteVariants(removeIDs); err != nil {
		return nil, nil, nil, err
	}
	if err := s.validateVariants(r, input.Variants); err != nil {
		return nil, nil, nil, err
	}

	template.Name = name
	template.Kind = kind
	template.CategoryID = input.CategoryID
	template.SupplierID = input.SupplierID
	if input.Active != nil {
		template.Active = *input.Active
	}
	if err := r.products.UpdateTemplate(template); err != nil {
		return nil, nil, nil, err
	}

	var movements []model.StockMovement
	for _, v := range input.Variants {
		if v.ID == nil {
			if kind == model.TemplateKindKit {
				v.Stock = 0
			}
			movement, err := s.createVariant(r, template, v, userID)
			if err != nil {
				return nil, nil, nil, err
			}
			if movement != nil {
				movements = append(movements, *movement)
			}
			continue
		}
		variant := existing[*v.ID]
		variant.SKU = v.SKU
		variant.BarcodeUPC = v.BarcodeUPC
		variant.BarcodeEAN = v.BarcodeEAN
		variant.SalePrice = v.SalePrice
		variant.PurchaseCost = v.PurchaseCost
		if err := r.products.UpdateVariant(&variant); err != nil {
			return nil, nil, nil, err
		}
		if err := r.products.ReplaceVariantValues(variant.ID, v.AttributeValueIDs); err != nil {
			return nil, nil, nil, err
		}
	}

	if kind == model.TemplateKindKit {
		if err := s.validateComponents(r, input.Components); err != nil {
			return nil, nil, nil, err
		}
	}
	if err := r.products.ReplaceComponents(template.ID, toKitComponents(input.Components)); err != nil {
		return nil, nil, nil, err
	}

	var removedPaths []string
	if len(input.ImageIDsToRemove) > 0 {
		images, err := r.products.FindImages(template.ID, input.ImageIDsToRemove)
		if err != nil {
			return nil, nil, nil, err
		}
		ids := make([]uint, 0, len(images))
		for _, img := range images {
			ids = append(ids, img.ID)
			removedPaths = append(removedPaths, img.Path)
		}
		if err := r.products.DeleteImages(ids); err != nil {
			return nil, nil, nil, err
		}
	}

	nextOrder := len(template.Images) - len(removedPaths)
	_, warnings := s.addImages(ctx, r, template.ID, input.ImagesToAdd, nextOrder)

	return movements, removedPaths, warnings, nil
}

func (s *templateService) DeleteTemplate(ctx context.Context, id uint) (*DeleteResult, error) {
	logger.Info("Deleting product template", map[string]interface{}{
		"template_id": id,
	})

	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during template deletion, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"template_id": id,
			})
		}
	}()
	products := s.productRepo.WithTx(tx)

	template, err := products.FindTemplateByID(id)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Info("Template already absent", map[string]interface{}{
				"template_id": id,
			})
			return &DeleteResult{Deleted: false}, nil
		}
		return nil, err
	}

	if stock := templateStock(template); stock > 0 {
		tx.Rollback()
		logger.Warn("Cannot delete template with stock", map[string]interface{}{
			"template_id": id,
			"stock":       stock,
		})
		return nil, ErrTemplateHasStock
	}

	variantIDs := make([]uint, 0, len(template.Variants))
	for _, v := range template.Variants {
		variantIDs = append(variantIDs, v.ID)
	}
	inUse, err := products.CountKitsUsing(variantIDs, template.ID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if inUse > 0 {
		tx.Rollback()
		logger.Warn("Cannot delete template used as kit component", map[string]interface{}{
			"template_id": id,
		})
		return nil, ErrVariantInUseByKit
	}

	if err := products.DeleteTemplate(id); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit template deletion", err, map[string]interface{}{
			"template_id": id,
		})
		return nil, err
	}

	paths := make([]string, 0, len(template.Images))
	for _, img := range template.Images {
		paths = append(paths, img.Path)
	}
	result := &DeleteResult{Deleted: true, ImageCleanupErrors: s.removeFiles(ctx, paths)}

	logger.Info("Product template deleted", map[string]interface{}{
		"template_id":    id,
		"image_failures": len(result.ImageCleanupErrors),
	})
	return result, nil
}

// templateStock needs Variants and Components.Component preloaded.
func templateStock(t *model.ProductTemplate) int {
	if t.IsKit() {
		return computeKitStock(t.Components)
	}
	total := 0
	for _, v := range t.Variants {
		total += v.Stock
	}
	return total
}

func newTemplateView(t model.ProductTemplate) TemplateView {
	return TemplateView{ProductTemplate: t, TotalStock: templateStock(&t)}
}

func (s *templateService) ListTemplates(filter TemplateFilter) ([]TemplateView, error) {
	repoFilter := repository.TemplateFilter{Search: filter.Search}
	if filter.CategoryID != nil {
		categories, err := s.categoryRepo.FindAll()
		if err != nil {
			return nil, err
		}
		repoFilter.CategoryIDs = descendantIDs(categories, *filter.CategoryID)
	}

	templates, err := s.productRepo.FindTemplates(repoFilter)
	if err != nil {
		return nil, err
	}

	views := make([]TemplateView, 0, len(templates))
	for _, t := range templates {
		views = append(views, newTemplateView(t))
	}
	logger.Info("Product templates listed", map[string]interface{}{
		"count":  len(views),
		"search": filter.Search,
	})
	return views, nil
}

func (s *templateService) GetTemplate(id uint) (*TemplateView, error) {
	template, err := s.productRepo.FindTemplateByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	view := newTemplateView(*template)
	return &view, nil
}

func (s *templateService) TemplateStock(id uint) (int, error) {
	view, err := s.GetTemplate(id)
	if err != nil {
		return 0, err
	}
	return view.TotalStock, nil
}

func (s *templateService) variantView(v model.Variant) (VariantView, error) {
	view := VariantView{Variant: v, Available: v.Stock}
	if v.Template != nil && v.Template.IsKit() {
		stock, err := kitAvailableStockTx(s.productRepo, v.TemplateID)
		if err != nil {
			return view, err
		}
		view.Available = stock
	}
	return view, nil
}

func (s *templateService) ListVariants(search string) ([]VariantView, error) {
	variants, err := s.productRepo.FindVariants(search)
	if err != nil {
		return nil, err
	}
	views := make([]VariantView, 0, len(variants))
	for _, v := range variants {
		view, err := s.variantView(v)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *templateService) GetVariant(id uint) (*VariantView, error) {
	variant, err := s.productRepo.FindVariantByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	view, err := s.variantView(*variant)
	if err != nil {
		return nil, err
	}
	return &view, nil
}
