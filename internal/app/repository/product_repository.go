package repository

import (
	"strings"

	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TemplateFilter struct {
	Search      string
	CategoryIDs []uint
	ActiveOnly  bool
}

// ProductRepository persists templates together with their variants, images
// and kit components.
type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository

	CreateTemplate(template *model.ProductTemplate) error
	UpdateTemplate(template *model.ProductTemplate) error
	FindTemplateByID(id uint) (*model.ProductTemplate, error)
	FindTemplateByName(name string, excludeID uint) (*model.ProductTemplate, error)
	FindTemplates(filter TemplateFilter) ([]model.ProductTemplate, error)
	DeleteTemplate(id uint) error

	CreateVariant(variant *model.Variant) error
	UpdateVariant(variant *model.Variant) error
	FindVariantByID(id uint) (*model.Variant, error)
	FindVariantBySKU(sku string, excludeID uint) (*model.Variant, error)
	FindVariantByBarcode(code string, excludeID uint) (*model.Variant, error)
	FindVariants(search string) ([]model.Variant, error)
	FindVariantIDsByTemplate(templateID uint) ([]uint, error)
	DeleteVariants(ids []uint) error
	AddVariantValues(variantID uint, valueIDs []uint) error
	ReplaceVariantValues(variantID uint, valueIDs []uint) error

	FindComponents(kitTemplateID uint) ([]model.KitComponent, error)
	ReplaceComponents(kitTemplateID uint, components []model.KitComponent) error
	CountKitsUsing(variantIDs []uint, excludeKitTemplateID uint) (int64, error)

	AddImage(image *model.ProductImage) error
	FindImages(templateID uint, ids []uint) ([]model.ProductImage, error)
	DeleteImages(ids []uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepository{db: tx}
}

func (r *productRepository) CreateTemplate(template *model.ProductTemplate) error {
	logger.Debug("Creating product template in database", map[string]interface{}{
		"name":        template.Name,
		"kind":        template.Kind,
		"category_id": template.CategoryID,
		"supplier_id": template.SupplierID,
	})

	if err := r.db.Omit(clause.Associations).Create(template).Error; err != nil {
		logger.Error("Failed to create product template in database", err, map[string]interface{}{
			"name": template.Name,
		})
		return err
	}

	logger.Debug("Product template created in database", map[string]interface{}{
		"template_id": template.ID,
		"name":        template.Name,
	})
	return nil
}

func (r *productRepository) UpdateTemplate(template *model.ProductTemplate) error {
	logger.Debug("Updating product template in database", map[string]interface{}{
		"template_id": template.ID,
		"name":        template.Name,
		"kind":        template.Kind,
	})

	err := r.db.Model(&model.ProductTemplate{ID: template.ID}).
		Select("name", "active", "kind", "category_id", "supplier_id").
		Updates(map[string]interface{}{
			"name":        template.Name,
			"active":      template.Active,
			"kind":        template.Kind,
			"category_id": template.CategoryID,
			"supplier_id": template.SupplierID,
		}).Error
	if err != nil {
		logger.Error("Failed to update product template in database", err, map[string]interface{}{
			"template_id": template.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) templateQuery() *gorm.DB {
	return r.db.Model(&model.ProductTemplate{}).
		Preload("Category").
		Preload("Supplier").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_images.sort_order ASC, product_images.id ASC")
		}).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("variants.id ASC")
		}).
		Preload("Variants.Values.Attribute").
		Preload("Components.Component.Template")
}

func (r *productRepository) FindTemplateByID(id uint) (*model.ProductTemplate, error) {
	var template model.ProductTemplate
	if err := r.templateQuery().First(&template, id).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *productRepository) FindTemplateByName(name string, excludeID uint) (*model.ProductTemplate, error) {
	var template model.ProductTemplate
	query := r.db.Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&template).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *productRepository) FindTemplates(filter TemplateFilter) ([]model.ProductTemplate, error) {
	logger.Debug("Finding product templates with filter", map[string]interface{}{
		"search":       filter.Search,
		"category_ids": filter.CategoryIDs,
		"active_only":  filter.ActiveOnly,
	})

	query := r.templateQuery()
	if term := strings.TrimSpace(filter.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		sub := r.db.Model(&model.Variant{}).Select("template_id").Where("LOWER(sku) LIKE ?", like)
		query = query.Where("LOWER(product_templates.name) LIKE ? OR product_templates.id IN (?)", like, sub)
	}
	if len(filter.CategoryIDs) > 0 {
		query = query.Where("product_templates.category_id IN ?", filter.CategoryIDs)
	}
	if filter.ActiveOnly {
		query = query.Where("product_templates.active = ?", true)
	}

	var templates []model.ProductTemplate
	if err := query.Order("product_templates.name ASC").Find(&templates).Error; err != nil {
		logger.Error("Failed to find product templates", err)
		return nil, err
	}
	return templates, nil
}

// DeleteTemplate removes the template and everything it owns. Stock checks
// are the caller's responsibility.
func (r *productRepository) DeleteTemplate(id uint) error {
	logger.Debug("Deleting product template from database", map[string]interface{}{
		"template_id": id,
	})

	variantIDs, err := r.FindVariantIDsByTemplate(id)
	if err != nil {
		return err
	}
	if err := r.db.Where("template_id = ?", id).Delete(&model.ProductImage{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("kit_template_id = ?", id).Delete(&model.KitComponent{}).Error; err != nil {
		return err
	}
	if err := r.DeleteVariants(variantIDs); err != nil {
		return err
	}
	if err := r.db.Delete(&model.ProductTemplate{}, id).Error; err != nil {
		logger.Error("Failed to delete product template from database", err, map[string]interface{}{
			"template_id": id,
		})
		return err
	}
	return nil
}

func (r *productRepository) CreateVariant(variant *model.Variant) error {
	logger.Debug("Creating variant in database", map[string]interface{}{
		"template_id": variant.TemplateID,
		"sku":         variant.SKU,
		"stock":       variant.Stock,
	})

	if err := r.db.Omit(clause.Associations).Create(variant).Error; err != nil {
		logger.Error("Failed to create variant in database", err, map[string]interface{}{
			"template_id": variant.TemplateID,
			"sku":         variant.SKU,
		})
		return err
	}
	return nil
}

// UpdateVariant writes the descriptive fields. Stock only changes through the ledger.
func (r *productRepository) UpdateVariant(variant *model.Variant) error {
	logger.Debug("Updating variant in database", map[string]interface{}{
		"variant_id": variant.ID,
		"sku":        variant.SKU,
	})

	err := r.db.Model(&model.Variant{ID: variant.ID}).
		Select("sku", "barcode_upc", "barcode_ean", "sale_price", "purchase_cost").
		Updates(map[string]interface{}{
			"sku":           variant.SKU,
			"barcode_upc":   variant.BarcodeUPC,
			"barcode_ean":   variant.BarcodeEAN,
			"sale_price":    variant.SalePrice,
			"purchase_cost": variant.PurchaseCost,
		}).Error
	if err != nil {
		logger.Error("Failed to update variant in database", err, map[string]interface{}{
			"variant_id": variant.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) FindVariantByID(id uint) (*model.Variant, error) {
	var variant model.Variant
	err := r.db.
		Preload("Template").
		Preload("Values.Attribute").
		First(&variant, id).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *productRepository) FindVariantBySKU(sku string, excludeID uint) (*model.Variant, error) {
	var variant model.Variant
	query := r.db.Where("LOWER(sku) = ?", strings.ToLower(strings.TrimSpace(sku)))
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&variant).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *productRepository) FindVariantByBarcode(code string, excludeID uint) (*model.Variant, error) {
	var variant model.Variant
	query := r.db.Where("barcode_upc = ? OR barcode_ean = ?", code, code)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&variant).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// FindVariants matches SKU, barcode or template name
func (r *productRepository) FindVariants(search string) ([]model.Variant, error) {
	query := r.db.Model(&model.Variant{}).
		Preload("Template").
		Preload("Values.Attribute").
		Joins("JOIN product_templates ON product_templates.id = variants.template_id")
	if term := strings.TrimSpace(search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where(
			"LOWER(variants.sku) LIKE ? OR LOWER(product_templates.name) LIKE ? OR variants.barcode_upc = ? OR variants.barcode_ean = ?",
			like, like, term, term,
		)
	}

	var variants []model.Variant
	if err := query.Order("product_templates.name ASC, variants.id ASC").Find(&variants).Error; err != nil {
		logger.Error("Failed to find variants", err, map[string]interface{}{
			"search": search,
		})
		return nil, err
	}
	return variants, nil
}

func (r *productRepository) FindVariantIDsByTemplate(templateID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.Variant{}).Where("template_id = ?", templateID).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}

// DeleteVariants removes the variants with their value links and ledger rows
func (r *productRepository) DeleteVariants(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	logger.Debug("Deleting variants from database", map[string]interface{}{
		"variant_ids": ids,
	})

	if err := r.db.Where("variant_id IN ?", ids).Delete(&model.VariantAttributeValue{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("variant_id IN ?", ids).Delete(&model.StockMovement{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("id IN ?", ids).Delete(&model.Variant{}).Error; err != nil {
		logger.Error("Failed to delete variants from database", err, map[string]interface{}{
			"variant_ids": ids,
		})
		return err
	}
	return nil
}

func (r *productRepository) AddVariantValues(variantID uint, valueIDs []uint) error {
	if len(valueIDs) == 0 {
		return nil
	}
	links := make([]model.VariantAttributeValue, 0, len(valueIDs))
	for _, id := range valueIDs {
		links = append(links, model.VariantAttributeValue{VariantID: variantID, AttributeValueID: id})
	}
	return r.db.Create(&links).Error
}

func (r *productRepository) ReplaceVariantValues(variantID uint, valueIDs []uint) error {
	if err := r.db.Where("variant_id = ?", variantID).Delete(&model.VariantAttributeValue{}).Error; err != nil {
		return err
	}
	return r.AddVariantValues(variantID, valueIDs)
}

func (r *productRepository) FindComponents(kitTemplateID uint) ([]model.KitComponent, error) {
	var components []model.KitComponent
	err := r.db.
		Preload("Component").
		Where("kit_template_id = ?", kitTemplateID).
		Order("id ASC").
		Find(&components).Error
	return components, err
}

func (r *productRepository) ReplaceComponents(kitTemplateID uint, components []model.KitComponent) error {
	logger.Debug("Replacing kit components", map[string]interface{}{
		"kit_template_id": kitTemplateID,
		"count":           len(components),
	})

	if err := r.db.Where("kit_template_id = ?", kitTemplateID).Delete(&model.KitComponent{}).Error; err != nil {
		return err
	}
	if len(components) == 0 {
		return nil
	}
	rows := make([]model.KitComponent, 0, len(components))
	for _, c := range components {
		rows = append(rows, model.KitComponent{
			KitTemplateID: kitTemplateID,
			ComponentID:   c.ComponentID,
			Quantity:      c.Quantity,
		})
	}
	return r.db.Omit(clause.Associations).Create(&rows).Error
}

// CountKitsUsing counts component rows of other kits pointing at any of the variants
func (r *productRepository) CountKitsUsing(variantIDs []uint, excludeKitTemplateID uint) (int64, error) {
	if len(variantIDs) == 0 {
		return 0, nil
	}
	var count int64
	query := r.db.Model(&model.KitComponent{}).Where("component_id IN ?", variantIDs)
	if excludeKitTemplateID > 0 {
		query = query.Where("kit_template_id <> ?", excludeKitTemplateID)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *productRepository) AddImage(image *model.ProductImage) error {
	return r.db.Create(image).Error
}

func (r *productRepository) FindImages(templateID uint, ids []uint) ([]model.ProductImage, error) {
	var images []model.ProductImage
	query := r.db.Where("template_id = ?", templateID)
	if ids != nil {
		query = query.Where("id IN ?", ids)
	}
	err := query.Order("sort_order ASC, id ASC").Find(&images).Error
	return images, err
}

func (r *productRepository) DeleteImages(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Where("id IN ?", ids).Delete(&model.ProductImage{}).Error
}
