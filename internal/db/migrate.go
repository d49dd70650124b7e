package db

import (
	"errors"
	"fmt"

	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/pkg/logger"
	"github.com/sibors/sibors-backend/pkg/util"
	"gorm.io/gorm"
)

// Models lists every table in migration order.
func Models() []interface{} {
	return []interface{}{
		&model.Role{},
		&model.User{},
		&model.Company{},
		&model.Category{},
		&model.Supplier{},
		&model.Customer{},
		&model.Attribute{},
		&model.AttributeValue{},
		&model.ProductTemplate{},
		&model.Variant{},
		&model.VariantAttributeValue{},
		&model.ProductImage{},
		&model.KitComponent{},
		&model.StockMovement{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderLine{},
		&model.Sale{},
		&model.SaleLine{},
		&model.SalePayment{},
		&model.Audit{},
		&model.AuditLine{},
		&model.AccountingMovement{},
	}
}

// Migrate runs database migrations and the one-time seed on the global DB
func Migrate() error {
	logger.Info("Running database migrations...")

	if err := MigrateDB(DB); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := SeedDB(DB); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(Models()),
	})
	return nil
}

// MigrateDB creates or updates every table on the given connection
func MigrateDB(db *gorm.DB) error {
	if err := db.SetupJoinTable(&model.Variant{}, "Values", &model.VariantAttributeValue{}); err != nil {
		return fmt.Errorf("failed to set up variant attribute join table: %w", err)
	}
	return db.AutoMigrate(Models()...)
}

type seedAttribute struct {
	name   string
	values []seedValue
}

type seedValue struct {
	value string
	color string
}

var defaultAttributes = []seedAttribute{
	{
		name: "Color",
		values: []seedValue{
			{"Rojo", "#FF0000"},
			{"Verde", "#008000"},
			{"Azul", "#0000FF"},
			{"Negro", "#000000"},
			{"Blanco", "#FFFFFF"},
			{"Amarillo", "#FFFF00"},
			{"Gris", "#808080"},
		},
	},
	{
		name: "Talla",
		values: []seedValue{
			{value: "XS"}, {value: "S"}, {value: "M"}, {value: "L"}, {value: "XL"}, {value: "XXL"},
		},
	},
}

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

// SeedDB inserts the default attributes, the Admin role and the admin user when absent
func SeedDB(db *gorm.DB) error {
	logger.Info("Seeding initial data...")

	if err := seedAttributes(db); err != nil {
		logger.Error("Failed to seed attributes", err)
		return err
	}
	if err := seedAdmin(db); err != nil {
		logger.Error("Failed to seed admin user", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

func seedAttributes(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Attribute{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Attributes already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, a := range defaultAttributes {
			attr := model.Attribute{Name: a.name}
			if err := tx.Create(&attr).Error; err != nil {
				return err
			}
			for _, v := range a.values {
				value := model.AttributeValue{AttributeID: attr.ID, Value: v.value}
				if v.color != "" {
					color := v.color
					value.ColorCode = &color
				}
				if err := tx.Create(&value).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func seedAdmin(db *gorm.DB) error {
	var role model.Role
	err := db.Where("name = ?", model.AdminRoleName).First(&role).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		role = model.Role{Name: model.AdminRoleName, Permissions: model.AvailableModules}
		if err := db.Create(&role).Error; err != nil {
			return err
		}
		logger.Info("Created Admin role")
	case err != nil:
		return err
	default:
		// keep the Admin role in sync when new modules are added
		if !sameModules(role.Permissions, model.AvailableModules) {
			role.Permissions = model.AvailableModules
			if err := db.Save(&role).Error; err != nil {
				return err
			}
			logger.Info("Updated Admin role permissions")
		}
	}

	var count int64
	if err := db.Model(&model.User{}).Where("username = ?", defaultAdminUsername).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := util.HashPassword(defaultAdminPassword)
	if err != nil {
		return err
	}
	admin := model.User{
		Name:         "Administrador",
		Username:     defaultAdminUsername,
		PasswordHash: hash,
		Active:       true,
		RoleID:       role.ID,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	logger.Warn("Created default admin user, change its password", map[string]interface{}{
		"username": defaultAdminUsername,
	})
	return nil
}

func sameModules(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]bool, len(a))
	for _, m := range a {
		seen[m] = true
	}
	for _, m := range b {
		if !seen[m] {
			return false
		}
	}
	return true
}
