package service

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sibors/sibors-backend/internal/app/model"
	"github.com/sibors/sibors-backend/internal/app/repository"
	"github.com/sibors/sibors-backend/internal/db"
	"github.com/sibors/sibors-backend/internal/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu        sync.Mutex
	movements []model.StockMovement
}

func (p *recordingPublisher) PublishMovements(movements []model.StockMovement) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.movements = append(p.movements, movements...)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.movements)
}

// testEnv wires every repository and inventory service over one in-memory database.
type testEnv struct {
	db        *gorm.DB
	publisher *recordingPublisher

	productRepo    repository.ProductRepository
	movementRepo   repository.StockMovementRepository
	attributeRepo  repository.AttributeRepository
	categoryRepo   repository.CategoryRepository
	supplierRepo   repository.SupplierRepository
	customerRepo   repository.CustomerRepository
	purchaseRepo   repository.PurchaseRepository
	saleRepo       repository.SaleRepository
	auditRepo      repository.AuditRepository
	accountingRepo repository.AccountingRepository
	userRepo       repository.UserRepository
	roleRepo       repository.RoleRepository

	stock     StockService
	templates TemplateService
	catalog   CatalogIOService
	purchases PurchaseService
	sales     SaleService
	audits    AuditService
}

func setupTestEnv(t *testing.T) *testEnv {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	images, err := storage.NewLocalImageStore(t.TempDir())
	require.NoError(t, err)

	env := &testEnv{
		db:             testDB,
		publisher:      &recordingPublisher{},
		productRepo:    repository.NewProductRepository(testDB),
		movementRepo:   repository.NewStockMovementRepository(testDB),
		attributeRepo:  repository.NewAttributeRepository(testDB),
		categoryRepo:   repository.NewCategoryRepository(testDB),
		supplierRepo:   repository.NewSupplierRepository(testDB),
		customerRepo:   repository.NewCustomerRepository(testDB),
		purchaseRepo:   repository.NewPurchaseRepository(testDB),
		saleRepo:       repository.NewSaleRepository(testDB),
		auditRepo:      repository.NewAuditRepository(testDB),
		accountingRepo: repository.NewAccountingRepository(testDB),
		userRepo:       repository.NewUserRepository(testDB),
		roleRepo:       repository.NewRoleRepository(testDB),
	}
	env.stock = NewStockService(testDB, env.productRepo, env.movementRepo, env.publisher)
	env.templates = NewTemplateService(testDB, env.productRepo, env.attributeRepo, env.categoryRepo,
		env.supplierRepo, env.stock, images, env.publisher)
	env.catalog = NewCatalogIOService(testDB, env.productRepo, env.attributeRepo, env.categoryRepo,
		env.supplierRepo, env.stock, env.publisher)
	env.purchases = NewPurchaseService(testDB, env.purchaseRepo, env.supplierRepo, env.productRepo,
		env.accountingRepo, env.stock, env.publisher)
	env.sales = NewSaleService(testDB, env.saleRepo, env.productRepo, env.customerRepo,
		env.accountingRepo, env.stock, env.publisher)
	env.audits = NewAuditService(testDB, env.auditRepo, env.productRepo, env.stock, env.publisher)
	return env
}

func (e *testEnv) createUser(t *testing.T, username string) *model.User {
	role, err := e.roleRepo.FindByName("Cajero", 0)
	if err != nil {
		role = &model.Role{Name: "Cajero", Permissions: []string{"ventas"}}
		require.NoError(t, e.roleRepo.Create(role))
	}
	user := &model.User{
		Name:         "Usuario " + username,
		Username:     username,
		PasswordHash: "hash",
		Active:       true,
		RoleID:       role.ID,
	}
	require.NoError(t, e.userRepo.Create(user))
	return user
}

// seedAttributes creates Color and Talla and returns value ids keyed "Attribute:Value".
func (e *testEnv) seedAttributes(t *testing.T) map[string]uint {
	ids := make(map[string]uint)
	for name, values := range map[string][]string{
		"Color": {"Rojo", "Azul", "Negro"},
		"Talla": {"S", "M", "L"},
	} {
		attr := &model.Attribute{Name: name}
		require.NoError(t, e.attributeRepo.Create(attr))
		for _, v := range values {
			value := &model.AttributeValue{AttributeID: attr.ID, Value: v}
			require.NoError(t, e.attributeRepo.CreateValue(value))
			ids[name+":"+v] = value.ID
		}
	}
	return ids
}

func (e *testEnv) createSimple(t *testing.T, name, sku string, stock int, price string) *TemplateView {
	result, err := e.templates.CreateTemplate(context.Background(), CreateTemplateInput{
		Name: name,
		Kind: model.TemplateKindSimple,
		Variants: []VariantInput{
			{SKU: sku, Stock: stock, SalePrice: decimal.RequireFromString(price)},
		},
	}, nil)
	require.NoError(t, err)
	return result.Template
}

func (e *testEnv) createKit(t *testing.T, name, sku string, components ...ComponentInput) *TemplateView {
	result, err := e.templates.CreateTemplate(context.Background(), CreateTemplateInput{
		Name:       name,
		Kind:       model.TemplateKindKit,
		Variants:   []VariantInput{{SKU: sku, SalePrice: decimal.NewFromInt(100)}},
		Components: components,
	}, nil)
	require.NoError(t, err)
	return result.Template
}

func (e *testEnv) variantStock(t *testing.T, variantID uint) int {
	variant, err := e.productRepo.FindVariantByID(variantID)
	require.NoError(t, err)
	return variant.Stock
}
