package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/pkg/logger"
)

type ProductRepo interface {
	Create(ctx context.Context, tx *gorm.DB, products []*types.Product) ([]*types.Product, error)
	CreateVariants(ctx context.Context, tx *gorm.DB, variants []*types.ProductVariant) ([]*types.ProductVariant, error)
	Exists(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (bool, error)
	VariantExists(ctx context.Context, tx *gorm.DB, productID, variantID uuid.UUID) (bool, error)
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	repoLog := baseLog.With("repo", "ProductRepo")
	return &productRepo{db: db, log: repoLog}
}

func (pr *productRepo) Create(ctx context.Context, tx *gorm.DB, products []*types.Product) ([]*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if len(products) == 0 {
		return []*types.Product{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (pr *productRepo) CreateVariants(ctx context.Context, tx *gorm.DB, variants []*types.ProductVariant) ([]*types.ProductVariant, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if len(variants) == 0 {
		return []*types.ProductVariant{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

func (pr *productRepo) Exists(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Product{}).
		Where("id = ?", productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (pr *productRepo) VariantExists(ctx context.Context, tx *gorm.DB, productID, variantID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ProductVariant{}).
		Where("id = ? AND product_id = ?", variantID, productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
