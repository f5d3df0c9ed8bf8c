package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
	"bitbucket.org/mmdatafocus/distribution_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID            int             `gorm:"primary_key" json:"id"`
	BusinessId    string          `gorm:"index;not null" json:"business_id"`
	Sku           string          `gorm:"index;size:100;not null" json:"sku" binding:"required"`
	Name          string          `gorm:"index;size:100;not null" json:"name" binding:"required"`
	Barcode       string          `gorm:"size:100" json:"barcode"`
	SalesPrice    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sales_price"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"purchase_price"`
	StockQty      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"stock_qty"`
	IsActive      *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProduct struct {
	Sku           string          `json:"sku" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Barcode       string          `json:"barcode"`
	SalesPrice    decimal.Decimal `json:"sales_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	OpeningStock  decimal.Decimal `json:"opening_stock"`
	IsActive      *bool           `json:"is_active"`
}

func (p *Product) Active() bool {
	return p.IsActive != nil && *p.IsActive
}

func (input *NewProduct) validate(ctx context.Context, businessId string, id int) error {
	if err := utils.ValidateUnique[Product](ctx, businessId, "sku", input.Sku, id); err != nil {
		return utils.NewValidationError(err.Error())
	}
	if input.SalesPrice.IsNegative() || input.PurchasePrice.IsNegative() {
		return utils.NewValidationError("price cannot be negative")
	}
	if input.OpeningStock.IsNegative() {
		return utils.NewValidationError("opening stock cannot be negative")
	}
	return nil
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}

	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	isActive := input.IsActive
	if isActive == nil {
		isActive = utils.NewTrue()
	}

	product := Product{
		BusinessId:    businessId,
		Sku:           input.Sku,
		Name:          input.Name,
		Barcode:       input.Barcode,
		SalesPrice:    input.SalesPrice,
		PurchasePrice: input.PurchasePrice,
		StockQty:      input.OpeningStock,
		IsActive:      isActive,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func UpdateProduct(ctx context.Context, id int, input *NewProduct) (*Product, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}

	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	result, err := utils.FetchModel[Product](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	// stock is never edited through the generic update; only entry completion
	// and quick adjustments may move it
	db := config.GetDB()
	err = db.WithContext(ctx).Model(&result).Updates(map[string]interface{}{
		"Sku":           input.Sku,
		"Name":          input.Name,
		"Barcode":       input.Barcode,
		"SalesPrice":    input.SalesPrice,
		"PurchasePrice": input.PurchasePrice,
		"IsActive":      input.IsActive,
	}).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

func DeleteProduct(ctx context.Context, id int) (*Product, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}

	result, err := utils.FetchModel[Product](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[InventoryEntryItem](ctx, "", "product_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewValidationError("product has been used by inventory entries")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}
	return utils.FetchModel[Product](ctx, businessId, id)
}

func GetProducts(ctx context.Context, name *string) ([]*Product, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}

	db := config.GetDB()
	var results []*Product
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ? OR sku LIKE ?", "%"+*name+"%", "%"+*name+"%")
	}
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// UpdateProductStock is the single point where stock quantity changes.
// The delta may be negative; the WHERE guard makes "would go below zero" and
// the status precondition race both impossible to commit.
func UpdateProductStock(tx *gorm.DB, ctx context.Context, businessId string, productId int, delta decimal.Decimal) error {

	res := tx.WithContext(ctx).Model(&Product{}).
		Where("business_id = ? AND id = ? AND is_active = true", businessId, productId).
		Where("stock_qty + ? >= 0", delta).
		Update("stock_qty", gorm.Expr("stock_qty + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	// distinguish a missing/inactive product from an underflow
	var count int64
	if err := tx.WithContext(ctx).Model(&Product{}).
		Where("business_id = ? AND id = ? AND is_active = true", businessId, productId).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return utils.NewValidationError("product not found or inactive")
	}
	return utils.NewValidationError("stock cannot go below zero")
}
