package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
	"bitbucket.org/mmdatafocus/distribution_backend/utils"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID          int             `gorm:"primary_key" json:"id"`
	BusinessId  string          `gorm:"index;not null" json:"business_id"`
	OrderNumber string          `gorm:"size:30;not null;uniqueIndex" json:"order_number"`
	ClientId    int             `gorm:"index;not null" json:"client_id" binding:"required"`
	RouteId     int             `gorm:"index;not null" json:"route_id" binding:"required"`
	Status      OrderStatus     `gorm:"type:enum('Pending','Confirmed','Delivered','Cancelled');default:Pending" json:"status"`
	OrderDate   time.Time       `gorm:"index;not null" json:"order_date"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	Notes       string          `gorm:"type:text" json:"notes"`
	Details     []OrderDetail   `gorm:"foreignKey:OrderId;constraint:OnDelete:CASCADE" json:"details"`
	CreatedBy   int             `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type OrderDetail struct {
	ID        int             `gorm:"primary_key" json:"id"`
	OrderId   int             `gorm:"index;not null" json:"order_id"`
	ProductId int             `gorm:"index;not null" json:"product_id" binding:"required"`
	Qty       decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"qty" binding:"required"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewOrder struct {
	ClientId  int              `json:"client_id" binding:"required"`
	RouteId   int              `json:"route_id" binding:"required"`
	OrderDate time.Time        `json:"order_date" binding:"required"`
	Notes     string           `json:"notes"`
	Details   []NewOrderDetail `json:"details" binding:"required,dive"`
}

type NewOrderDetail struct {
	ProductId int             `json:"product_id" binding:"required"`
	Qty       decimal.Decimal `json:"qty" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (input *NewOrder) validate(ctx context.Context, businessId string) error {
	if err := utils.ValidateResourceId[Client](ctx, businessId, input.ClientId); err != nil {
		return utils.NewValidationError("client not found")
	}
	if err := utils.ValidateResourceId[Route](ctx, businessId, input.RouteId); err != nil {
		return utils.NewValidationError("route not found")
	}
	if len(input.Details) == 0 {
		return utils.NewValidationError("order requires at least one line item")
	}
	for _, detail := range input.Details {
		if !detail.Qty.IsPositive() {
			return utils.NewValidationError("order qty must be positive")
		}
		count, err := utils.ResourceCountWhere[Product](ctx, businessId, "id = ? AND is_active = true", detail.ProductId)
		if err != nil {
			return err
		}
		if count == 0 {
			return utils.NewValidationError("product not found or inactive")
		}
	}
	return nil
}

func CreateOrder(ctx context.Context, input *NewOrder) (*Order, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, utils.NewValidationError("user id is required")
	}

	if err := input.validate(ctx, businessId); err != nil {
		return nil, err
	}

	totalAmount := decimal.Zero
	var details []OrderDetail
	for _, detail := range input.Details {
		amount := detail.Qty.Mul(detail.UnitPrice)
		totalAmount = totalAmount.Add(amount)
		details = append(details, OrderDetail{
			ProductId: detail.ProductId,
			Qty:       detail.Qty,
			UnitPrice: detail.UnitPrice,
			Amount:    amount,
		})
	}

	order := Order{
		BusinessId:  businessId,
		ClientId:    input.ClientId,
		RouteId:     input.RouteId,
		Status:      OrderStatusPending,
		OrderDate:   input.OrderDate,
		TotalAmount: totalAmount,
		Notes:       input.Notes,
		Details:     details,
		CreatedBy:   userId,
	}

	db := config.GetDB()
	var err error
	// retry once on a duplicate generated number
	for attempt := 0; attempt < 2; attempt++ {
		order.OrderNumber = generateDocumentNumber("ORD")
		err = db.WithContext(ctx).Create(&order).Error
		if !isDuplicateKeyError(err) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func UpdateOrderStatus(ctx context.Context, id int, status OrderStatus) (*Order, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}

	result, err := utils.FetchModel[Order](ctx, businessId, id, "Details")
	if err != nil {
		return nil, err
	}

	if result.Status == OrderStatusDelivered || result.Status == OrderStatusCancelled {
		return nil, utils.NewStateError("order is already finalized", string(result.Status))
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&result).Update("Status", status).Error; err != nil {
		return nil, err
	}
	result.Status = status
	return result, nil
}

func DeleteOrder(ctx context.Context, id int) (*Order, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}

	result, err := utils.FetchModel[Order](ctx, businessId, id, "Details")
	if err != nil {
		return nil, err
	}
	if result.Status != OrderStatusPending && result.Status != OrderStatusCancelled {
		return nil, utils.NewStateError("only pending or cancelled orders can be deleted", string(result.Status))
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(&result).Association("Details").Unscoped().Clear(); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Delete(&result).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	return result, tx.Commit().Error
}

func GetOrder(ctx context.Context, id int) (*Order, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}
	return utils.FetchModel[Order](ctx, businessId, id, "Details")
}

func GetOrders(ctx context.Context, routeId *int, status *OrderStatus) ([]*Order, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}

	db := config.GetDB()
	var results []*Order
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if routeId != nil && *routeId > 0 {
		dbCtx = dbCtx.Where("route_id = ?", *routeId)
	}
	if status != nil {
		dbCtx = dbCtx.Where("status = ?", *status)
	}
	if err := dbCtx.Preload("Details").Order("order_date DESC, id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetPendingOrdersByRouteAndDate feeds the production dashboard: pending
// orders on the route whose order date falls on the target calendar day.
func GetPendingOrdersByRouteAndDate(ctx context.Context, businessId string, routeId int, date time.Time) ([]*Order, error) {

	business, err := GetBusinessById(ctx, businessId)
	if err != nil {
		return nil, err
	}
	dayStart, err := utils.ConvertToDate(date, business.Timezone)
	if err != nil {
		return nil, err
	}
	dayEnd := dayStart.AddDate(0, 0, 1)

	db := config.GetDB()
	var results []*Order
	err = db.WithContext(ctx).
		Where("business_id = ? AND route_id = ? AND status = ?", businessId, routeId, OrderStatusPending).
		Where("order_date >= ? AND order_date < ?", dayStart, dayEnd).
		Preload("Details").
		Order("id").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
