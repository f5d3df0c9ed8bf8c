package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
	"bitbucket.org/mmdatafocus/distribution_backend/utils"
	"github.com/shopspring/decimal"
)

type Invoice struct {
	ID            int             `gorm:"primary_key" json:"id"`
	BusinessId    string          `gorm:"index;not null" json:"business_id"`
	InvoiceNumber string          `gorm:"size:30;not null;uniqueIndex" json:"invoice_number"`
	OrderId       int             `gorm:"index;not null" json:"order_id"`
	ClientId      int             `gorm:"index;not null" json:"client_id"`
	Status        InvoiceStatus   `gorm:"type:enum('Draft','Issued','Paid','Cancelled');default:Draft" json:"status"`
	InvoiceDate   time.Time       `gorm:"index;not null" json:"invoice_date"`
	DueDate       *time.Time      `json:"due_date"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal"`
	Discount      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discount"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	Notes         string          `gorm:"type:text" json:"notes"`
	Items         []InvoiceItem   `gorm:"foreignKey:InvoiceId;constraint:OnDelete:CASCADE" json:"items"`
	CreatedBy     int             `gorm:"not null" json:"created_by"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type InvoiceItem struct {
	ID        int             `gorm:"primary_key" json:"id"`
	InvoiceId int             `gorm:"index;not null" json:"invoice_id"`
	ProductId int             `gorm:"index;not null" json:"product_id"`
	Name      string          `gorm:"size:100" json:"name"`
	Qty       decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"qty"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewInvoice struct {
	OrderId     int             `json:"order_id" binding:"required"`
	InvoiceDate time.Time       `json:"invoice_date" binding:"required"`
	DueDate     *time.Time      `json:"due_date"`
	Discount    decimal.Decimal `json:"discount"`
	Notes       string          `json:"notes"`
}

// CreateInvoiceFromOrder snapshots the order's line items into an invoice.
// Amounts are derived from the order details at generation time; later order
// edits do not flow back into the invoice.
func CreateInvoiceFromOrder(ctx context.Context, input *NewInvoice) (*Invoice, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, utils.NewValidationError("user id is required")
	}

	if input.Discount.IsNegative() {
		return nil, utils.NewValidationError("discount cannot be negative")
	}

	order, err := utils.FetchModel[Order](ctx, businessId, input.OrderId, "Details")
	if err != nil {
		return nil, utils.NewNotFoundError("order not found")
	}
	if order.Status == OrderStatusCancelled {
		return nil, utils.NewStateError("cannot invoice a cancelled order", string(order.Status))
	}
	if len(order.Details) == 0 {
		return nil, utils.NewValidationError("order has no line items")
	}

	productIds := make([]int, 0, len(order.Details))
	for _, detail := range order.Details {
		productIds = append(productIds, detail.ProductId)
	}
	productNames := make(map[int]string)
	var products []*Product
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("business_id = ? AND id IN ?", businessId, utils.UniqueSlice(productIds)).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		productNames[p.ID] = p.Name
	}

	subtotal := decimal.Zero
	var items []InvoiceItem
	for _, detail := range order.Details {
		subtotal = subtotal.Add(detail.Amount)
		items = append(items, InvoiceItem{
			ProductId: detail.ProductId,
			Name:      productNames[detail.ProductId],
			Qty:       detail.Qty,
			UnitPrice: detail.UnitPrice,
			Amount:    detail.Amount,
		})
	}
	if input.Discount.GreaterThan(subtotal) {
		return nil, utils.NewValidationError("discount cannot exceed the subtotal")
	}

	invoice := Invoice{
		BusinessId:  businessId,
		OrderId:     order.ID,
		ClientId:    order.ClientId,
		Status:      InvoiceStatusDraft,
		InvoiceDate: input.InvoiceDate,
		DueDate:     input.DueDate,
		Subtotal:    subtotal,
		Discount:    input.Discount,
		TotalAmount: subtotal.Sub(input.Discount),
		Notes:       input.Notes,
		Items:       items,
		CreatedBy:   userId,
	}

	for attempt := 0; attempt < 2; attempt++ {
		invoice.InvoiceNumber = generateDocumentNumber("INV")
		err = db.WithContext(ctx).Create(&invoice).Error
		if !isDuplicateKeyError(err) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft:  {InvoiceStatusIssued, InvoiceStatusCancelled},
	InvoiceStatusIssued: {InvoiceStatusPaid, InvoiceStatusCancelled},
}

func UpdateInvoiceStatus(ctx context.Context, id int, status InvoiceStatus) (*Invoice, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}

	result, err := utils.FetchModel[Invoice](ctx, businessId, id, "Items")
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, next := range invoiceTransitions[result.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, utils.NewStateError("invalid invoice status transition", string(result.Status))
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&result).Update("Status", status).Error; err != nil {
		return nil, err
	}
	result.Status = status
	return result, nil
}

func DeleteInvoice(ctx context.Context, id int) (*Invoice, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}

	result, err := utils.FetchModel[Invoice](ctx, businessId, id, "Items")
	if err != nil {
		return nil, err
	}
	if result.Status != InvoiceStatusDraft && result.Status != InvoiceStatusCancelled {
		return nil, utils.NewStateError("only draft or cancelled invoices can be deleted", string(result.Status))
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(&result).Association("Items").Unscoped().Clear(); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Delete(&result).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	return result, tx.Commit().Error
}

func GetInvoice(ctx context.Context, id int) (*Invoice, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}
	return utils.FetchModel[Invoice](ctx, businessId, id, "Items")
}

func GetInvoices(ctx context.Context, clientId *int, status *InvoiceStatus) ([]*Invoice, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}

	db := config.GetDB()
	var results []*Invoice
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if clientId != nil && *clientId > 0 {
		dbCtx = dbCtx.Where("client_id = ?", *clientId)
	}
	if status != nil {
		dbCtx = dbCtx.Where("status = ?", *status)
	}
	if err := dbCtx.Preload("Items").Order("invoice_date DESC, id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
