package models

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
	"bitbucket.org/mmdatafocus/distribution_backend/utils"
	"github.com/shopspring/decimal"
)

// InventoryEntry is a single inventory movement document. It owns its items
// (ordered by insertion, cascade-deleted with the header) and walks the
// Draft -> Pending -> Approved -> Completed workflow; Cancelled is reachable
// from every non-Completed status. Stock only moves on completion.
type InventoryEntry struct {
	ID                int                  `gorm:"primary_key" json:"id"`
	BusinessId        string               `gorm:"index;not null" json:"business_id"`
	EntryNumber       string               `gorm:"size:30;not null;uniqueIndex" json:"entry_number"`
	EntryType         InventoryEntryType   `gorm:"type:enum('Production','Purchase','Return','Adjustment','Transfer','Initial');not null" json:"entry_type"`
	Status            InventoryEntryStatus `gorm:"type:enum('Draft','Pending','Approved','Completed','Cancelled');default:Draft" json:"status"`
	SupplierInfo      string               `gorm:"size:255" json:"supplier_info"`
	TotalCost         decimal.Decimal      `gorm:"type:decimal(20,4);default:0" json:"total_cost"`
	EntryDate         time.Time            `gorm:"index;not null" json:"entry_date"`
	ExpectedDate      *time.Time           `json:"expected_date"`
	CompletedDate     *time.Time           `json:"completed_date"`
	Notes             string               `gorm:"type:text" json:"notes"`
	ReferenceDocument string               `gorm:"size:255" json:"reference_document"`
	Items             []InventoryEntryItem `gorm:"foreignKey:InventoryEntryId;constraint:OnDelete:CASCADE" json:"items"`
	CreatedBy         int                  `gorm:"not null" json:"created_by"`
	CreatedAt         time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
}

type InventoryEntryItem struct {
	ID               int             `gorm:"primary_key" json:"id"`
	InventoryEntryId int             `gorm:"index;not null" json:"inventory_entry_id"`
	ProductId        int             `gorm:"index;not null" json:"product_id" binding:"required"`
	Qty              decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"qty" binding:"required"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_cost"`
	TotalCost        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_cost"`
	BatchNumber      *string         `gorm:"size:100" json:"batch_number"`
	ExpiryDate       *time.Time      `json:"expiry_date"`
	Notes            string          `gorm:"size:255" json:"notes"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewInventoryEntry struct {
	EntryType         InventoryEntryType      `json:"entry_type" binding:"required"`
	SupplierInfo      string                  `json:"supplier_info"`
	EntryDate         time.Time               `json:"entry_date" binding:"required"`
	ExpectedDate      *time.Time              `json:"expected_date"`
	Notes             string                  `json:"notes"`
	ReferenceDocument string                  `json:"reference_document"`
	Items             []NewInventoryEntryItem `json:"items" binding:"required,dive"`
}

type NewInventoryEntryItem struct {
	ProductId   int             `json:"product_id" binding:"required"`
	Qty         decimal.Decimal `json:"qty" binding:"required"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	BatchNumber *string         `json:"batch_number"`
	ExpiryDate  *time.Time      `json:"expiry_date"`
	Notes       string          `json:"notes"`
}

// UpdateInventoryEntryInput edits Draft header fields only. Items and the
// total cost are frozen at creation time; the stale-total trade-off is
// accepted and documented rather than silently recomputed.
type UpdateInventoryEntryInput struct {
	SupplierInfo      string     `json:"supplier_info"`
	EntryDate         time.Time  `json:"entry_date" binding:"required"`
	ExpectedDate      *time.Time `json:"expected_date"`
	Notes             string     `json:"notes"`
	ReferenceDocument string     `json:"reference_document"`
}

type InventoryEntriesConnection struct {
	Edges    []*InventoryEntriesEdge `json:"edges"`
	PageInfo *PageInfo               `json:"pageInfo"`
}

type InventoryEntriesEdge Edge[InventoryEntry]

func (obj InventoryEntry) GetId() int {
	return obj.ID
}

// returns decoded cursor string
func (obj InventoryEntry) GetCursor() string {
	return obj.EntryDate.Format("2006-01-02 15:04:05")
}

/*
	status workflow
*/

// canTransition is the single source of truth for the entry workflow. It is a
// pure function so the table can be tested without a database.
func canTransition(current, target InventoryEntryStatus) bool {
	switch target {
	case InventoryEntryStatusPending:
		return current == InventoryEntryStatusDraft
	case InventoryEntryStatusApproved:
		return current == InventoryEntryStatusDraft || current == InventoryEntryStatusPending
	case InventoryEntryStatusCompleted:
		return current == InventoryEntryStatusApproved || current == InventoryEntryStatusPending
	case InventoryEntryStatusCancelled:
		return current != InventoryEntryStatusCompleted
	default:
		return false
	}
}

// transitionSources lists the statuses a preconditioned UPDATE accepts for the
// target. Matches canTransition row by row.
func transitionSources(target InventoryEntryStatus) []InventoryEntryStatus {
	switch target {
	case InventoryEntryStatusPending:
		return []InventoryEntryStatus{InventoryEntryStatusDraft}
	case InventoryEntryStatusApproved:
		return []InventoryEntryStatus{InventoryEntryStatusDraft, InventoryEntryStatusPending}
	case InventoryEntryStatusCompleted:
		return []InventoryEntryStatus{InventoryEntryStatusApproved, InventoryEntryStatusPending}
	case InventoryEntryStatusCancelled:
		return []InventoryEntryStatus{
			InventoryEntryStatusDraft, InventoryEntryStatusPending,
			InventoryEntryStatusApproved, InventoryEntryStatusCancelled,
		}
	default:
		return nil
	}
}

// computeEntryTotalCost sums qty * unit_cost over the input items.
func computeEntryTotalCost(items []NewInventoryEntryItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Qty.Mul(item.UnitCost))
	}
	return total
}

func (input *NewInventoryEntry) validate(ctx context.Context, businessId string, userId int) error {
	if _, ok := entryNumberPrefixes[input.EntryType]; !ok {
		return utils.NewValidationError("invalid entry type")
	}
	if err := utils.ValidateResourceId[User](ctx, businessId, userId); err != nil {
		return utils.NewValidationError("user not found")
	}
	if len(input.Items) == 0 {
		return utils.NewValidationError("entry requires at least one item")
	}
	for _, item := range input.Items {
		if !item.Qty.IsPositive() {
			return utils.NewValidationError("item qty must be positive")
		}
		if item.UnitCost.IsNegative() {
			return utils.NewValidationError("unit cost cannot be negative")
		}
		count, err := utils.ResourceCountWhere[Product](ctx, businessId, "id = ? AND is_active = true", item.ProductId)
		if err != nil {
			return err
		}
		if count == 0 {
			return utils.NewValidationError("product not found or inactive")
		}
	}
	return nil
}

// CreateInventoryEntry persists the header and its items atomically. The
// entry always starts in Draft; the total cost is fixed here and never
// recomputed. Number uniqueness rides on the column index with one retry on
// a duplicate key.
func CreateInventoryEntry(ctx context.Context, input *NewInventoryEntry) (*InventoryEntry, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, utils.NewValidationError("user id is required")
	}

	if err := input.validate(ctx, businessId, userId); err != nil {
		return nil, err
	}

	var items []InventoryEntryItem
	for _, item := range input.Items {
		items = append(items, InventoryEntryItem{
			ProductId:   item.ProductId,
			Qty:         item.Qty,
			UnitCost:    item.UnitCost,
			TotalCost:   item.Qty.Mul(item.UnitCost),
			BatchNumber: item.BatchNumber,
			ExpiryDate:  item.ExpiryDate,
			Notes:       item.Notes,
		})
	}

	entry := InventoryEntry{
		BusinessId:        businessId,
		EntryType:         input.EntryType,
		Status:            InventoryEntryStatusDraft,
		SupplierInfo:      input.SupplierInfo,
		TotalCost:         computeEntryTotalCost(input.Items),
		EntryDate:         input.EntryDate,
		ExpectedDate:      input.ExpectedDate,
		Notes:             input.Notes,
		ReferenceDocument: input.ReferenceDocument,
		Items:             items,
		CreatedBy:         userId,
	}

	db := config.GetDB()
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		entry.EntryNumber = generateDocumentNumber(entryNumberPrefixes[input.EntryType])
		err = db.WithContext(ctx).Create(&entry).Error
		if !isDuplicateKeyError(err) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// transitionEntryStatus applies a no-side-effect status change through a
// preconditioned single-row UPDATE. RowsAffected tells us whether the
// transition won; a concurrent writer that got there first surfaces as a
// StateError with the fresh status.
func transitionEntryStatus(ctx context.Context, id int, target InventoryEntryStatus, message string) (*InventoryEntry, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}

	entry, err := utils.FetchModel[InventoryEntry](ctx, businessId, id, "Items")
	if err != nil {
		return nil, utils.NewNotFoundError("entry not found")
	}

	db := config.GetDB()
	res := db.WithContext(ctx).Model(&InventoryEntry{}).
		Where("business_id = ? AND id = ? AND status IN ?", businessId, id, transitionSources(target)).
		Update("status", target)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected != 1 {
		current, err := utils.FetchModel[InventoryEntry](ctx, businessId, id)
		if err != nil {
			return nil, utils.NewNotFoundError("entry not found")
		}
		return nil, utils.NewStateError(message, string(current.Status))
	}
	entry.Status = target
	return entry, nil
}

// SubmitInventoryEntry moves a Draft entry into Pending.
func SubmitInventoryEntry(ctx context.Context, id int) (*InventoryEntry, error) {
	return transitionEntryStatus(ctx, id, InventoryEntryStatusPending, "only a draft entry can be submitted")
}

// ApproveInventoryEntry marks the entry Approved. No stock effect.
func ApproveInventoryEntry(ctx context.Context, id int) (*InventoryEntry, error) {
	return transitionEntryStatus(ctx, id, InventoryEntryStatusApproved, "entry cannot be approved from its current status")
}

// CompleteInventoryEntry finalizes the entry: the status flips to Completed
// with completed_date set, and every item's quantity is added to its product's
// stock. All of it commits or none of it does. The preconditioned UPDATE is
// the authoritative guard against two concurrent completions; the redis lock
// only narrows the window and is best effort.
func CompleteInventoryEntry(ctx context.Context, id int) (*InventoryEntry, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}

	entry, err := utils.FetchModel[InventoryEntry](ctx, businessId, id, "Items")
	if err != nil {
		return nil, utils.NewNotFoundError("entry not found")
	}

	if locker := config.GetRedisLock(); locker != nil {
		lock, lockErr := locker.Obtain(ctx, fmt.Sprintf("EntryCompletion:%s:%d", businessId, id), 10*time.Second, nil)
		if lockErr == nil {
			defer lock.Release(context.Background())
		}
	}

	db := config.GetDB()
	tx := db.Begin()

	now := time.Now().UTC()
	res := tx.WithContext(ctx).Model(&InventoryEntry{}).
		Where("business_id = ? AND id = ? AND status IN ?", businessId, id, transitionSources(InventoryEntryStatusCompleted)).
		Updates(map[string]interface{}{
			"status":         InventoryEntryStatusCompleted,
			"completed_date": &now,
		})
	if res.Error != nil {
		tx.Rollback()
		return nil, res.Error
	}
	if res.RowsAffected != 1 {
		tx.Rollback()
		current, err := utils.FetchModel[InventoryEntry](ctx, businessId, id)
		if err != nil {
			return nil, utils.NewNotFoundError("entry not found")
		}
		return nil, utils.NewStateError("entry cannot be completed from its current status", string(current.Status))
	}

	// completion always adds stock; entry type does not drive the sign
	for _, item := range entry.Items {
		if err := UpdateProductStock(tx, ctx, businessId, item.ProductId, item.Qty); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	entry.Status = InventoryEntryStatusCompleted
	entry.CompletedDate = &now
	return entry, nil
}

// CancelInventoryEntry sets the entry to Cancelled. Legal from every status
// except Completed; no stock effect, even for an Approved entry.
func CancelInventoryEntry(ctx context.Context, id int) (*InventoryEntry, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}

	entry, err := utils.FetchModel[InventoryEntry](ctx, businessId, id, "Items")
	if err != nil {
		return nil, utils.NewNotFoundError("entry not found")
	}
	if entry.Status == InventoryEntryStatusCompleted {
		return nil, utils.NewStateError("cannot cancel a completed entry", string(entry.Status))
	}

	db := config.GetDB()
	res := db.WithContext(ctx).Model(&InventoryEntry{}).
		Where("business_id = ? AND id = ? AND status <> ?", businessId, id, InventoryEntryStatusCompleted).
		Update("status", InventoryEntryStatusCancelled)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected != 1 {
		// a concurrent completion slipped in between the read and the update
		return nil, utils.NewStateError("cannot cancel a completed entry", string(InventoryEntryStatusCompleted))
	}
	entry.Status = InventoryEntryStatusCancelled
	return entry, nil
}

// BatchUpdateInventoryEntryStatus applies one target status to several entries
// in a single transaction. The pre-check fails the whole batch before any
// write when one target is ineligible; the per-row preconditioned UPDATEs keep
// that promise under concurrency too.
func BatchUpdateInventoryEntryStatus(ctx context.Context, ids []int, target InventoryEntryStatus) ([]*InventoryEntry, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}
	if len(ids) == 0 {
		return nil, utils.NewValidationError("entry ids are required")
	}
	if len(transitionSources(target)) == 0 {
		return nil, utils.NewValidationError("invalid target status")
	}

	unqIds := utils.UniqueSlice(ids)
	db := config.GetDB()
	var entries []*InventoryEntry
	if err := db.WithContext(ctx).Where("business_id = ? AND id IN ?", businessId, unqIds).
		Preload("Items").Order("id").Find(&entries).Error; err != nil {
		return nil, err
	}
	if len(entries) != len(unqIds) {
		return nil, utils.NewNotFoundError("entry not found")
	}

	// fail fast: no partial batch
	for _, entry := range entries {
		if !canTransition(entry.Status, target) {
			return nil, utils.NewStateError(
				fmt.Sprintf("entry %s cannot move to %s", entry.EntryNumber, target),
				string(entry.Status))
		}
	}

	tx := db.Begin()
	now := time.Now().UTC()
	for _, entry := range entries {
		updates := map[string]interface{}{"status": target}
		if target == InventoryEntryStatusCompleted {
			updates["completed_date"] = &now
		}
		res := tx.WithContext(ctx).Model(&InventoryEntry{}).
			Where("business_id = ? AND id = ? AND status IN ?", businessId, entry.ID, transitionSources(target)).
			Updates(updates)
		if res.Error != nil {
			tx.Rollback()
			return nil, res.Error
		}
		if res.RowsAffected != 1 {
			tx.Rollback()
			return nil, utils.NewStateError(
				fmt.Sprintf("entry %s cannot move to %s", entry.EntryNumber, target),
				string(entry.Status))
		}
		if target == InventoryEntryStatusCompleted {
			for _, item := range entry.Items {
				if err := UpdateProductStock(tx, ctx, businessId, item.ProductId, item.Qty); err != nil {
					tx.Rollback()
					return nil, err
				}
			}
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	for _, entry := range entries {
		entry.Status = target
		if target == InventoryEntryStatusCompleted {
			entry.CompletedDate = &now
		}
	}
	return entries, nil
}

/*
	validation report
*/

type EntryValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// classifyEntryItems runs the read-only item checks against an in-memory
// product snapshot. Pure so the classifier is testable without a database.
func classifyEntryItems(entryType InventoryEntryType, items []InventoryEntryItem, products map[int]*Product) EntryValidationResult {
	result := EntryValidationResult{Valid: true, Errors: []string{}, Warnings: []string{}}

	for i, item := range items {
		product, ok := products[item.ProductId]
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("item %d: product %d not found", i+1, item.ProductId))
		} else if !product.Active() {
			result.Errors = append(result.Errors, fmt.Sprintf("item %d: product %s is inactive", i+1, product.Name))
		}
		if !item.Qty.IsPositive() {
			result.Errors = append(result.Errors, fmt.Sprintf("item %d: qty must be positive", i+1))
		}
		if item.UnitCost.IsNegative() {
			result.Errors = append(result.Errors, fmt.Sprintf("item %d: unit cost cannot be negative", i+1))
		} else if item.UnitCost.IsZero() &&
			(entryType == InventoryEntryTypePurchase || entryType == InventoryEntryTypeProduction) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("item %d: zero unit cost on a %s entry", i+1, entryType))
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// ValidateInventoryEntry re-checks an entry's items without mutating anything.
// Missing or inactive products, non-positive quantities and negative unit
// costs are errors; a zero unit cost on Purchase/Production is only a warning.
func ValidateInventoryEntry(ctx context.Context, id int) (*EntryValidationResult, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}

	entry, err := utils.FetchModel[InventoryEntry](ctx, businessId, id, "Items")
	if err != nil {
		return nil, utils.NewNotFoundError("entry not found")
	}

	productIds := make([]int, 0, len(entry.Items))
	for _, item := range entry.Items {
		productIds = append(productIds, item.ProductId)
	}
	var products []*Product
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("business_id = ? AND id IN ?", businessId, utils.UniqueSlice(productIds)).
		Find(&products).Error; err != nil {
		return nil, err
	}
	productsById := make(map[int]*Product, len(products))
	for _, p := range products {
		productsById[p.ID] = p
	}

	result := classifyEntryItems(entry.EntryType, entry.Items, productsById)
	return &result, nil
}

// QuickStockAdjustment moves stock by a signed delta in one shot, leaving an
// audit trail: an Adjustment entry born Completed whose single item records
// the absolute quantity at zero cost. The item always shows a positive
// quantity; only the applied delta carries the sign.
func QuickStockAdjustment(ctx context.Context, productId int, delta decimal.Decimal, reason string) (*InventoryEntry, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, utils.NewValidationError("user id is required")
	}
	if delta.IsZero() {
		return nil, utils.NewValidationError("delta cannot be zero")
	}

	count, err := utils.ResourceCountWhere[Product](ctx, businessId, "id = ? AND is_active = true", productId)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, utils.NewValidationError("product not found or inactive")
	}

	now := time.Now().UTC()
	entry := InventoryEntry{
		BusinessId:    businessId,
		EntryType:     InventoryEntryTypeAdjustment,
		Status:        InventoryEntryStatusCompleted,
		TotalCost:     decimal.Zero,
		EntryDate:     now,
		CompletedDate: &now,
		Notes:         reason,
		Items: []InventoryEntryItem{{
			ProductId: productId,
			Qty:       delta.Abs(),
			UnitCost:  decimal.Zero,
			TotalCost: decimal.Zero,
		}},
		CreatedBy: userId,
	}

	db := config.GetDB()
	tx := db.Begin()
	for attempt := 0; attempt < 2; attempt++ {
		entry.EntryNumber = generateDocumentNumber(entryNumberPrefixes[InventoryEntryTypeAdjustment])
		err = tx.WithContext(ctx).Create(&entry).Error
		if !isDuplicateKeyError(err) {
			break
		}
		entry.ID = 0
	}
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// signed delta applies here; the stock guard rejects a below-zero result
	if err := UpdateProductStock(tx, ctx, businessId, productId, delta); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

/*
	CRUD
*/

func UpdateInventoryEntry(ctx context.Context, id int, input *UpdateInventoryEntryInput) (*InventoryEntry, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}

	entry, err := utils.FetchModel[InventoryEntry](ctx, businessId, id, "Items")
	if err != nil {
		return nil, utils.NewNotFoundError("entry not found")
	}

	// the Draft precondition lives in the WHERE so a concurrent transition
	// cannot slip between check and write
	db := config.GetDB()
	res := db.WithContext(ctx).Model(&InventoryEntry{}).
		Where("business_id = ? AND id = ? AND status = ?", businessId, id, InventoryEntryStatusDraft).
		Updates(map[string]interface{}{
			"supplier_info":      input.SupplierInfo,
			"entry_date":         input.EntryDate,
			"expected_date":      input.ExpectedDate,
			"notes":              input.Notes,
			"reference_document": input.ReferenceDocument,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected != 1 {
		current, err := utils.FetchModel[InventoryEntry](ctx, businessId, id)
		if err != nil {
			return nil, utils.NewNotFoundError("entry not found")
		}
		return nil, utils.NewStateError("only a draft entry can be edited", string(current.Status))
	}

	entry.SupplierInfo = input.SupplierInfo
	entry.EntryDate = input.EntryDate
	entry.ExpectedDate = input.ExpectedDate
	entry.Notes = input.Notes
	entry.ReferenceDocument = input.ReferenceDocument
	return entry, nil
}

func DeleteInventoryEntry(ctx context.Context, id int) (*InventoryEntry, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}

	entry, err := utils.FetchModel[InventoryEntry](ctx, businessId, id, "Items")
	if err != nil {
		return nil, utils.NewNotFoundError("entry not found")
	}

	// status precondition in the DELETE's WHERE, same race guard as the
	// transitions
	db := config.GetDB()
	tx := db.Begin()
	res := tx.WithContext(ctx).
		Where("business_id = ? AND id = ? AND status IN ?", businessId, id,
			[]InventoryEntryStatus{InventoryEntryStatusDraft, InventoryEntryStatusCancelled}).
		Delete(&InventoryEntry{})
	if res.Error != nil {
		tx.Rollback()
		return nil, res.Error
	}
	if res.RowsAffected != 1 {
		tx.Rollback()
		current, err := utils.FetchModel[InventoryEntry](ctx, businessId, id)
		if err != nil {
			return nil, utils.NewNotFoundError("entry not found")
		}
		return nil, utils.NewStateError("only draft or cancelled entries can be deleted", string(current.Status))
	}
	if err := tx.WithContext(ctx).Where("inventory_entry_id = ?", id).Delete(&InventoryEntryItem{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	return entry, tx.Commit().Error
}

func GetInventoryEntry(ctx context.Context, id int) (*InventoryEntry, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}
	entry, err := utils.FetchModel[InventoryEntry](ctx, businessId, id, "Items")
	if err != nil {
		return nil, utils.NewNotFoundError("entry not found")
	}
	return entry, nil
}

func PaginateInventoryEntries(ctx context.Context, limit int, after *string,
	entryType *InventoryEntryType, status *InventoryEntryStatus) (*InventoryEntriesConnection, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Preload("Items").Where("business_id = ?", businessId)
	if entryType != nil {
		dbCtx = dbCtx.Where("entry_type = ?", *entryType)
	}
	if status != nil {
		dbCtx = dbCtx.Where("status = ?", *status)
	}

	edges, pageInfo, err := FetchPageCompositeCursor[InventoryEntry](dbCtx, limit, after, "entry_date", "<")
	if err != nil {
		return nil, err
	}

	connection := InventoryEntriesConnection{PageInfo: pageInfo}
	for i := range edges {
		edge := InventoryEntriesEdge(edges[i])
		connection.Edges = append(connection.Edges, &edge)
	}
	return &connection, nil
}

type EntrySummaryRow struct {
	EntryType InventoryEntryType   `json:"entry_type"`
	Status    InventoryEntryStatus `json:"status"`
	Count     int                  `json:"count"`
	TotalCost decimal.Decimal      `json:"total_cost"`
}

// GetInventoryEntrySummary groups entries by type and status with counts and
// summed total cost.
func GetInventoryEntrySummary(ctx context.Context) ([]*EntrySummaryRow, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}

	db := config.GetDB()
	var rows []*EntrySummaryRow
	err := db.WithContext(ctx).Model(&InventoryEntry{}).
		Select("entry_type, status, COUNT(*) AS count, COALESCE(SUM(total_cost), 0) AS total_cost").
		Where("business_id = ?", businessId).
		Group("entry_type, status").
		Order("entry_type, status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
