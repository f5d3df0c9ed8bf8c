package reports

import (
	"context"
	"sort"
	"time"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
	"bitbucket.org/mmdatafocus/distribution_backend/models"
	"bitbucket.org/mmdatafocus/distribution_backend/utils"
	"github.com/shopspring/decimal"
)

type ProductionRow struct {
	ProductId int             `json:"product_id"`
	Name      string          `json:"name"`
	Committed decimal.Decimal `json:"committed"`
	Stock     decimal.Decimal `json:"stock"`
	ToProduce decimal.Decimal `json:"to_produce"`
}

type ProductionSummary struct {
	ProductsConsidered int `json:"products_considered"`
	ProductsToProduce  int `json:"products_to_produce"`
}

type ProductionDashboardResponse struct {
	RouteId   int               `json:"route_id"`
	RouteName string            `json:"route_name"`
	Date      time.Time         `json:"date"`
	Summary   ProductionSummary `json:"summary"`
	Rows      []*ProductionRow  `json:"rows"`
}

// ProductDemand couples a product's committed (pending order) quantity with
// its current stock, in encounter order.
type ProductDemand struct {
	ProductId int
	Name      string
	Committed decimal.Decimal
	Stock     decimal.Decimal
}

// computeProductionRows keeps products where either committed or stock is
// nonzero, computes to_produce = max(0, committed - stock), and sorts rows by
// to_produce descending. The sort is stable so ties keep encounter order.
// Pure over its inputs.
func computeProductionRows(products []ProductDemand) ([]*ProductionRow, ProductionSummary) {

	rows := make([]*ProductionRow, 0, len(products))
	for _, p := range products {
		if p.Committed.IsZero() && p.Stock.IsZero() {
			continue
		}
		toProduce := p.Committed.Sub(p.Stock)
		if toProduce.IsNegative() {
			toProduce = decimal.Zero
		}
		rows = append(rows, &ProductionRow{
			ProductId: p.ProductId,
			Name:      p.Name,
			Committed: p.Committed,
			Stock:     p.Stock,
			ToProduce: toProduce,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ToProduce.GreaterThan(rows[j].ToProduce)
	})

	summary := ProductionSummary{ProductsConsidered: len(rows)}
	for _, row := range rows {
		if row.ToProduce.IsPositive() {
			summary.ProductsToProduce++
		}
	}
	return rows, summary
}

// GetProductionDashboard reports, for one route and day, how much of each
// product must still be produced to cover the route's pending orders.
func GetProductionDashboard(ctx context.Context, routeId int, date time.Time) (*ProductionDashboardResponse, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}

	route, err := utils.FetchModel[models.Route](ctx, businessId, routeId)
	if err != nil {
		return nil, utils.NewNotFoundError("route not found")
	}

	orders, err := models.GetPendingOrdersByRouteAndDate(ctx, businessId, routeId, date)
	if err != nil {
		return nil, err
	}

	// committed qty per product, keeping first-encounter order
	committed := make(map[int]decimal.Decimal)
	var encounterOrder []int
	for _, order := range orders {
		for _, detail := range order.Details {
			if _, seen := committed[detail.ProductId]; !seen {
				encounterOrder = append(encounterOrder, detail.ProductId)
			}
			committed[detail.ProductId] = committed[detail.ProductId].Add(detail.Qty)
		}
	}

	// products involved in orders plus anything still sitting in stock
	db := config.GetDB()
	var products []*models.Product
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if len(encounterOrder) > 0 {
		dbCtx = dbCtx.Where("id IN ? OR stock_qty <> 0", encounterOrder)
	} else {
		dbCtx = dbCtx.Where("stock_qty <> 0")
	}
	if err := dbCtx.Order("id").Find(&products).Error; err != nil {
		return nil, err
	}

	productsById := make(map[int]*models.Product, len(products))
	for _, p := range products {
		productsById[p.ID] = p
	}

	demands := make([]ProductDemand, 0, len(products))
	for _, productId := range encounterOrder {
		demand := ProductDemand{ProductId: productId, Committed: committed[productId]}
		if p, ok := productsById[productId]; ok {
			demand.Name = p.Name
			demand.Stock = p.StockQty
		}
		demands = append(demands, demand)
	}
	for _, p := range products {
		if _, seen := committed[p.ID]; seen {
			continue
		}
		demands = append(demands, ProductDemand{
			ProductId: p.ID,
			Name:      p.Name,
			Stock:     p.StockQty,
		})
	}

	rows, summary := computeProductionRows(demands)

	return &ProductionDashboardResponse{
		RouteId:   route.ID,
		RouteName: route.Name,
		Date:      date,
		Summary:   summary,
		Rows:      rows,
	}, nil
}
