package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
	"bitbucket.org/mmdatafocus/distribution_backend/utils"
)

// Route is a delivery route. The production dashboard is computed per route.
type Route struct {
	ID         int       `gorm:"primary_key" json:"id"`
	BusinessId string    `gorm:"index;not null" json:"business_id"`
	Name       string    `gorm:"index;size:100;not null" json:"name" binding:"required"`
	DriverId   int       `gorm:"index;default:0" json:"driver_id"`
	IsActive   *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewRoute struct {
	Name     string `json:"name" binding:"required"`
	DriverId int    `json:"driver_id"`
	IsActive *bool  `json:"is_active"`
}

func (input *NewRoute) validate(ctx context.Context, businessId string, id int) error {
	if err := utils.ValidateUnique[Route](ctx, businessId, "name", input.Name, id); err != nil {
		return utils.NewValidationError(err.Error())
	}
	if input.DriverId > 0 {
		count, err := utils.ResourceCountWhere[User](ctx, businessId, "id = ? AND role = ?", input.DriverId, UserRoleDriver)
		if err != nil {
			return err
		}
		if count == 0 {
			return utils.NewValidationError("driver not found")
		}
	}
	return nil
}

func CreateRoute(ctx context.Context, input *NewRoute) (*Route, error) {

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

	route := Route{
		BusinessId: businessId,
		Name:       input.Name,
		DriverId:   input.DriverId,
		IsActive:   isActive,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&route).Error; err != nil {
		return nil, err
	}
	return &route, nil
}

func UpdateRoute(ctx context.Context, id int, input *NewRoute) (*Route, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}

	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	result, err := utils.FetchModel[Route](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&result).Updates(map[string]interface{}{
		"Name":     input.Name,
		"DriverId": input.DriverId,
		"IsActive": input.IsActive,
	}).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

func DeleteRoute(ctx context.Context, id int) (*Route, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}

	result, err := utils.FetchModel[Route](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[Order](ctx, businessId, "route_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewValidationError("route has been used by orders")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func GetRoute(ctx context.Context, id int) (*Route, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}
	return utils.FetchModel[Route](ctx, businessId, id)
}

func GetRoutes(ctx context.Context, name *string) ([]*Route, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}

	db := config.GetDB()
	var results []*Route
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
