package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
	"bitbucket.org/mmdatafocus/distribution_backend/utils"
)

type Client struct {
	ID         int       `gorm:"primary_key" json:"id"`
	BusinessId string    `gorm:"index;not null" json:"business_id"`
	Name       string    `gorm:"index;size:100;not null" json:"name" binding:"required"`
	Email      *string   `gorm:"size:100" json:"email"`
	Phone      string    `gorm:"size:20" json:"phone"`
	Address    string    `gorm:"size:255" json:"address"`
	RouteId    int       `gorm:"index;default:0" json:"route_id"`
	IsActive   *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewClient struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	RouteId  int    `json:"route_id"`
	IsActive *bool  `json:"is_active"`
}

func (input *NewClient) validate(ctx context.Context, businessId string, id int) error {
	if err := utils.ValidateUnique[Client](ctx, businessId, "name", input.Name, id); err != nil {
		return utils.NewValidationError(err.Error())
	}
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return utils.NewValidationError("invalid email address")
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return utils.NewValidationError("invalid phone number")
		}
	}
	if input.RouteId > 0 {
		if err := utils.ValidateResourceId[Route](ctx, businessId, input.RouteId); err != nil {
			return utils.NewValidationError("route not found")
		}
	}
	return nil
}

func CreateClient(ctx context.Context, input *NewClient) (*Client, error) {

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

	client := Client{
		BusinessId: businessId,
		Name:       input.Name,
		Email:      utils.NilIfEmpty(input.Email),
		Phone:      input.Phone,
		Address:    input.Address,
		RouteId:    input.RouteId,
		IsActive:   isActive,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func UpdateClient(ctx context.Context, id int, input *NewClient) (*Client, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}

	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	result, err := utils.FetchModel[Client](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&result).Updates(map[string]interface{}{
		"Name":     input.Name,
		"Email":    utils.NilIfEmpty(input.Email),
		"Phone":    input.Phone,
		"Address":  input.Address,
		"RouteId":  input.RouteId,
		"IsActive": input.IsActive,
	}).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

func DeleteClient(ctx context.Context, id int) (*Client, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}

	result, err := utils.FetchModel[Client](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	// don't allow if the client still has orders
	count, err := utils.ResourceCountWhere[Order](ctx, businessId, "client_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewValidationError("client has been used by orders")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func GetClient(ctx context.Context, id int) (*Client, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}
	return utils.FetchModel[Client](ctx, businessId, id)
}

func GetClients(ctx context.Context, name *string) ([]*Client, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}

	db := config.GetDB()
	var results []*Client
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
