package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
	"bitbucket.org/mmdatafocus/distribution_backend/utils"
	"github.com/google/uuid"
)

// Business is the tenant record. Every tenant-owned table carries its id in a
// business_id column, which the tenant guard plugin scopes automatically.
type Business struct {
	ID        uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Email     string    `gorm:"size:100" json:"email"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Address   string    `gorm:"size:255" json:"address"`
	Timezone  string    `gorm:"size:50;default:'Asia/Yangon'" json:"timezone"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBusiness struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Timezone string `json:"timezone"`
}

func CreateBusiness(ctx context.Context, input *NewBusiness) (*Business, error) {
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return nil, utils.NewValidationError("invalid email address")
	}

	business := Business{
		ID:       uuid.New(),
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Address:  input.Address,
		Timezone: input.Timezone,
	}
	if business.Timezone == "" {
		business.Timezone = "Asia/Yangon"
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&business).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func GetBusinessById(ctx context.Context, businessId string) (*Business, error) {
	var business Business
	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&Business{}).Where("id = ?", businessId).First(&business).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &business, nil
}

func GetBusiness(ctx context.Context) (*Business, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}
	return GetBusinessById(ctx, businessId)
}
