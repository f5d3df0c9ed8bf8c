package models

import (
	"context"
	"errors"
	"html"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
	"bitbucket.org/mmdatafocus/distribution_backend/utils"
)

type User struct {
	ID          int       `gorm:"primary_key" json:"id"`
	BusinessId  string    `gorm:"index" json:"business_id"`
	Username    string    `gorm:"size:100;not null;unique" json:"username" binding:"required"`
	Name        string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Email       *string   `gorm:"size:100;unique" json:"email"`
	Phone       string    `gorm:"size:20" json:"phone"`
	Password    string    `gorm:"size:255;not null" json:"password"`
	IsActive    *bool     `gorm:"not null" json:"is_active"`
	IsSuperuser bool      `gorm:"not null;default:false" json:"is_superuser"`
	Role        UserRole  `gorm:"type:enum('Employee','Sales','Driver','Supervisor','Manager','Admin');default:Employee" json:"role"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	BusinessId string   `json:"business_id"`
	Username   string   `json:"username" binding:"required"`
	Name       string   `json:"name" binding:"required"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Password   string   `json:"password" binding:"required"`
	IsActive   *bool    `json:"is_active" binding:"required"`
	Role       UserRole `json:"role" binding:"required"`
}

type LoginInfo struct {
	Token        string   `json:"token"`
	Name         string   `json:"name"`
	Role         UserRole `json:"role"`
	BusinessName string   `json:"business_name"`
}

func (result *User) PrepareGive() {
	result.Password = ""
}

func Login(ctx context.Context, username string, password string) (*LoginInfo, error) {

	db := config.GetDB()
	var result LoginInfo

	user := User{}
	// tenant scope does not apply before authentication
	err := db.WithContext(utils.SetSkipTenantScopeInContext(ctx, true)).
		Model(&User{}).Where("username = ?", username).Take(&user).Error
	if err != nil {
		return nil, errors.New("invalid username or password")
	}

	// check login credentials; any compare failure denies, a malformed
	// stored hash must not authenticate
	if err := utils.ComparePassword(user.Password, password); err != nil {
		return nil, errors.New("invalid username or password")
	}

	if user.IsActive == nil || !*user.IsActive {
		return nil, errors.New("user is disabled")
	}

	role := user.Role
	if role == "" {
		role = UserRoleEmployee
	}

	token, err := utils.JwtGenerate(user.ID, user.BusinessId, string(role), user.IsSuperuser)
	if err != nil {
		return nil, err
	}

	result.Token = token
	result.Name = user.Name
	result.Role = role

	var business Business
	if err := db.WithContext(ctx).Model(&Business{}).Where("id = ?", user.BusinessId).First(&business).Error; err == nil {
		result.BusinessName = business.Name
	}

	// track issued tokens per user so sessions can be revoked
	if err := config.AddRedisSet("Tokens:"+user.Username, token); err != nil {
		return nil, err
	}

	return &result, nil
}

// destroy every session of the user (revokes all issued tokens)
func (user *User) DestroyAllSessions(ctx context.Context) error {
	allTokens, err := config.GetRedisSetMembers("Tokens:" + user.Username)
	if err != nil {
		return err
	}
	for _, token := range allTokens {
		if err := config.AddRedisSet("RevokedTokens", token); err != nil {
			return err
		}
	}
	return config.RemoveRedisKey("Tokens:" + user.Username)
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {

	db := config.GetDB()
	var count int64

	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return nil, utils.NewValidationError("invalid email address")
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return nil, utils.NewValidationError("invalid phone number")
		}
	}

	err := db.WithContext(ctx).Model(&User{}).Where("username = ?", input.Username).Or("email = ?", input.Email).Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewValidationError("duplicate username or email")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	input.Email = strings.ToLower(input.Email)

	businessId := input.BusinessId
	if businessId == "" {
		businessId, _ = utils.GetBusinessIdFromContext(ctx)
	}

	user := User{
		Username:   html.EscapeString(strings.TrimSpace(input.Username)),
		BusinessId: businessId,
		Name:       input.Name,
		Email:      utils.NilIfEmpty(input.Email),
		Phone:      input.Phone,
		Password:   string(hashedPassword),
		IsActive:   input.IsActive,
		Role:       input.Role,
	}

	err = db.WithContext(ctx).Create(&user).Error
	if err != nil {
		return nil, err
	}
	user.PrepareGive()
	return &user, nil
}

func GetUser(ctx context.Context, id int) (*User, error) {

	db := config.GetDB()
	var result User

	err := db.WithContext(ctx).First(&result, id).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	result.PrepareGive()
	return &result, nil
}

func GetAllUsers(ctx context.Context) ([]*User, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, utils.NewValidationError("business id is required")
	}

	results, err := utils.FetchAllModels[User](ctx, businessId)
	if err != nil {
		return nil, err
	}

	for _, u := range results {
		u.PrepareGive()
	}

	return results, nil
}

func UpdateUser(ctx context.Context, id int, input *NewUser) (*User, error) {

	db := config.GetDB()
	var count int64

	result, err := utils.FetchSingleModel[User](ctx, id)
	if err != nil {
		return nil, err
	}

	if err = db.WithContext(ctx).Model(&User{}).
		Where("username = ? OR email = ?", input.Username, input.Email).
		Not("id = ?", id).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewValidationError("duplicate email or username")
	}

	err = db.WithContext(ctx).Model(&result).Updates(User{
		Name:     input.Name,
		Email:    utils.NilIfEmpty(input.Email),
		Username: input.Username,
		Phone:    input.Phone,
		Role:     input.Role,
		IsActive: input.IsActive,
	}).Error
	if err != nil {
		return nil, err
	}

	// deactivation takes effect immediately: revoke every issued token and
	// drop the cached active flag
	if input.IsActive != nil && !*input.IsActive {
		if err := result.DestroyAllSessions(ctx); err != nil {
			return nil, err
		}
	}
	if err := config.RemoveRedisKey(userActiveCacheKey(id)); err != nil {
		return nil, err
	}

	result.PrepareGive()
	return result, nil
}

func DeleteUser(ctx context.Context, id int) (*User, error) {

	db := config.GetDB()
	result, err := utils.FetchSingleModel[User](ctx, id)
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Delete(&result).Error
	if err != nil {
		return nil, err
	}

	if err := result.DestroyAllSessions(ctx); err != nil {
		return nil, err
	}
	if err := config.RemoveRedisKey(userActiveCacheKey(id)); err != nil {
		return nil, err
	}

	result.PrepareGive()
	return result, nil
}

func ChangePassword(ctx context.Context, oldPassword string, newPassword string) (*User, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}

	var user User
	db := config.GetDB()
	if err := db.WithContext(ctx).First(&user, userId).Error; err != nil {
		return nil, err
	}
	// check oldPassword
	if err := utils.ComparePassword(user.Password, oldPassword); err != nil {
		return nil, utils.NewValidationError("old password is wrong")
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(&user).UpdateColumn("password", string(hashedPassword)).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	// revoke existing sessions after a password change
	if err := user.DestroyAllSessions(ctx); err != nil {
		tx.Rollback()
		return nil, err
	}

	user.PrepareGive()
	return &user, tx.Commit().Error
}
