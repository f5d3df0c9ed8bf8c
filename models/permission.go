package models

import (
	"context"
	"fmt"
	"slices"
	"time"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
	"bitbucket.org/mmdatafocus/distribution_backend/utils"
)

// Action names used by the permission checker. One constant per gated surface
// so role lists live in a single table instead of scattered call sites.
const (
	ActionCreateEntry      = "CreateEntry"
	ActionSubmitEntry      = "SubmitEntry"
	ActionApproveEntry     = "ApproveEntry"
	ActionCompleteEntry    = "CompleteEntry"
	ActionCancelEntry      = "CancelEntry"
	ActionBatchUpdateEntry = "BatchUpdateEntry"
	ActionDeleteEntry      = "DeleteEntry"
	ActionAdjustStock      = "AdjustStock"
	ActionViewDashboard    = "ViewDashboard"
	ActionManageUsers      = "ManageUsers"
	ActionManageClients    = "ManageClients"
	ActionManageProducts   = "ManageProducts"
	ActionManageRoutes     = "ManageRoutes"
	ActionManageOrders     = "ManageOrders"
	ActionManageInvoices   = "ManageInvoices"
)

// actionRoles is the fixed capability table: action -> roles allowed to invoke it.
// Superusers bypass the table entirely; inactive users are denied everything.
var actionRoles = map[string][]UserRole{
	ActionCreateEntry:      {UserRoleEmployee, UserRoleSupervisor, UserRoleManager, UserRoleAdmin},
	ActionSubmitEntry:      {UserRoleEmployee, UserRoleSupervisor, UserRoleManager, UserRoleAdmin},
	ActionApproveEntry:     {UserRoleSupervisor, UserRoleManager, UserRoleAdmin},
	ActionCompleteEntry:    {UserRoleSupervisor, UserRoleManager, UserRoleAdmin},
	ActionCancelEntry:      {UserRoleManager, UserRoleAdmin},
	ActionBatchUpdateEntry: {UserRoleManager, UserRoleAdmin},
	ActionDeleteEntry:      {UserRoleManager, UserRoleAdmin},
	ActionAdjustStock:      {UserRoleSupervisor, UserRoleManager, UserRoleAdmin},
	ActionViewDashboard:    {UserRoleEmployee, UserRoleSales, UserRoleDriver, UserRoleSupervisor, UserRoleManager, UserRoleAdmin},
	ActionManageUsers:      {UserRoleAdmin},
	ActionManageClients:    {UserRoleSales, UserRoleManager, UserRoleAdmin},
	ActionManageProducts:   {UserRoleManager, UserRoleAdmin},
	ActionManageRoutes:     {UserRoleManager, UserRoleAdmin},
	ActionManageOrders:     {UserRoleSales, UserRoleSupervisor, UserRoleManager, UserRoleAdmin},
	ActionManageInvoices:   {UserRoleSales, UserRoleManager, UserRoleAdmin},
}

// CanPerform is the role gate: a blank role defaults to Employee, the
// superuser flag grants everything, inactive users get nothing.
func CanPerform(role UserRole, superuser bool, active bool, action string) bool {
	if !active {
		return false
	}
	if superuser {
		return true
	}
	if role == "" {
		role = UserRoleEmployee
	}
	allowed, ok := actionRoles[action]
	if !ok {
		return false
	}
	return slices.Contains(allowed, role)
}

func (user *User) CanPerform(action string) bool {
	active := user.IsActive != nil && *user.IsActive
	return CanPerform(user.Role, user.IsSuperuser, active, action)
}

// RequirePermission checks the calling user's capability from the request
// context. Role and superuser come from the token, but is_active is read
// from the database (briefly cached) so deactivation cuts access immediately
// instead of at token expiry.
func RequirePermission(ctx context.Context, action string) error {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return utils.NewPermissionError("permission denied for " + action)
	}

	active, err := isUserActive(ctx, userId)
	if err != nil {
		return err
	}
	if !active {
		return utils.NewPermissionError("user is disabled")
	}

	if superuser, ok := utils.GetSuperuserFromContext(ctx); ok && superuser {
		return nil
	}
	roleStr, _ := utils.GetUserRoleFromContext(ctx)
	if !CanPerform(UserRole(roleStr), false, true, action) {
		return utils.NewPermissionError("permission denied for " + action)
	}
	return nil
}

func userActiveCacheKey(userId int) string {
	return fmt.Sprintf("UserActive:%d", userId)
}

// isUserActive reads the user's current is_active flag. The cache entry is
// short-lived and dropped by UpdateUser/DeleteUser on any change.
func isUserActive(ctx context.Context, userId int) (bool, error) {
	var cached bool
	if hit, err := config.GetRedisObject(userActiveCacheKey(userId), &cached); err == nil && hit {
		return cached, nil
	}

	// the token's user id is not tenant-scoped
	var user User
	db := config.GetDB()
	if err := db.WithContext(utils.SetSkipTenantScopeInContext(ctx, true)).First(&user, userId).Error; err != nil {
		return false, utils.NewPermissionError("user not found")
	}
	active := user.IsActive != nil && *user.IsActive
	_ = config.SetRedisObject(userActiveCacheKey(userId), active, time.Minute)
	return active, nil
}
