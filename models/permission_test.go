package models

import "testing"

func TestCanPerform(t *testing.T) {
	cases := []struct {
		name      string
		role      UserRole
		superuser bool
		active    bool
		action    string
		expected  bool
	}{
		{"inactive superuser denied", UserRoleAdmin, true, false, ActionApproveEntry, false},
		{"inactive employee denied", UserRoleEmployee, false, false, ActionCreateEntry, false},
		{"superuser bypasses the table", UserRoleEmployee, true, true, ActionManageUsers, true},
		{"admin can approve", UserRoleAdmin, false, true, ActionApproveEntry, true},
		{"employee can create entries", UserRoleEmployee, false, true, ActionCreateEntry, true},
		{"employee cannot approve", UserRoleEmployee, false, true, ActionApproveEntry, false},
		{"driver can view dashboard", UserRoleDriver, false, true, ActionViewDashboard, true},
		{"driver cannot adjust stock", UserRoleDriver, false, true, ActionAdjustStock, false},
		{"supervisor can complete", UserRoleSupervisor, false, true, ActionCompleteEntry, true},
		{"supervisor cannot cancel", UserRoleSupervisor, false, true, ActionCancelEntry, false},
		{"manager can batch update", UserRoleManager, false, true, ActionBatchUpdateEntry, true},
		{"blank role defaults to employee", "", false, true, ActionCreateEntry, true},
		{"blank role denied approval", "", false, true, ActionApproveEntry, false},
		{"unknown action denied", UserRoleAdmin, false, true, "Teleport", false},
	}
	for _, tc := range cases {
		if got := CanPerform(tc.role, tc.superuser, tc.active, tc.action); got != tc.expected {
			t.Fatalf("%s: CanPerform(%q, %v, %v, %q) expected %v, got %v",
				tc.name, tc.role, tc.superuser, tc.active, tc.action, tc.expected, got)
		}
	}
}

func TestUserCanPerform(t *testing.T) {
	active := true
	user := User{Role: UserRoleSales, IsActive: &active}
	if !user.CanPerform(ActionManageClients) {
		t.Fatalf("sales user should manage clients")
	}
	if user.CanPerform(ActionManageUsers) {
		t.Fatalf("sales user should not manage users")
	}

	var nilActive User
	nilActive.Role = UserRoleAdmin
	if nilActive.CanPerform(ActionManageUsers) {
		t.Fatalf("user with unset active flag should be denied")
	}
}
