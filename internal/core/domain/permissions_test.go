package domain

import (
	"reflect"
	"testing"
)

func TestHasPermission_Table(t *testing.T) {
	cases := []struct {
		role   string
		action Action
		want   bool
	}{
		{RoleOperator, ActionViewAllLeads, true},
		{RoleAdmin, ActionViewAllLeads, true},
		{RoleAgent, ActionViewAllLeads, false},
		{RoleOperator, ActionAssignLeads, true},
		{RoleAgent, ActionAssignLeads, false},
		{RoleOperator, ActionManageAutomation, true},
		{RoleOperator, ActionViewPayments, true},
		{RoleOperator, ActionCreateDeliveries, true},
		{RoleAgent, ActionViewOwnProspects, true},
		{RoleAdmin, ActionViewOwnProspects, true},
		{RoleOperator, ActionViewOwnProspects, false},
		{RoleAgent, ActionReceiveLeads, true},
		{RoleOperator, ActionReceiveLeads, false},
	}

	for _, tc := range cases {
		u := &User{ID: "u1", Role: tc.role}
		if got := HasPermission(u, tc.action); got != tc.want {
			t.Errorf("HasPermission(%s, %s) = %v, want %v", tc.role, tc.action, got, tc.want)
		}
	}
}

func TestHasPermission_UnmappedActionDeniedForAllRoles(t *testing.T) {
	// Admin gets no special treatment from the permission table itself.
	for _, role := range []string{RoleAgent, RoleOperator, RoleAdmin} {
		u := &User{ID: "u1", Role: role}
		if HasPermission(u, Action("delete_everything")) {
			t.Errorf("unmapped action granted to role %s", role)
		}
	}
}

func TestRolesAllowed_DerivesFromTable(t *testing.T) {
	cases := []struct {
		name    string
		actions []Action
		want    []string
	}{
		{"single operator grant", []Action{ActionManageAutomation}, []string{RoleOperator, RoleAdmin}},
		{"single agent grant", []Action{ActionReceiveLeads}, []string{RoleAgent, RoleAdmin}},
		{"union covers all roles", []Action{ActionViewOwnProspects, ActionViewAllLeads}, []string{RoleAgent, RoleOperator, RoleAdmin}},
		{"unmapped action grants nobody", []Action{Action("delete_everything")}, nil},
		{"no actions grants nobody", nil, nil},
	}

	for _, tc := range cases {
		if got := RolesAllowed(tc.actions...); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: RolesAllowed(%v) = %v, want %v", tc.name, tc.actions, got, tc.want)
		}
	}
}

func TestRolesAllowed_AgreesWithHasPermission(t *testing.T) {
	for action := range rolePermissions {
		allowed := make(map[string]struct{})
		for _, role := range RolesAllowed(action) {
			allowed[role] = struct{}{}
		}
		for _, role := range []string{RoleAgent, RoleOperator, RoleAdmin} {
			_, derived := allowed[role]
			if direct := HasPermission(&User{Role: role}, action); direct != derived {
				t.Errorf("action %s role %s: HasPermission=%v but RolesAllowed lists it=%v", action, role, direct, derived)
			}
		}
	}
}

func TestHasPermission_FailsClosed(t *testing.T) {
	if HasPermission(nil, ActionViewAllLeads) {
		t.Fatalf("nil user was granted permission")
	}
	if HasPermission(&User{Role: "superuser"}, ActionViewAllLeads) {
		t.Fatalf("unknown role was granted permission")
	}
	if HasPermission(&User{Role: ""}, ActionViewOwnProspects) {
		t.Fatalf("empty role was granted permission")
	}
}
