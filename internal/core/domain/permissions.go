package domain

// Action names an operation whose permission is checked before execution.
type Action string

const (
	ActionViewAllLeads     Action = "view_all_leads"
	ActionAssignLeads      Action = "assign_leads"
	ActionManageAutomation Action = "manage_automation"
	ActionViewPayments     Action = "view_payments"
	ActionCreateDeliveries Action = "create_deliveries"
	ActionViewOwnProspects Action = "view_own_prospects"
	ActionReceiveLeads     Action = "receive_leads"
)

// rolePermissions is the static permission table: for each known action, the
// set of roles allowed to perform it. Adding an action means adding one entry
// here. Anything not listed is denied to everyone, admin included; the admin
// bypass in the ownership gate is a middleware concern, not a permission one.
var rolePermissions = map[Action]map[string]struct{}{
	ActionViewAllLeads:     roleSet(RoleOperator, RoleAdmin),
	ActionAssignLeads:      roleSet(RoleOperator, RoleAdmin),
	ActionManageAutomation: roleSet(RoleOperator, RoleAdmin),
	ActionViewPayments:     roleSet(RoleOperator, RoleAdmin),
	ActionCreateDeliveries: roleSet(RoleOperator, RoleAdmin),
	ActionViewOwnProspects: roleSet(RoleAgent, RoleAdmin),
	ActionReceiveLeads:     roleSet(RoleAgent, RoleAdmin),
}

func roleSet(roles ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// HasPermission reports whether the user's role may perform action.
// It fails closed: a nil user, an unknown role, or an unmapped action all
// yield false. The table is immutable after init, so concurrent calls are
// safe without locking.
func HasPermission(user *User, action Action) bool {
	if user == nil {
		return false
	}
	allowed, ok := rolePermissions[action]
	if !ok {
		return false
	}
	_, ok = allowed[user.Role]
	return ok
}

// RolesAllowed returns the roles granted at least one of the given actions,
// in a stable order. Route allow-lists derive from the permission table
// through this helper so the table stays the single source of role decisions.
func RolesAllowed(actions ...Action) []string {
	var roles []string
	for _, role := range []string{RoleAgent, RoleOperator, RoleAdmin} {
		for _, action := range actions {
			if HasPermission(&User{Role: role}, action) {
				roles = append(roles, role)
				break
			}
		}
	}
	return roles
}
