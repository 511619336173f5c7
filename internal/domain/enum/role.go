package enum

// Role is a staff role carried in the access token
type Role string

const (
	RoleOwner   Role = "owner"
	RoleManager Role = "manager"
	RoleCashier Role = "cashier"
)

// Permission names checked by the HTTP layer
const (
	PermissionCheckout      = "checkout"
	PermissionViewOrders    = "view-orders"
	PermissionCancelOrders  = "cancel-orders"
	PermissionRepayOrders   = "repay-orders"
	PermissionViewCustomers = "view-customers"
)

var rolePermissions = map[Role][]string{
	RoleOwner: {
		PermissionCheckout,
		PermissionViewOrders,
		PermissionCancelOrders,
		PermissionRepayOrders,
		PermissionViewCustomers,
	},
	RoleManager: {
		PermissionCheckout,
		PermissionViewOrders,
		PermissionCancelOrders,
		PermissionRepayOrders,
		PermissionViewCustomers,
	},
	RoleCashier: {
		PermissionCheckout,
		PermissionViewOrders,
		PermissionRepayOrders,
		PermissionViewCustomers,
	},
}

// Permissions returns the permissions granted to r; unknown roles get none
func (r Role) Permissions() []string {
	return rolePermissions[r]
}
