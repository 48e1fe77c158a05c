package auth

const (
	RoleAdmin      = "admin"
	RoleFinance    = "finance"
	RoleEmployee   = "employee"
	RoleContractor = "contractor"
	RoleCandidate  = "candidate"
)

var AllRoles = []string{
	RoleAdmin,
	RoleFinance,
	RoleEmployee,
	RoleContractor,
	RoleCandidate,
}

// CanManagePayroll gates batch creation, approval and execution routes.
func CanManagePayroll(role string) bool {
	return role == RoleAdmin || role == RoleFinance
}

// CanApproveBatch gates the approval and request-changes routes. Finance
// prepares batches; only admins sign off on them.
func CanApproveBatch(role string) bool {
	return role == RoleAdmin
}

func ValidRole(role string) bool {
	for _, candidate := range AllRoles {
		if role == candidate {
			return true
		}
	}
	return false
}
