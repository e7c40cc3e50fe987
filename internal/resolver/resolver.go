// Package resolver computes a user's effective permissions by walking
// user -> roles -> permissions through the join tables.
//
// Only role-inherited permissions are resolved. Direct user grants are kept
// apart and exposed by the assignment package.
package resolver

import (
	"github.com/frahmantamala/rbac-management/internal/core/datamodel/rbac"
)

// ResolvedPermission is a permission together with the role that granted it.
// A permission granted by two roles resolves to two values that differ only
// in RoleID.
type ResolvedPermission struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Action   string `json:"action"`
	Resource string `json:"resource"`
	RoleID   string `json:"role_id"`
}

// PermissionsByRole maps a role id to the permissions it contributed, in
// resolution order.
type PermissionsByRole map[string][]*ResolvedPermission

func newResolvedPermission(p *rbac.Permission, roleID string) *ResolvedPermission {
	return &ResolvedPermission{
		ID:       p.ID,
		Name:     p.Name,
		Action:   p.Action,
		Resource: p.Resource,
		RoleID:   roleID,
	}
}

// GroupByRole partitions perms by RoleID. Order inside each group follows
// the order of perms.
func GroupByRole(perms []*ResolvedPermission) PermissionsByRole {
	grouped := make(PermissionsByRole)
	for _, p := range perms {
		grouped[p.RoleID] = append(grouped[p.RoleID], p)
	}
	return grouped
}
