// Package policy decides whether a role may perform an action. Every function
// is pure: no I/O, no mutation. Callers must evaluate the relevant check
// before writing anything.
package policy

import "github.com/ridmikaw/backend-macro-labs-news-app/internal/core/domain"

// CanCreateArticle allows editors and admins to publish new articles.
func CanCreateArticle(role domain.Role) error {
	if role == domain.RoleAdmin || role == domain.RoleEditor {
		return nil
	}
	return domain.ErrPermissionDenied
}

// CanModifyArticle allows admins, and the article's own author, to edit or
// delete it.
func CanModifyArticle(role domain.Role, requesterID, authorID string) error {
	if role == domain.RoleAdmin {
		return nil
	}
	if requesterID != "" && requesterID == authorID {
		return nil
	}
	return domain.ErrPermissionDenied
}

func CanViewUserList(role domain.Role) error   { return requireAdmin(role) }
func CanViewUserDetail(role domain.Role) error { return requireAdmin(role) }
func CanViewUserStats(role domain.Role) error  { return requireAdmin(role) }

// CanUpdateRole guards role changes. Nobody may change their own role and no
// admin's role can be changed, whatever the requester's role.
func CanUpdateRole(role domain.Role, requesterID string, target *domain.User) error {
	if requesterID == target.ID {
		return domain.ErrSelfActionDenied
	}
	if target.Role == domain.RoleAdmin {
		return domain.ErrProtectedAccount
	}
	return requireAdmin(role)
}

// CanToggleStatus guards activation changes with the same restrictions as
// CanUpdateRole. An admin target is always reported as protected, including
// an admin acting on their own account.
func CanToggleStatus(role domain.Role, requesterID string, target *domain.User) error {
	if target.Role == domain.RoleAdmin {
		return domain.ErrProtectedAccount
	}
	if requesterID == target.ID {
		return domain.ErrSelfActionDenied
	}
	return requireAdmin(role)
}

func requireAdmin(role domain.Role) error {
	if role != domain.RoleAdmin {
		return domain.ErrPermissionDenied
	}
	return nil
}
