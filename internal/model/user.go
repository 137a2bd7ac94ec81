// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// User roles
const (
	RoleEditor    = "EDITOR"
	RoleModerator = "MODERATOR"
	RoleAdmin     = "ADMIN"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleEditor, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// AdminUser is a back-office account. It doubles as the recipient
// directory for moderation notifications and as the login credential
// record (PasswordHash is never serialized).
type AdminUser struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CanModerate returns true if the user may publish or reject events.
func (u *AdminUser) CanModerate() bool {
	return u.Role == RoleModerator || u.Role == RoleAdmin
}
