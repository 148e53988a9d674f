package models

import (
	"fmt"
	"strings"
)

// Permission is a capability tag granted to a user.
type Permission string

const (
	PermissionAdmin            Permission = "ADMIN"
	PermissionUser             Permission = "USER"
	PermissionItemCreate       Permission = "ITEMCREATE"
	PermissionItemUpdate       Permission = "ITEMUPDATE"
	PermissionItemDelete       Permission = "ITEMDELETE"
	PermissionPermissionUpdate Permission = "PERMISSIONUPDATE"
)

// AllPermissions lists every tag a user may be granted.
var AllPermissions = []Permission{
	PermissionAdmin,
	PermissionUser,
	PermissionItemCreate,
	PermissionItemUpdate,
	PermissionItemDelete,
	PermissionPermissionUpdate,
}

func (p Permission) Valid() bool {
	for _, known := range AllPermissions {
		if p == known {
			return true
		}
	}
	return false
}

// ParsePermissions parses a comma separated tag list such as
// "USER,ITEMCREATE". Blank entries are skipped.
func ParsePermissions(csv string) ([]Permission, error) {
	var perms []Permission
	for _, raw := range strings.Split(csv, ",") {
		tag := Permission(strings.ToUpper(strings.TrimSpace(raw)))
		if tag == "" {
			continue
		}
		if !tag.Valid() {
			return nil, fmt.Errorf("unknown permission %q", tag)
		}
		perms = append(perms, tag)
	}
	return perms, nil
}
