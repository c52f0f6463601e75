package domain

import "slices"

type Role string

const (
	RoleAdmin    Role = "admin"    // 可以访问所有租户
	RoleManager  Role = "manager"  // 只能访问自己的租户，可以批量导入
	RoleEmployee Role = "employee" // 只能访问自己的租户
)

func (r Role) IsValid() bool {
	return slices.Contains([]Role{RoleAdmin, RoleManager, RoleEmployee}, r)
}

// User 是从令牌中解析出的调用方
type User struct {
	Subject  string `json:"sub"`
	TenantID int64  `json:"tenantId"`
	Role     Role   `json:"role"`
}

func (u *User) CanAccessTenant(tenantID int64) bool {
	return u.Role == RoleAdmin || u.TenantID == tenantID
}
