package authz

import "fmt"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵。
// staff 负责前台接待（预约、签到、收银与客户查询），
// manager 在此基础上管理门店商品与运营内容，admin 拥有全部权限。
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "staff",
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
				{Object: "/admin/bookings", Action: "POST"},
				{Object: "/admin/bookings/:id", Action: "PATCH"},
				{Object: "/admin/bookings/:id/check-in", Action: "POST"},
				{Object: "/admin/bookings/:id/cancel", Action: "POST"},
				{Object: "/admin/bookings/:id/refund", Action: "POST"},
				{Object: "/admin/bookings/:id/finish", Action: "POST"},
				{Object: "/admin/bookings/:id/payments", Action: "POST"},
				{Object: "/admin/cards", Action: "POST"},
				{Object: "/admin/cards/redeem-gift", Action: "POST"},
				{Object: "/admin/users", Action: "POST"},
				{Object: "/admin/users/:id", Action: "PATCH"},
				{Object: "/admin/me/password", Action: "POST"},
			},
		},
		{
			Role:     "manager",
			Inherits: []string{"staff"},
			Policies: []Policy{
				{Object: "/admin/card-types", Action: "*"},
				{Object: "/admin/card-types/:id", Action: "*"},
				{Object: "/admin/cards/:id", Action: "*"},
				{Object: "/admin/coupons", Action: "*"},
				{Object: "/admin/coupons/:id", Action: "*"},
				{Object: "/admin/events", Action: "*"},
				{Object: "/admin/events/:id", Action: "*"},
				{Object: "/admin/gifts", Action: "*"},
				{Object: "/admin/gifts/:id", Action: "*"},
				{Object: "/admin/posts", Action: "*"},
				{Object: "/admin/posts/:id", Action: "*"},
				{Object: "/admin/payments/:id/refund", Action: "POST"},
			},
		},
		{
			Role: "admin",
			Policies: []Policy{
				{Object: "/admin/*", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return err
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
