package authz

const (
	RoleIntern = "intern"
	RoleAdmin  = "admin"
)

func IsAdmin(role string) bool {
	return role == RoleAdmin
}

// RestrictToSelf — политика видимости списков: intern видит только свои записи.
// Применяется единообразно во всех list-хендлерах вместо разрозненных if-ов.
func RestrictToSelf(role string) bool {
	return role == RoleIntern
}

// CanManage — может ли роль управлять чужими записями (approve, delete, publish).
func CanManage(role string) bool {
	return role == RoleAdmin
}
