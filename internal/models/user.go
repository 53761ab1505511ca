package models

// Роли пользователей
const (
	RoleEmployee = "EMPLOYEE"
	RoleAdmin    = "ADMIN"
)

// User - профиль пользователя, каким его отдает бекенд при логине.
type User struct {
	ID    string `json:"user_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IsAdmin проверяет, является ли пользователь администратором
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session - токен и профиль, привязанные к одному чату.
// Токен и пользователь всегда записываются и очищаются вместе.
type Session struct {
	ChatID int64
	Token  string
	User   User
}
