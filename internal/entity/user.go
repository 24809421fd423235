package entity

// User represents a team member in the roster
type User struct {
	Id        string  `json:"id" gorm:"column:id;primaryKey"`
	Name      string  `json:"name" gorm:"column:name"`
	Role      string  `json:"role" gorm:"column:role"`
	Phone     string  `json:"phone" gorm:"column:phone"`
	Avatar    string  `json:"avatar" gorm:"column:avatar"`
	Password  string  `json:"-" gorm:"column:password"`
	Extra     *string `json:"extra" gorm:"column:extra;type:json"`
	CreatedAt int64   `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt int64   `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}

// UserInfo represents public team member info (without password)
type UserInfo struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Phone     string `json:"phone,omitempty"`
	Avatar    string `json:"avatar"`
	CreatedAt int64  `json:"created_at"`
}

// ToUserInfo converts User to UserInfo
func (u *User) ToUserInfo() *UserInfo {
	return &UserInfo{
		Id:        u.Id,
		Name:      u.Name,
		Role:      u.Role,
		Phone:     u.Phone,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}
