package models

// User represents an authenticated customer. Accounts are created through
// LINE login; users who never shared an email get a generated virtual one.
type User struct {
	BaseModel
	Name           string  `json:"name"`
	Email          string  `gorm:"uniqueIndex" json:"email"`
	Image          string  `json:"image"`
	LineUserID     *string `gorm:"uniqueIndex" json:"line_user_id,omitempty"`
	IsVirtualEmail bool    `json:"is_virtual_email"`
	RealEmail      string  `json:"real_email,omitempty"`
	IsAdmin        bool    `json:"is_admin"`
	Orders         []Order `json:"orders,omitempty"`
}
