package models

// Category is one media category row.
type Category struct {
	ID        int64  `json:"id"`
	UID       string `json:"uid"`
	Name      string `json:"name"`
	FileCount int    `json:"file_count"`
	CreatedAt string `json:"created_at"`
}

// AdminUser is one user row from the admin-only user list.
type AdminUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// DashboardStats is the aggregate counters shown on the dashboard.
type DashboardStats struct {
	FileCount     int `json:"file_count"`
	CategoryCount int `json:"category_count"`
	UserCount     int `json:"user_count"`
}
