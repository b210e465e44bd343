package response

type DashboardStats struct {
	TotalProjects     int     `json:"totalProjects"`
	ActiveProjects    int     `json:"activeProjects"`
	CompletedProjects int     `json:"completedProjects"`
	TotalBookings     int     `json:"totalBookings"`
	TotalSpent        float64 `json:"totalSpent"`
	PendingPayments   int     `json:"pendingPayments"`
}

type ClientDashboardResponse struct {
	User           UserResponse         `json:"user"`
	Projects       []ProjectResponse    `json:"projects"`
	Bookings       []BookingResponse    `json:"bookings"`
	PaymentLogs    []PaymentLogResponse `json:"paymentLogs"`
	UnreadMessages int64                `json:"unreadMessages"`
	Stats          DashboardStats       `json:"stats"`
}

type AdminDashboardResponse struct {
	BookingsByStatus map[string]int64     `json:"bookingsByStatus"`
	ProjectsByStatus map[string]int64     `json:"projectsByStatus"`
	TotalUsers       int64                `json:"totalUsers"`
	TotalRevenue     float64              `json:"totalRevenue"`
	PaidTransactions int64                `json:"paidTransactions"`
	RecentPayments   []PaymentLogResponse `json:"recentPayments"`
}
