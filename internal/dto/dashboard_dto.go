package dto

// StudentDashboardResponse summarises a student's booking activity for the
// dashboard page. Served from cache when warm.
type StudentDashboardResponse struct {
	StudentID        uint              `json:"student_id"`
	UpcomingSessions []SessionResponse `json:"upcoming_sessions"`
	PendingRequests  int               `json:"pending_requests"`
	AwaitingPayment  int               `json:"awaiting_payment"`
	CompletedCount   int               `json:"completed_count"`
	AvailableCredits int               `json:"available_credits"`
}
