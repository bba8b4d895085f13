package dto

// ── 学期模块 DTO ──

// SemesterResponse 学期信息响应
type SemesterResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"` // "2026-02-23"
	EndDate   string `json:"end_date"`
	IsCurrent bool   `json:"is_current"`
}
