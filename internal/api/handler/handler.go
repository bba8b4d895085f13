package handler

import "github.com/silenter1100/campus-backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Course   *CourseHandler
	Schedule *ScheduleHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Course:   NewCourseHandler(svc.Course),
		Schedule: NewScheduleHandler(svc.Schedule, svc.Export),
	}
}
