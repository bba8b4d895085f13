package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/silenter1100/campus-backend/internal/dto"
	"github.com/silenter1100/campus-backend/internal/service"
	"github.com/silenter1100/campus-backend/pkg/response"
)

// CourseHandler 学期与全校课程模块 HTTP 处理器
type CourseHandler struct {
	courseSvc service.CourseService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// ListSemesters 获取学期列表
// GET /api/v1/semesters
func (h *CourseHandler) ListSemesters(c *gin.Context) {
	semesters, err := h.courseSvc.ListSemesters(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"semesters": semesters})
}

// GetCurrentSemester 获取当前学期
// GET /api/v1/semesters/current
func (h *CourseHandler) GetCurrentSemester(c *gin.Context) {
	semester, err := h.courseSvc.GetCurrentSemester(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrSemesterNotFound) {
			response.NotFound(c, 13001, "未设置当前学期")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, semester)
}

// ListCourses 获取全校课程列表（支持分页和筛选）
// GET /api/v1/courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	var req dto.CourseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	courses, total, err := h.courseSvc.ListCourses(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, courses, total, req.Page, req.PageSize)
}
