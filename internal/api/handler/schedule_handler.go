package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/silenter1100/campus-backend/internal/dto"
	"github.com/silenter1100/campus-backend/internal/model"
	"github.com/silenter1100/campus-backend/internal/service"
	"github.com/silenter1100/campus-backend/pkg/response"
)

// ScheduleHandler 个人课表模块 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
	exportSvc   service.ExportService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService, exportSvc service.ExportService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc, exportSvc: exportSvc}
}

// GetSchedule 获取用户课表
// GET /api/v1/schedule?semester_id=1&week=3
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	var req dto.ScheduleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	items, err := h.scheduleSvc.ListItems(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, gin.H{"items": items})
}

// AddItems 批量添加课表项
// POST /api/v1/schedule
// 部分成功属正常结果：整体返回 200，失败项在 failed_items 中逐项报告
func (h *ScheduleHandler) AddItems(c *gin.Context) {
	var req dto.AddScheduleItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.scheduleSvc.AddItems(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// UpdateItem 更新课表项（部分更新）
// PATCH /api/v1/schedule/items/:id
func (h *ScheduleHandler) UpdateItem(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, 10001, "课表项ID无效")
		return
	}

	var req dto.UpdateScheduleItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	item, err := h.scheduleSvc.UpdateItem(c.Request.Context(), userID, itemID, &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, item)
}

// DeleteItem 删除课表项
// DELETE /api/v1/schedule/items/:id
func (h *ScheduleHandler) DeleteItem(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, 10001, "课表项ID无效")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.scheduleSvc.DeleteItem(c.Request.Context(), userID, itemID); err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, nil)
}

// ImportICS 从 iCalendar 订阅地址导入课表
// POST /api/v1/schedule/import
func (h *ScheduleHandler) ImportICS(c *gin.Context) {
	var req dto.ImportScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.scheduleSvc.ImportICS(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// ExportTimetable 导出课表为 Excel
// GET /api/v1/schedule/export?semester_id=1
func (h *ScheduleHandler) ExportTimetable(c *gin.Context) {
	semesterID, err := strconv.ParseInt(c.Query("semester_id"), 10, 64)
	if err != nil {
		response.BadRequest(c, 10001, "学期ID无效")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportTimetable(c.Request.Context(), userID, semesterID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	c.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(filename)))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

// handleScheduleError 统一处理课表模块业务错误
func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSemesterNotFound):
		response.BadRequest(c, 13002, "学期不存在")
	case errors.Is(err, service.ErrScheduleItemNotFound):
		response.NotFound(c, 14001, "课表项不存在")
	case errors.Is(err, service.ErrTimeConflict):
		response.Error(c, http.StatusConflict, 14002, "课程时间冲突")
	case model.IsShapeError(err):
		response.BadRequest(c, 14003, err.Error())
	case errors.Is(err, service.ErrICSInvalid):
		response.BadRequest(c, 14004, err.Error())
	case errors.Is(err, service.ErrICSEmpty):
		response.BadRequest(c, 14005, "日历中未解析到课程事件")
	case errors.Is(err, service.ErrExportEmpty):
		response.NotFound(c, 14006, "该学期暂无课表")
	default:
		response.InternalError(c)
	}
}
