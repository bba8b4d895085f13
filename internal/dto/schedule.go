package dto

// ── 个人课表模块 DTO ──

// ScheduleItemInput 批量添加中的单个候选课表项
// 校验逻辑（节次顺序、星期范围、source_id 与 is_custom 的一致性）
// 在 Service 层逐项执行，失败不影响同批次其他项
type ScheduleItemInput struct {
	SourceID     *int64  `json:"source_id"`
	CourseName   string  `json:"course_name" binding:"required,max=100"`
	TeacherName  *string `json:"teacher_name"`
	Location     *string `json:"location"`
	DayOfWeek    int     `json:"day_of_week"`
	StartSection int     `json:"start_section"`
	EndSection   int     `json:"end_section"`
	Weeks        []int   `json:"weeks"`
	Type         *string `json:"type"`
	Credits      *int    `json:"credits"`
	Description  *string `json:"description"`
	ColorHex     string  `json:"color_hex"`
	IsCustom     bool    `json:"is_custom"`
}

// AddScheduleItemsRequest 批量添加课表项请求
type AddScheduleItemsRequest struct {
	SemesterID int64               `json:"semester_id" binding:"required"`
	Items      []ScheduleItemInput `json:"items"       binding:"required,min=1"`
}

// UpdateScheduleItemRequest 更新课表项请求（部分更新）
// 未出现的字段保留旧值
type UpdateScheduleItemRequest struct {
	CourseName   *string `json:"course_name" binding:"omitempty,max=100"`
	TeacherName  *string `json:"teacher_name"`
	Location     *string `json:"location"`
	DayOfWeek    *int    `json:"day_of_week"`
	StartSection *int    `json:"start_section"`
	EndSection   *int    `json:"end_section"`
	Weeks        *[]int  `json:"weeks"`
	Type         *string `json:"type"`
	Credits      *int    `json:"credits"`
	Description  *string `json:"description"`
	ColorHex     *string `json:"color_hex"`
}

// ScheduleListRequest 课表查询参数
type ScheduleListRequest struct {
	SemesterID int64 `form:"semester_id" binding:"required"`
	Week       *int  `form:"week"        binding:"omitempty,min=1"`
}

// ScheduleItemResponse 课表项响应
type ScheduleItemResponse struct {
	ID           int64   `json:"id"`
	SourceID     *int64  `json:"source_id,omitempty"`
	CourseName   string  `json:"course_name"`
	TeacherName  *string `json:"teacher_name,omitempty"`
	Location     *string `json:"location,omitempty"`
	DayOfWeek    int     `json:"day_of_week"`
	StartSection int     `json:"start_section"`
	EndSection   int     `json:"end_section"`
	WeeksRange   []int   `json:"weeks_range"`
	Type         *string `json:"type,omitempty"`
	Credits      *int    `json:"credits,omitempty"`
	Description  *string `json:"description,omitempty"`
	ColorHex     string  `json:"color_hex"`
	IsCustom     bool    `json:"is_custom"`
}

// FailedItem 批量添加中单个失败项
type FailedItem struct {
	CourseName   string `json:"course_name"`
	ErrorMessage string `json:"error_message"`
}

// BatchAddResult 批量添加结果
// 部分成功是常态：整体请求始终返回 HTTP 200，
// 失败项在 failed_items 中逐项报告原因
type BatchAddResult struct {
	SuccessfulItems []ScheduleItemResponse `json:"successful_items"`
	FailedItems     []FailedItem           `json:"failed_items"`
}

// ImportScheduleRequest 从 iCalendar 导入课表请求
type ImportScheduleRequest struct {
	SemesterID int64  `json:"semester_id" binding:"required"`
	URL        string `json:"url"         binding:"required,max=2048"`
}
