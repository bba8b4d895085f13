package dto

// ── 全校课程模块 DTO ──

// CourseListRequest 课程列表查询参数
type CourseListRequest struct {
	SemesterID *int64  `form:"semester_id"`
	Name       *string `form:"name"`
	Teacher    *string `form:"teacher"`
	Page       int     `form:"page,default=1"     binding:"omitempty,min=1"`
	PageSize   int     `form:"pageSize,default=20" binding:"omitempty,min=1,max=100"`
}

// PublicCourseResponse 全校课程响应
type PublicCourseResponse struct {
	ID           int64   `json:"id"`
	CourseName   string  `json:"course_name"`
	TeacherName  string  `json:"teacher_name"`
	TeacherID    *string `json:"teacher_id,omitempty"`
	Location     string  `json:"location"`
	DayOfWeek    int     `json:"day_of_week"`
	StartSection int     `json:"start_section"`
	EndSection   int     `json:"end_section"`
	WeeksRange   []int   `json:"weeks_range"`
	Type         string  `json:"type"`
	Credits      *int    `json:"credits,omitempty"`
	Description  *string `json:"description,omitempty"`
}
