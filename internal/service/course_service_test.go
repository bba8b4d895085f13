package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/silenter1100/campus-backend/internal/dto"
	"github.com/silenter1100/campus-backend/internal/model"
)

// setupTestCourseService rdb 传 nil 走缓存降级路径（直查存储）
func setupTestCourseService() (CourseService, *testRepos) {
	repos := newTestRepos()
	svc := NewCourseService(repos.toRepository(), nil, zap.NewNop())
	return svc, repos
}

func seedCourses(repos *testRepos) {
	repos.publicCourse.courses[1] = &model.PublicCourse{
		ID: 1, SemesterID: 1, CourseName: "高等数学", TeacherName: "王老师",
		Location: "一教101", DayOfWeek: 1, StartSection: 1, EndSection: 2,
		WeeksRange: model.WeekSet{1, 2, 3}, Type: "required",
	}
	repos.publicCourse.courses[2] = &model.PublicCourse{
		ID: 2, SemesterID: 1, CourseName: "大学英语", TeacherName: "李老师",
		Location: "二教202", DayOfWeek: 2, StartSection: 3, EndSection: 4,
		WeeksRange: model.WeekSet{1, 2, 3}, Type: "required",
	}
	repos.publicCourse.courses[3] = &model.PublicCourse{
		ID: 3, SemesterID: 2, CourseName: "高等数学(下)", TeacherName: "王老师",
		Location: "一教101", DayOfWeek: 1, StartSection: 1, EndSection: 2,
		WeeksRange: model.WeekSet{1, 2, 3}, Type: "required",
	}
}

func TestCourseService_ListSemesters(t *testing.T) {
	svc, repos := setupTestCourseService()
	repos.semester.semesters[1] = &model.Semester{
		ID: 1, Name: "2025-2026-1",
		StartDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 1, 18, 0, 0, 0, 0, time.UTC),
	}
	repos.semester.semesters[2] = &model.Semester{
		ID: 2, Name: "2025-2026-2",
		StartDate: time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 28, 0, 0, 0, 0, time.UTC),
		IsCurrent: true,
	}

	result, err := svc.ListSemesters(context.Background())
	if err != nil {
		t.Fatalf("ListSemesters 应成功: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("期望 2 个学期，实际=%d", len(result))
	}
	// 当前学期排在最前
	if !result[0].IsCurrent {
		t.Errorf("当前学期应排在最前，实际第一项: %+v", result[0])
	}
	if result[0].StartDate != "2026-02-23" {
		t.Errorf("日期应格式化为 YYYY-MM-DD，实际=%s", result[0].StartDate)
	}
}

func TestCourseService_GetCurrentSemester(t *testing.T) {
	svc, repos := setupTestCourseService()
	repos.semester.semesters[1] = &model.Semester{
		ID: 1, Name: "2025-2026-2",
		StartDate: time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 28, 0, 0, 0, 0, time.UTC),
		IsCurrent: true,
	}

	resp, err := svc.GetCurrentSemester(context.Background())
	if err != nil {
		t.Fatalf("GetCurrentSemester 应成功: %v", err)
	}
	if resp.ID != 1 || !resp.IsCurrent {
		t.Errorf("返回的学期不符: %+v", resp)
	}
}

func TestCourseService_GetCurrentSemester_NotFound(t *testing.T) {
	svc, _ := setupTestCourseService()

	_, err := svc.GetCurrentSemester(context.Background())
	if !errors.Is(err, ErrSemesterNotFound) {
		t.Errorf("期望 ErrSemesterNotFound，实际: %v", err)
	}
}

func TestCourseService_ListCourses_Filter(t *testing.T) {
	svc, repos := setupTestCourseService()
	seedCourses(repos)

	semID := int64(1)
	name := "数学"
	result, total, err := svc.ListCourses(context.Background(), &dto.CourseListRequest{
		SemesterID: &semID,
		Name:       &name,
		Page:       1,
		PageSize:   20,
	})
	if err != nil {
		t.Fatalf("ListCourses 应成功: %v", err)
	}
	if total != 1 || len(result) != 1 {
		t.Fatalf("期望命中 1 门课程，实际 total=%d len=%d", total, len(result))
	}
	if result[0].CourseName != "高等数学" {
		t.Errorf("筛选结果不符: %+v", result[0])
	}
}

func TestCourseService_ListCourses_Pagination(t *testing.T) {
	svc, repos := setupTestCourseService()
	seedCourses(repos)

	result, total, err := svc.ListCourses(context.Background(), &dto.CourseListRequest{
		Page:     2,
		PageSize: 2,
	})
	if err != nil {
		t.Fatalf("ListCourses 应成功: %v", err)
	}
	if total != 3 {
		t.Errorf("total 应为全量计数 3，实际=%d", total)
	}
	if len(result) != 1 {
		t.Errorf("第2页应只剩 1 条，实际=%d", len(result))
	}
}

func TestCourseService_ListCourses_DefaultPaging(t *testing.T) {
	svc, repos := setupTestCourseService()
	seedCourses(repos)

	// 非法分页参数回退到默认值
	result, _, err := svc.ListCourses(context.Background(), &dto.CourseListRequest{Page: 0, PageSize: 0})
	if err != nil {
		t.Fatalf("ListCourses 应成功: %v", err)
	}
	if len(result) != 3 {
		t.Errorf("默认分页应返回全部 3 条，实际=%d", len(result))
	}
}
