package service

import (
	"context"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/silenter1100/campus-backend/internal/model"
	"github.com/silenter1100/campus-backend/internal/repository"
)

// ── Mock SemesterRepository ──

type mockSemesterRepo struct {
	semesters map[int64]*model.Semester
}

func newMockSemesterRepo() *mockSemesterRepo {
	return &mockSemesterRepo{semesters: make(map[int64]*model.Semester)}
}

func (m *mockSemesterRepo) GetByID(_ context.Context, id int64) (*model.Semester, error) {
	if s, ok := m.semesters[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) GetCurrent(_ context.Context) (*model.Semester, error) {
	for _, s := range m.semesters {
		if s.IsCurrent {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) List(_ context.Context) ([]model.Semester, error) {
	result := make([]model.Semester, 0, len(m.semesters))
	for _, s := range m.semesters {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].IsCurrent != result[j].IsCurrent {
			return result[i].IsCurrent
		}
		return result[i].StartDate.After(result[j].StartDate)
	})
	return result, nil
}

// ── Mock PublicCourseRepository ──

type mockPublicCourseRepo struct {
	courses map[int64]*model.PublicCourse
}

func newMockPublicCourseRepo() *mockPublicCourseRepo {
	return &mockPublicCourseRepo{courses: make(map[int64]*model.PublicCourse)}
}

func (m *mockPublicCourseRepo) GetByID(_ context.Context, id int64) (*model.PublicCourse, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPublicCourseRepo) Search(_ context.Context, filter repository.CourseFilter) ([]model.PublicCourse, int64, error) {
	var matched []model.PublicCourse
	for _, c := range m.courses {
		if filter.SemesterID != nil && c.SemesterID != *filter.SemesterID {
			continue
		}
		if filter.Name != nil && !strings.Contains(c.CourseName, *filter.Name) {
			continue
		}
		if filter.Teacher != nil && !strings.Contains(c.TeacherName, *filter.Teacher) {
			continue
		}
		matched = append(matched, *c)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := int64(len(matched))
	offset := (filter.Page - 1) * filter.PageSize
	if offset >= len(matched) {
		return []model.PublicCourse{}, total, nil
	}
	end := offset + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

// ── Mock ScheduleItemRepository ──

type mockScheduleItemRepo struct {
	items  map[int64]*model.ScheduleItem
	nextID int64

	// 注入点：返回非 nil 时对应操作直接失败
	createErr error
	listErr   error
}

func newMockScheduleItemRepo() *mockScheduleItemRepo {
	return &mockScheduleItemRepo{items: make(map[int64]*model.ScheduleItem), nextID: 1}
}

func (m *mockScheduleItemRepo) GetByIDAndUser(_ context.Context, id int64, userID string) (*model.ScheduleItem, error) {
	if item, ok := m.items[id]; ok && item.UserID == userID {
		copied := *item
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleItemRepo) ListByUserAndSemester(_ context.Context, userID string, semesterID int64, dayOfWeek *int) ([]model.ScheduleItem, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []model.ScheduleItem
	for _, item := range m.items {
		if item.UserID != userID || item.SemesterID != semesterID {
			continue
		}
		if dayOfWeek != nil && item.DayOfWeek != *dayOfWeek {
			continue
		}
		result = append(result, *item)
	}
	sortItems(result)
	return result, nil
}

func (m *mockScheduleItemRepo) ListForWeek(_ context.Context, userID string, semesterID int64, week int) ([]model.ScheduleItem, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []model.ScheduleItem
	for _, item := range m.items {
		if item.UserID != userID || item.SemesterID != semesterID {
			continue
		}
		if !item.WeeksRange.Contains(week) {
			continue
		}
		result = append(result, *item)
	}
	sortItems(result)
	return result, nil
}

func (m *mockScheduleItemRepo) Create(_ context.Context, item *model.ScheduleItem) error {
	if m.createErr != nil {
		return m.createErr
	}
	item.ID = m.nextID
	m.nextID++
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *mockScheduleItemRepo) Update(_ context.Context, item *model.ScheduleItem) error {
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *mockScheduleItemRepo) Delete(_ context.Context, id int64, userID string) (int64, error) {
	if item, ok := m.items[id]; ok && item.UserID == userID {
		delete(m.items, id)
		return 1, nil
	}
	return 0, nil
}

func sortItems(items []model.ScheduleItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].DayOfWeek != items[j].DayOfWeek {
			return items[i].DayOfWeek < items[j].DayOfWeek
		}
		return items[i].StartSection < items[j].StartSection
	})
}
