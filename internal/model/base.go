package model

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ── PostgreSQL INT[] 自定义类型 ──

// WeekSet 课程重复的周次集合，对应 PostgreSQL INT[] 类型，
// 实现 GORM Scanner/Valuer 接口。
type WeekSet []int

// Scan 将 PostgreSQL 返回的 {1,2,3} 文本解析为 []int。
func (w *WeekSet) Scan(src interface{}) error {
	if src == nil {
		*w = nil
		return nil
	}
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("WeekSet.Scan: unsupported type %T", src)
	}
	s = strings.Trim(s, "{}")
	if s == "" {
		*w = WeekSet{}
		return nil
	}
	parts := strings.Split(s, ",")
	weeks := make(WeekSet, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return fmt.Errorf("WeekSet.Scan: invalid element %q: %w", p, err)
		}
		weeks = append(weeks, n)
	}
	*w = weeks
	return nil
}

// Value 将 []int 序列化为 PostgreSQL {1,2,3} 文本。
func (w WeekSet) Value() (driver.Value, error) {
	if w == nil {
		return nil, nil
	}
	parts := make([]string, len(w))
	for i, n := range w {
		parts[i] = strconv.Itoa(n)
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

// Contains 判断周次集合是否包含指定周
func (w WeekSet) Contains(week int) bool {
	for _, n := range w {
		if n == week {
			return true
		}
	}
	return false
}

// Intersects 判断两个周次集合是否存在交集
func (w WeekSet) Intersects(other WeekSet) bool {
	for _, n := range w {
		if other.Contains(n) {
			return true
		}
	}
	return false
}

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
