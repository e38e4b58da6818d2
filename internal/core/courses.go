package core

import (
	"context"
	"time"

	"gymledger/pkg/domain"
)

// CourseRepository stores training courses.
type CourseRepository struct {
	*collection[domain.Course]
}

// Remove deletes the course and strips its id from every member in the same commit.
func (r *CourseRepository) Remove(ctx context.Context, id string) (removed bool, err error) {
	defer r.s.observe("course.remove", time.Now(), &err)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return removeWithCleanup(ctx, r.s, r.collection, id, func(m *domain.Member) *[]string { return &m.Courses })
}

func stampCourse(next, prev *domain.Course, now time.Time) error {
	switch {
	case prev != nil:
		next.CreatedAt = prev.CreatedAt
	case next.CreatedAt.IsZero():
		next.CreatedAt = now
	}
	return nil
}
