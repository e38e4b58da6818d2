package core

import (
	"context"
	"fmt"
	"time"

	"gymledger/pkg/domain"
)

// MemberRepository stores gym members.
type MemberRepository struct {
	*collection[domain.Member]
}

// Remove deletes the member. Nothing references members, so no cleanup runs.
func (r *MemberRepository) Remove(ctx context.Context, id string) (removed bool, err error) {
	defer r.s.observe("member.remove", time.Now(), &err)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.remove(ctx, id)
}

// Profile returns the member with its course and diet plan ids resolved to
// names. A reference whose target row is gone resolves to the raw id.
func (r *MemberRepository) Profile(ctx context.Context, id string) (profile domain.MemberProfile, err error) {
	defer r.s.observe("member.profile", time.Now(), &err)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	members, err := r.load(ctx)
	if err != nil {
		return profile, err
	}
	idx := indexOf(members, id)
	if idx < 0 {
		return profile, domain.NotFoundError{Entity: domain.EntityMember, ID: id}
	}
	courses, err := r.s.Courses.load(ctx)
	if err != nil {
		return profile, err
	}
	plans, err := r.s.DietPlans.load(ctx)
	if err != nil {
		return profile, err
	}
	member := members[idx]
	courseNames := make(map[string]string, len(courses))
	for _, c := range courses {
		courseNames[c.ID] = c.Name
	}
	planNames := make(map[string]string, len(plans))
	for _, p := range plans {
		planNames[p.ID] = p.Name
	}
	return domain.MemberProfile{
		Member:        member,
		CourseNames:   resolveNames(member.Courses, courseNames),
		DietPlanNames: resolveNames(member.DietPlans, planNames),
	}, nil
}

// FollowerCounts returns how many members reference each of ids. entity
// picks the reference list: domain.EntityCourse or domain.EntityDietPlan.
func (r *MemberRepository) FollowerCounts(ctx context.Context, entity domain.EntityType, ids ...string) (counts map[string]int, err error) {
	defer r.s.observe("member.follower_counts", time.Now(), &err)
	var follows func(domain.Member, string) bool
	switch entity {
	case domain.EntityCourse:
		follows = domain.Member.ReferencesCourse
	case domain.EntityDietPlan:
		follows = domain.Member.ReferencesDietPlan
	default:
		return nil, fmt.Errorf("members do not reference %s records", entity)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	members, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	counts = make(map[string]int, len(ids))
	for _, id := range ids {
		counts[id] = 0
		for _, m := range members {
			if follows(m, id) {
				counts[id]++
			}
		}
	}
	return counts, nil
}

func resolveNames(ids []string, names map[string]string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			out = append(out, name)
			continue
		}
		out = append(out, id)
	}
	return out
}

func stampMember(next, prev *domain.Member, now time.Time) error {
	if next.Courses == nil {
		next.Courses = []string{}
	}
	if next.DietPlans == nil {
		next.DietPlans = []string{}
	}
	switch {
	case prev != nil:
		next.CreatedAt = prev.CreatedAt
	case next.CreatedAt.IsZero():
		next.CreatedAt = now
	}
	next.UpdatedAt = now
	return nil
}
