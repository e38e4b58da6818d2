package core

import (
	"context"
	"time"

	"gymledger/pkg/domain"
)

// DietPlanRepository stores diet plans.
type DietPlanRepository struct {
	*collection[domain.DietPlan]
}

// Remove deletes the diet plan and strips its id from every member in the same commit.
func (r *DietPlanRepository) Remove(ctx context.Context, id string) (removed bool, err error) {
	defer r.s.observe("diet_plan.remove", time.Now(), &err)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return removeWithCleanup(ctx, r.s, r.collection, id, func(m *domain.Member) *[]string { return &m.DietPlans })
}

func stampDietPlan(next, prev *domain.DietPlan, now time.Time) error {
	switch {
	case prev != nil:
		next.CreatedAt = prev.CreatedAt
	case next.CreatedAt.IsZero():
		next.CreatedAt = now
	}
	return nil
}
