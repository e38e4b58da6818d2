package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"gymledger/internal/core"
	"gymledger/pkg/domain"
)

func descriptionFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Display name")
	cmd.Flags().String("description", "", "Free-text description")
}

// applyDescription copies --name and --description when given.
func applyDescription(cmd *cobra.Command, name, description *string) error {
	f := cmd.Flags()
	var err error
	if f.Changed("name") {
		*name, err = f.GetString("name")
	}
	if err == nil && f.Changed("description") {
		*description, err = f.GetString("description")
	}
	return err
}

func newCourseCmd(a *app) *cobra.Command {
	return entityCmd[domain.Course]{
		use:   "course",
		short: "Manage courses",
		repo:  func(s *core.Store) repository[domain.Course] { return s.Courses },
		view: view[domain.Course]{
			headers: []string{"ID", "NAME", "DESCRIPTION", "CREATED"},
			row: func(c domain.Course) []string {
				return []string{c.ID, c.Name, c.Description, formatTime(c.CreatedAt)}
			},
		},
		flags: descriptionFlags,
		apply: func(cmd *cobra.Command, c *domain.Course) error {
			return applyDescription(cmd, &c.Name, &c.Description)
		},
		newItem:   func(id string) domain.Course { return domain.Course{ID: id} },
		followers: domain.EntityCourse,
	}.command(a)
}

func newDietPlanCmd(a *app) *cobra.Command {
	return entityCmd[domain.DietPlan]{
		use:   "diet-plan",
		short: "Manage diet plans",
		repo:  func(s *core.Store) repository[domain.DietPlan] { return s.DietPlans },
		view: view[domain.DietPlan]{
			headers: []string{"ID", "NAME", "DESCRIPTION", "CREATED"},
			row: func(d domain.DietPlan) []string {
				return []string{d.ID, d.Name, d.Description, formatTime(d.CreatedAt)}
			},
		},
		flags: descriptionFlags,
		apply: func(cmd *cobra.Command, d *domain.DietPlan) error {
			return applyDescription(cmd, &d.Name, &d.Description)
		},
		newItem:   func(id string) domain.DietPlan { return domain.DietPlan{ID: id} },
		followers: domain.EntityDietPlan,
	}.command(a)
}

var productView = view[domain.Product]{
	headers: []string{"ID", "NAME", "QUANTITY", "PRICE", "UPDATED"},
	row: func(p domain.Product) []string {
		return []string{p.ID, p.Name, strconv.Itoa(p.Quantity), formatMoney(p.Price), formatTime(p.UpdatedAt)}
	},
}

func newProductCmd(a *app) *cobra.Command {
	return entityCmd[domain.Product]{
		use:   "product",
		short: "Manage inventory products",
		repo:  func(s *core.Store) repository[domain.Product] { return s.Products },
		view:  productView,
		flags: func(cmd *cobra.Command) {
			cmd.Flags().String("name", "", "Display name")
			cmd.Flags().Int("quantity", 0, "Units in stock")
			cmd.Flags().Float64("price", 0, "Unit price")
		},
		apply: func(cmd *cobra.Command, p *domain.Product) error {
			f := cmd.Flags()
			var err error
			if f.Changed("name") {
				p.Name, err = f.GetString("name")
			}
			if err == nil && f.Changed("quantity") {
				p.Quantity, err = f.GetInt("quantity")
			}
			if err == nil && f.Changed("price") {
				p.Price, err = f.GetFloat64("price")
			}
			return err
		},
		newItem: func(id string) domain.Product { return domain.Product{ID: id} },
	}.command(a)
}
