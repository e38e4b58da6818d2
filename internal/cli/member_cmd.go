package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gymledger/internal/core"
	"gymledger/pkg/domain"
)

var memberView = view[domain.Member]{
	headers: []string{"ID", "NAME", "AGE", "HEIGHT", "WEIGHT", "COURSES", "DIET PLANS", "UPDATED"},
	row: func(m domain.Member) []string {
		return []string{
			m.ID, m.Name, strconv.Itoa(m.Age), formatFloat(m.Height), formatFloat(m.Weight),
			strings.Join(m.Courses, ","), strings.Join(m.DietPlans, ","), formatTime(m.UpdatedAt),
		}
	},
}

var profileView = view[domain.MemberProfile]{
	headers: []string{"ID", "NAME", "AGE", "HEIGHT", "WEIGHT", "COURSES", "DIET PLANS"},
	row: func(p domain.MemberProfile) []string {
		return []string{
			p.Member.ID, p.Member.Name, strconv.Itoa(p.Member.Age), formatFloat(p.Member.Height), formatFloat(p.Member.Weight),
			strings.Join(p.CourseNames, ", "), strings.Join(p.DietPlanNames, ", "),
		}
	},
}

func newMemberCmd(a *app) *cobra.Command {
	e := entityCmd[domain.Member]{
		use:   "member",
		short: "Manage gym members",
		repo:  func(s *core.Store) repository[domain.Member] { return s.Members },
		view:  memberView,
		flags: func(cmd *cobra.Command) {
			cmd.Flags().String("name", "", "Full name")
			cmd.Flags().Int("age", 0, "Age in years")
			cmd.Flags().Float64("height", 0, "Height in cm")
			cmd.Flags().Float64("weight", 0, "Weight in kg")
			cmd.Flags().StringSlice("course", nil, "Enrolled course ids (replaces the list)")
			cmd.Flags().StringSlice("diet-plan", nil, "Assigned diet plan ids (replaces the list)")
		},
		apply: func(cmd *cobra.Command, m *domain.Member) error {
			f := cmd.Flags()
			var err error
			if f.Changed("name") {
				m.Name, err = f.GetString("name")
			}
			if err == nil && f.Changed("age") {
				m.Age, err = f.GetInt("age")
			}
			if err == nil && f.Changed("height") {
				m.Height, err = f.GetFloat64("height")
			}
			if err == nil && f.Changed("weight") {
				m.Weight, err = f.GetFloat64("weight")
			}
			if err == nil && f.Changed("course") {
				m.Courses, err = f.GetStringSlice("course")
			}
			if err == nil && f.Changed("diet-plan") {
				m.DietPlans, err = f.GetStringSlice("diet-plan")
			}
			return err
		},
		newItem: func(id string) domain.Member { return domain.Member{ID: id} },
	}
	cmd := e.command(a)
	cmd.AddCommand(&cobra.Command{
		Use:   "profile <id>",
		Short: "Show a member with course and diet plan names resolved",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *core.Store) error {
			profile, err := s.Members.Profile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return profileView.renderOne(cmd, profile)
		}),
	})
	return cmd
}
