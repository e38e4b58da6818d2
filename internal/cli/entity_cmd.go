package cli

import (
	"context"
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"gymledger/internal/core"
	"gymledger/pkg/domain"
)

// repository is the method set shared by the member, course, diet plan and
// product repositories.
type repository[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Save(ctx context.Context, item T) (T, error)
	Search(ctx context.Context, term string) ([]T, error)
	Remove(ctx context.Context, id string) (bool, error)
}

// entityCmd describes the subcommands generated for one repository.
type entityCmd[T interface{ EntityID() string }] struct {
	use   string
	short string
	repo  func(*core.Store) repository[T]
	view  view[T]
	// flags registers the save flags; apply copies the changed ones onto item.
	flags func(cmd *cobra.Command)
	apply func(cmd *cobra.Command, item *T) error
	// newItem returns a blank item carrying id.
	newItem func(id string) T
	// followers, when set, adds a MEMBERS column counting the members that
	// reference each row as this entity type.
	followers domain.EntityType
}

func (e entityCmd[T]) command(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   e.use,
		Short: e.short,
	}
	cmd.AddCommand(e.listCmd(a), e.getCmd(a), e.saveCmd(a), e.removeCmd(a), e.searchCmd(a))
	return cmd
}

func (e entityCmd[T]) listCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every " + e.use + " in insertion order",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, _ []string, s *core.Store) error {
			items, err := e.repo(s).List(cmd.Context())
			if err != nil {
				return err
			}
			return e.show(cmd, s, items)
		}),
	}
}

func (e entityCmd[T]) getCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one " + e.use,
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *core.Store) error {
			item, err := e.repo(s).Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return e.view.renderOne(cmd, item)
		}),
	}
}

// saveCmd inserts a new row or updates an existing one. On update only the
// flags given on the command line change.
func (e entityCmd[T]) saveCmd(a *app) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create or update a " + e.use,
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(cmd *cobra.Command, _ []string, s *core.Store) error {
			repo := e.repo(s)
			item, err := repo.Get(cmd.Context(), id)
			var nf domain.NotFoundError
			switch {
			case errors.As(err, &nf):
				item = e.newItem(id)
			case err != nil:
				return err
			}
			if err := e.apply(cmd, &item); err != nil {
				return err
			}
			saved, err := repo.Save(cmd.Context(), item)
			if err != nil {
				return err
			}
			return e.view.renderOne(cmd, saved)
		}),
	}
	cmd.Flags().StringVar(&id, "id", "", "Record id (required)")
	_ = cmd.MarkFlagRequired("id")
	e.flags(cmd)
	return cmd
}

func (e entityCmd[T]) removeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a " + e.use,
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *core.Store) error {
			removed, err := e.repo(s).Remove(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !removed {
				return printMessage(cmd, "removed", false, "no %s with id %s", e.use, args[0])
			}
			return printMessage(cmd, "removed", true, "removed %s %s", e.use, args[0])
		}),
	}
}

func (e entityCmd[T]) searchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Case-insensitive substring search",
		Args:  cobra.ExactArgs(1),
		RunE: a.withStore(func(cmd *cobra.Command, args []string, s *core.Store) error {
			items, err := e.repo(s).Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return e.show(cmd, s, items)
		}),
	}
}

// show renders a listing. Table output gains the MEMBERS column when the
// entity has followers; JSON keeps the stored record shape.
func (e entityCmd[T]) show(cmd *cobra.Command, s *core.Store, items []T) error {
	if e.followers == "" || getOutputFormat(cmd) == "json" {
		return e.view.render(cmd, items)
	}
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.EntityID()
	}
	counts, err := s.Members.FollowerCounts(cmd.Context(), e.followers, ids...)
	if err != nil {
		return err
	}
	withCount := view[T]{
		headers: append(append([]string{}, e.view.headers...), "MEMBERS"),
		row: func(item T) []string {
			return append(e.view.row(item), strconv.Itoa(counts[item.EntityID()]))
		},
	}
	return withCount.render(cmd, items)
}
