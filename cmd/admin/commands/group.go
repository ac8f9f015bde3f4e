package commands

import (
	"fmt"
	"text/tabwriter"

	"yatube/internal/adapters/database"
	"yatube/internal/core/apperr"
	groupapp "yatube/internal/core/group/service"

	"github.com/spf13/cobra"
)

func newGroupCmd(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage communities",
	}
	cmd.AddCommand(newGroupCreateCmd(open), newGroupListCmd(open), newGroupDeleteCmd(open))
	return cmd
}

func groupService(s *Session) *groupapp.GroupService {
	return groupapp.NewGroupService(database.NewGroupRepositoryDatabase(s.DB), s.Logger)
}

func newGroupCreateCmd(open Opener) *cobra.Command {
	var title, slug, description string
	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Add a community",
		Example: `  yatube-admin group create --title "Cats" --slug cats --description "All about cats"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(open, func(s *Session) error {
				g, err := groupService(s).CreateGroup(cmd.Context(), title, slug, description)
				if err != nil {
					if v, ok := apperr.AsValidation(err); ok {
						return fmt.Errorf("group not created: %s", v.Error())
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created group %q (%s).\n", g.Title, g.Slug)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Display title")
	cmd.Flags().StringVar(&slug, "slug", "", "URL slug: letters, digits, '-' or '_'")
	cmd.Flags().StringVar(&description, "description", "", "Short description")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("slug")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func newGroupListCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List communities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(open, func(s *Session) error {
				groups, err := groupService(s).ListGroups(cmd.Context())
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "SLUG\tTITLE")
				for _, g := range groups {
					fmt.Fprintf(w, "%s\t%s\n", g.Slug, g.Title)
				}
				return w.Flush()
			})
		},
	}
}

func newGroupDeleteCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <slug>",
		Short: "Remove a community; its posts stay, untagged",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(open, func(s *Session) error {
				if err := groupService(s).DeleteGroup(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("delete group %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted group %s.\n", args[0])
				return nil
			})
		},
	}
}
