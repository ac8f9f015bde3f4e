package commands

import (
	"fmt"

	"yatube/internal/adapters/database"
	userapp "yatube/internal/core/user/service"

	"github.com/spf13/cobra"
)

func newUserCmd(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <username>",
		Short: "Remove an account with its posts, comments and follows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(open, func(s *Session) error {
				svc := userapp.NewUserService(
					database.NewUserRepositoryDatabase(s.DB),
					[]byte(s.Config.JWTSecret),
					s.Config.JWTTTL,
					s.Logger,
				)
				if err := svc.DeleteUser(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("delete user %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s.\n", args[0])
				return nil
			})
		},
	})
	return cmd
}
