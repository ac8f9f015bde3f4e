// Package commands is the administrative CLI: schema migration and
// management of groups and accounts.
package commands

import (
	"fmt"
	"os"

	"yatube/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Session is what every command runs against.
type Session struct {
	DB     *gorm.DB
	Logger *zap.Logger
	Config config.Config
}

// Opener builds a Session. The returned func releases it.
type Opener func() (*Session, func(), error)

// Execute runs the CLI against the configured database.
func Execute() {
	if err := NewRootCmd(openConfigured).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func NewRootCmd(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:   "yatube-admin",
		Short: "Administer a Yatube installation",
		Long: `Administrative tasks that have no place on the public site.

Commands:
  migrate        - create or update the schema
  group create   - add a community
  group list     - list communities
  group delete   - remove a community; its posts stay, untagged
  user delete    - remove an account with its posts, comments and follows`,
		SilenceUsage: true,
	}
	root.AddCommand(newMigrateCmd(open), newGroupCmd(open), newUserCmd(open))
	return root
}

func openConfigured() (*Session, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	db, err := config.OpenDB(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if err := config.CloseDB(db); err != nil {
			logger.Error("Error closing database connection", zap.Error(err))
		}
		_ = logger.Sync()
	}
	return &Session{DB: db, Logger: logger, Config: cfg}, release, nil
}

// withSession opens a session for the duration of run.
func withSession(open Opener, run func(s *Session) error) error {
	s, release, err := open()
	if err != nil {
		return err
	}
	defer release()
	return run(s)
}
