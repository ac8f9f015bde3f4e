package commands

import (
	"bytes"
	"context"
	"testing"

	"yatube/internal/config"
	"yatube/internal/core/apperr"
	"yatube/internal/core/post"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func run(t *testing.T, db *gorm.DB, args ...string) (string, error) {
	t.Helper()
	open := func() (*Session, func(), error) {
		return &Session{DB: db, Logger: zap.NewNop(), Config: config.Default()}, func() {}, nil
	}
	var out bytes.Buffer
	root := NewRootCmd(open)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGroupCommands(t *testing.T) {
	db := testutil.NewDB(t)

	out, err := run(t, db, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")

	out, err = run(t, db, "group", "create", "--title", "Cats", "--slug", "cats", "--description", "All about cats")
	require.NoError(t, err)
	assert.Contains(t, out, `"Cats"`)

	_, err = run(t, db, "group", "create", "--title", "Again", "--slug", "cats", "--description", "dup")
	assert.Error(t, err)

	out, err = run(t, db, "group", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "SLUG")
	assert.Contains(t, out, "cats")

	author := testutil.CreateUser(t, db, "author")
	g := testutil.NewGroupValue("dogs")
	require.NoError(t, db.Create(g).Error)
	p := testutil.CreatePost(t, db, author, g, "woof")

	_, err = run(t, db, "group", "delete", "dogs")
	require.NoError(t, err)
	var kept post.Post
	require.NoError(t, db.First(&kept, p.ID).Error)
	assert.Nil(t, kept.GroupID)

	_, err = run(t, db, "group", "delete", "dogs")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUserDeleteCommand(t *testing.T) {
	db := testutil.NewDB(t)
	author := testutil.CreateUser(t, db, "author")
	testutil.CreatePost(t, db, author, nil, "bye")

	out, err := run(t, db, "user", "delete", "author")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted user author")

	var posts int64
	require.NoError(t, db.Table("posts").Count(&posts).Error)
	assert.Zero(t, posts)

	_, err = run(t, db, "user", "delete", "author")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGroupCreateRequiresFlags(t *testing.T) {
	db := testutil.NewDB(t)
	_, err := run(t, db, "group", "create", "--title", "Only title")
	assert.Error(t, err)
}
