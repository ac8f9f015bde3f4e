// Package testutil holds helpers shared by store-backed tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"yatube/internal/adapters/database"
	"yatube/internal/core/group"
	"yatube/internal/core/post"
	"yatube/internal/core/user"

	"github.com/glebarez/sqlite"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewDB opens a private in-memory database with the schema migrated. It is
// closed when the test ends.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the shared in-memory database alive and serialises writers
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

// CreateUser stores a user with the given username and a throwaway password.
func CreateUser(t *testing.T, db *gorm.DB, username string) *user.User {
	t.Helper()
	u := &user.User{
		ID:        uuid.Must(uuid.NewV4()),
		FirstName: strings.ToUpper(username[:1]) + username[1:],
		LastName:  "Tester",
		Username:  username,
		Email:     username + "@example.com",
		Password:  "not-a-hash",
	}
	require.NoError(t, db.WithContext(context.Background()).Create(u).Error)
	return u
}

// CreateGroup stores a group whose title and description derive from slug.
func CreateGroup(t *testing.T, db *gorm.DB, slug string) *group.Group {
	t.Helper()
	g := NewGroupValue(slug)
	require.NoError(t, db.Create(g).Error)
	return g
}

// CreatePost stores a post by author, optionally tagged with g.
func CreatePost(t *testing.T, db *gorm.DB, author *user.User, g *group.Group, text string) *post.Post {
	t.Helper()
	p := &post.Post{Text: text, AuthorID: author.ID}
	if g != nil {
		p.GroupID = &g.ID
	}
	require.NoError(t, db.Omit(clause.Associations).Create(p).Error)
	return p
}

// NewGroupValue returns an unsaved group for slug.
func NewGroupValue(slug string) *group.Group {
	return &group.Group{
		Title:       "Group " + slug,
		Slug:        slug,
		Description: "Description of " + slug,
	}
}
