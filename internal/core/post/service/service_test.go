package postapp

import (
	"context"
	"testing"
	"time"

	"yatube/internal/adapters/database"
	"yatube/internal/core/apperr"
	postPort "yatube/internal/ports/post"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(db *gorm.DB) *PostService {
	return NewPostService(
		database.NewPostRepositoryDatabase(db),
		database.NewGroupRepositoryDatabase(db),
		zap.NewNop(),
	)
}

func TestCreatePostForcesAuthor(t *testing.T) {
	db := testutil.NewDB(t)
	s := newService(db)
	author := testutil.CreateUser(t, db, "author")
	g := testutil.CreateGroup(t, db, "cats")

	p, err := s.CreatePost(context.Background(), author.ID, postPort.PostInput{
		Text:    "hello world",
		GroupID: &g.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "author", p.Author.Username)
	require.NotNil(t, p.Group)
	assert.Equal(t, "cats", p.Group.Slug)
	assert.False(t, p.PubDate.IsZero())
}

func TestCreatePostValidation(t *testing.T) {
	db := testutil.NewDB(t)
	s := newService(db)
	author := testutil.CreateUser(t, db, "author")
	missing := uint(999)

	_, err := s.CreatePost(context.Background(), author.ID, postPort.PostInput{
		Text:    "   ",
		GroupID: &missing,
	})
	v, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, v.Fields, "text")
	assert.Contains(t, v.Fields, "group")

	var count int64
	require.NoError(t, db.Table("posts").Count(&count).Error)
	assert.Zero(t, count)
}

func TestEditPostOnlyByAuthor(t *testing.T) {
	db := testutil.NewDB(t)
	s := newService(db)
	ctx := context.Background()
	author := testutil.CreateUser(t, db, "author")
	other := testutil.CreateUser(t, db, "other")
	original := testutil.CreatePost(t, db, author, nil, "first draft")
	original.Image = "posts/a.png"
	require.NoError(t, db.Model(original).Update("image", original.Image).Error)

	_, err := s.GetPostForEdit(ctx, other.ID, original.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = s.EditPost(ctx, other.ID, original.ID, postPort.PostInput{Text: "hijacked"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = s.GetPostForEdit(ctx, author.ID, 12345)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	edited, err := s.EditPost(ctx, author.ID, original.ID, postPort.PostInput{Text: "second draft"})
	require.NoError(t, err)
	assert.Equal(t, "second draft", edited.Text)
	assert.Equal(t, "posts/a.png", edited.Image)
	assert.WithinDuration(t, original.PubDate, edited.PubDate, time.Second)
	assert.Equal(t, "author", edited.Author.Username)
}

func TestEditPostRejectsInvalidInput(t *testing.T) {
	db := testutil.NewDB(t)
	s := newService(db)
	author := testutil.CreateUser(t, db, "author")
	p := testutil.CreatePost(t, db, author, nil, "keep me")

	_, err := s.EditPost(context.Background(), author.ID, p.ID, postPort.PostInput{Text: ""})
	_, ok := apperr.AsValidation(err)
	require.True(t, ok)

	got, err := s.GetPost(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep me", got.Text)
}
