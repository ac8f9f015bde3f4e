package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"yatube/internal/adapters/database"
	"yatube/internal/config"
	commentapp "yatube/internal/core/comment/service"
	feedapp "yatube/internal/core/feed/service"
	followEntity "yatube/internal/core/follow"
	followapp "yatube/internal/core/follow/service"
	groupapp "yatube/internal/core/group/service"
	postEntity "yatube/internal/core/post"
	postapp "yatube/internal/core/post/service"
	userapp "yatube/internal/core/user/service"
	feedPort "yatube/internal/ports/feed"
	userPort "yatube/internal/ports/user"
	"yatube/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type harness struct {
	t      *testing.T
	db     *gorm.DB
	cfg    config.Config
	users  *userapp.UserService
	engine *gin.Engine
}

func newHarness(t *testing.T, tweak func(*config.Config)) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.UploadDir = t.TempDir()
	if tweak != nil {
		tweak(&cfg)
	}

	db := testutil.NewDB(t)
	log := zap.NewNop()
	userRepo := database.NewUserRepositoryDatabase(db)
	groupRepo := database.NewGroupRepositoryDatabase(db)
	postRepo := database.NewPostRepositoryDatabase(db)
	commentRepo := database.NewCommentRepositoryDatabase(db)
	followRepo := database.NewFollowRepositoryDatabase(db)

	users := userapp.NewUserService(userRepo, []byte("test-secret"), time.Hour, log)
	engine := SetupRoutes(cfg, log, UseCases{
		Users:    users,
		Groups:   groupapp.NewGroupService(groupRepo, log),
		Posts:    postapp.NewPostService(postRepo, groupRepo, log),
		Comments: commentapp.NewCommentService(commentRepo, postRepo, log),
		Follows:  followapp.NewFollowService(followRepo, userRepo, log),
		Feeds:    feedapp.NewFeedService(postRepo, groupRepo, userRepo, followRepo, commentRepo, cfg.PostsPerPage, log),
	})
	return &harness{t: t, db: db, cfg: cfg, users: users, engine: engine}
}

// signup registers username and returns a session token for it.
func (h *harness) signup(username string) string {
	h.t.Helper()
	ctx := context.Background()
	_, err := h.users.RegisterUser(ctx, userPort.SignupInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "correct-horse",
	})
	require.NoError(h.t, err)
	res, err := h.users.LoginUser(ctx, username, "correct-horse")
	require.NoError(h.t, err)
	return res.Token
}

func (h *harness) do(method, target, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	h.t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, req)
	return w
}

func (h *harness) get(target, token string) *httptest.ResponseRecorder {
	return h.do(http.MethodGet, target, token, nil, "")
}

func (h *harness) postForm(target, token string, form url.Values) *httptest.ResponseRecorder {
	return h.do(http.MethodPost, target, token, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestFollowScenario(t *testing.T) {
	h := newHarness(t, nil)
	author := h.signup("author")
	viewer := h.signup("viewer")

	w := h.postForm("/create/", author, url.Values{"text": {"hello world"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/author/", w.Header().Get("Location"))

	profile := decode[feedPort.ProfileView](t, h.get("/profile/author/", viewer))
	assert.False(t, profile.Following)
	assert.Equal(t, int64(1), profile.PostCount)

	w = h.get("/profile/author/follow/", viewer)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/author/", w.Header().Get("Location"))

	profile = decode[feedPort.ProfileView](t, h.get("/profile/author/", viewer))
	assert.True(t, profile.Following)

	feed := decode[feedPort.FollowView](t, h.get("/follow/", viewer))
	require.Len(t, feed.PageObj.Items, 1)
	assert.Equal(t, "hello world", feed.PageObj.Items[0].Text)

	// a repeat follow stays a single edge
	h.get("/profile/author/follow/", viewer)
	var edges int64
	require.NoError(t, h.db.Table("follows").Count(&edges).Error)
	assert.Equal(t, int64(1), edges)

	w = h.get("/profile/author/unfollow/", viewer)
	require.Equal(t, http.StatusFound, w.Code)

	feed = decode[feedPort.FollowView](t, h.get("/follow/", viewer))
	assert.Empty(t, feed.PageObj.Items)
}

func TestSelfFollowIsNoop(t *testing.T) {
	h := newHarness(t, nil)
	me := h.signup("me")

	w := h.get("/profile/me/follow/", me)
	assert.Equal(t, http.StatusFound, w.Code)

	var edges int64
	require.NoError(t, h.db.Table("follows").Count(&edges).Error)
	assert.Zero(t, edges)
}

func TestNonAuthorEditRedirects(t *testing.T) {
	h := newHarness(t, nil)
	author := h.signup("author")
	intruder := h.signup("intruder")
	require.Equal(t, http.StatusFound, h.postForm("/create/", author, url.Values{"text": {"mine"}}).Code)

	index := decode[feedPort.IndexView](t, h.get("/", ""))
	require.Len(t, index.PageObj.Items, 1)
	id := index.PageObj.Items[0].ID
	detail := fmt.Sprintf("/posts/%d/", id)

	w := h.get(detail+"edit/", intruder)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, detail, w.Header().Get("Location"))
	assert.NotContains(t, w.Body.String(), "form")

	w = h.postForm(detail+"edit/", intruder, url.Values{"text": {"hijacked"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, detail, w.Header().Get("Location"))

	post := decode[feedPort.PostDetailView](t, h.get(detail, ""))
	assert.Equal(t, "mine", post.Post.Text)

	w = h.get(detail+"edit/", author)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, true, body["is_edit"])

	w = h.postForm(detail+"edit/", author, url.Values{"text": {"edited"}})
	require.Equal(t, http.StatusFound, w.Code)
	post = decode[feedPort.PostDetailView](t, h.get(detail, ""))
	assert.Equal(t, "edited", post.Post.Text)
}

func TestNonAuthorEditForbiddenPolicy(t *testing.T) {
	h := newHarness(t, func(cfg *config.Config) {
		cfg.EditForbiddenPolicy = config.PolicyForbid
	})
	author := h.signup("author")
	intruder := h.signup("intruder")
	require.Equal(t, http.StatusFound, h.postForm("/create/", author, url.Values{"text": {"mine"}}).Code)
	index := decode[feedPort.IndexView](t, h.get("/", ""))

	w := h.get(fmt.Sprintf("/posts/%d/edit/", index.PageObj.Items[0].ID), intruder)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestIndexPagination(t *testing.T) {
	h := newHarness(t, nil)
	author := h.signup("author")
	for i := 0; i < 15; i++ {
		w := h.postForm("/create/", author, url.Values{"text": {fmt.Sprintf("post %02d", i)}})
		require.Equal(t, http.StatusFound, w.Code)
	}

	first := decode[feedPort.IndexView](t, h.get("/", ""))
	require.Len(t, first.PageObj.Items, 10)
	assert.Equal(t, "post 14", first.PageObj.Items[0].Text)
	assert.Equal(t, 2, first.PageObj.NumPages)

	second := decode[feedPort.IndexView](t, h.get("/?page=2", ""))
	assert.Len(t, second.PageObj.Items, 5)
	assert.Equal(t, "post 04", second.PageObj.Items[0].Text)

	junk := decode[feedPort.IndexView](t, h.get("/?page=abc", ""))
	assert.Equal(t, 1, junk.PageObj.Number)
}

func TestFollowFeedRequiresLogin(t *testing.T) {
	h := newHarness(t, nil)

	w := h.get("/follow/", "")
	require.Equal(t, http.StatusFound, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/auth/login/", loc.Path)
	assert.Equal(t, "/follow/", loc.Query().Get("next"))

	w = h.postForm("/create/", "", url.Values{"text": {"anon"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/auth/login/?next="))
}

func TestNotFound(t *testing.T) {
	h := newHarness(t, nil)

	for _, target := range []string{"/no/such/page/", "/posts/42/", "/posts/abc/", "/group/nope/", "/profile/ghost/"} {
		w := h.get(target, "")
		assert.Equal(t, http.StatusNotFound, w.Code, target)
		assert.NotContains(t, w.Body.String(), "record not found", target)
	}
}

func TestCreatePostValidation(t *testing.T) {
	h := newHarness(t, nil)
	author := h.signup("author")

	w := h.postForm("/create/", author, url.Values{"text": {""}, "group": {"x"}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[map[string]any](t, w)
	errs, ok := body["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errs, "text")
	assert.Contains(t, errs, "group")

	w = h.postForm("/create/", author, url.Values{"text": {"fine"}, "group": {"77"}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body = decode[map[string]any](t, w)
	assert.Contains(t, body["errors"], "group")

	index := decode[feedPort.IndexView](t, h.get("/", ""))
	assert.Empty(t, index.PageObj.Items)
}

func TestCreatePostInGroupWithImage(t *testing.T) {
	h := newHarness(t, nil)
	author := h.signup("author")
	g := testutil.CreateGroup(t, h.db, "cats")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("text", "look at this"))
	require.NoError(t, mw.WriteField("group", fmt.Sprint(g.ID)))
	fw, err := mw.CreateFormFile("image", "cat.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := h.do(http.MethodPost, "/create/", author, &buf, mw.FormDataContentType())
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())

	view := decode[feedPort.GroupView](t, h.get("/group/cats/", ""))
	require.Len(t, view.PageObj.Items, 1)
	image := view.PageObj.Items[0].Image
	require.NotEmpty(t, image)
	assert.Equal(t, ".png", filepath.Ext(image))
	_, err = os.Stat(filepath.FromSlash(image))
	assert.NoError(t, err)
}

func TestCreatePostRejectsNonImageUpload(t *testing.T) {
	h := newHarness(t, nil)
	author := h.signup("author")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("text", "not a picture"))
	fw, err := mw.CreateFormFile("image", "notes.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("just some text"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := h.do(http.MethodPost, "/create/", author, &buf, mw.FormDataContentType())
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "image")

	entries, err := os.ReadDir(h.cfg.UploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCommentAlwaysRedirects(t *testing.T) {
	h := newHarness(t, nil)
	author := h.signup("author")
	reader := h.signup("reader")
	require.Equal(t, http.StatusFound, h.postForm("/create/", author, url.Values{"text": {"discuss"}}).Code)
	index := decode[feedPort.IndexView](t, h.get("/", ""))
	detail := fmt.Sprintf("/posts/%d/", index.PageObj.Items[0].ID)

	w := h.postForm(detail+"comment/", reader, url.Values{"text": {"great"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, detail, w.Header().Get("Location"))

	w = h.postForm(detail+"comment/", reader, url.Values{"text": {""}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, detail, w.Header().Get("Location"))

	view := decode[feedPort.PostDetailView](t, h.get(detail, ""))
	require.Len(t, view.PageObj.Items, 1)
	assert.Equal(t, "great", view.PageObj.Items[0].Text)
	assert.Equal(t, "reader", view.PageObj.Items[0].Author.Username)

	assert.Equal(t, http.StatusNotFound, h.postForm("/posts/999/comment/", reader, url.Values{"text": {"x"}}).Code)
}

func TestSignupLoginLogout(t *testing.T) {
	h := newHarness(t, nil)

	w := h.postForm("/auth/signup/", "", url.Values{
		"first_name": {"Leo"},
		"last_name":  {"Tolstoy"},
		"username":   {"leo"},
		"email":      {"leo@example.com"},
		"password":   {"war-and-peace"},
	})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())

	w = h.postForm("/auth/signup/", "", url.Values{
		"username": {"leo"},
		"email":    {"other@example.com"},
		"password": {"war-and-peace"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "username")
	assert.NotContains(t, w.Body.String(), "war-and-peace")

	w = h.postForm("/auth/login/?next=/follow/", "", url.Values{"username": {"leo"}, "password": {"wrong-password"}})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = h.postForm("/auth/login/?next=/follow/", "", url.Values{"username": {"leo"}, "password": {"war-and-peace"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/follow/", w.Header().Get("Location"))

	var token string
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "token" {
			token = ck.Value
			assert.True(t, ck.HttpOnly)
		}
	}
	require.NotEmpty(t, token)
	assert.Equal(t, http.StatusOK, h.get("/follow/", token).Code)

	w = h.postForm("/auth/login/", "", url.Values{"username": {"leo"}, "password": {"war-and-peace"}, "next": {"//evil.example.com/"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = h.get("/auth/logout/", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "token=;")
}

func TestGroupsList(t *testing.T) {
	h := newHarness(t, nil)
	testutil.CreateGroup(t, h.db, "cats")
	testutil.CreateGroup(t, h.db, "dogs")

	body := decode[map[string][]map[string]any](t, h.get("/groups/", ""))
	require.Len(t, body["groups"], 2)
	assert.Equal(t, "cats", body["groups"][0]["slug"])
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/follow/", safeNext("/follow/"))
	assert.Equal(t, "/", safeNext(""))
	assert.Equal(t, "/", safeNext("https://evil.example.com/"))
	assert.Equal(t, "/", safeNext("//evil.example.com/"))
	assert.Equal(t, "/", safeNext(`/\evil.example.com`))
}

func TestCORSPreflight(t *testing.T) {
	h := newHarness(t, func(cfg *config.Config) {
		cfg.CORSAllowedOrigins = []string{"https://app.example.com"}
	})

	req := httptest.NewRequest(http.MethodOptions, "/create/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, req)

	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestPostFormRejectsMalformedGroup(t *testing.T) {
	h := newHarness(t, nil)
	author := h.signup("author")
	g := testutil.CreateGroup(t, h.db, "cats")

	for _, group := range []string{"-1", "1.5", "+1", "1e3", "99999999999999999999999"} {
		w := h.postForm("/create/", author, url.Values{"text": {"tagged"}, "group": {group}})
		require.Equal(t, http.StatusBadRequest, w.Code, group)
		body := decode[map[string]any](t, w)
		assert.Contains(t, body["errors"], "group", group)
	}
	var count int64
	require.NoError(t, h.db.Model(&postEntity.Post{}).Count(&count).Error)
	assert.Zero(t, count)

	w := h.postForm("/create/", author, url.Values{"text": {"tagged"}, "group": {fmt.Sprint(g.ID)}})
	require.Equal(t, http.StatusFound, w.Code)
	index := decode[feedPort.IndexView](t, h.get("/", ""))
	require.Len(t, index.PageObj.Items, 1)
	edit := fmt.Sprintf("/posts/%d/edit/", index.PageObj.Items[0].ID)

	for _, group := range []string{"-1", "1.5", "+1"} {
		w = h.postForm(edit, author, url.Values{"text": {"retagged"}, "group": {group}})
		require.Equal(t, http.StatusBadRequest, w.Code, group)
	}
	var stored postEntity.Post
	require.NoError(t, h.db.First(&stored, index.PageObj.Items[0].ID).Error)
	assert.Equal(t, "tagged", stored.Text)
	require.NotNil(t, stored.GroupID)
	assert.Equal(t, g.ID, *stored.GroupID)
}

func TestDeletedUserTokenIsAnonymous(t *testing.T) {
	h := newHarness(t, nil)
	ghost := h.signup("ghost")
	h.signup("other")
	require.NoError(t, h.users.DeleteUser(context.Background(), "ghost"))

	w := h.postForm("/create/", ghost, url.Values{"text": {"from beyond"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), h.cfg.LoginURL), w.Header().Get("Location"))

	w = h.get("/profile/other/follow/", ghost)
	require.Equal(t, http.StatusFound, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), h.cfg.LoginURL), w.Header().Get("Location"))

	var posts, follows int64
	require.NoError(t, h.db.Model(&postEntity.Post{}).Count(&posts).Error)
	require.NoError(t, h.db.Model(&followEntity.Follow{}).Count(&follows).Error)
	assert.Zero(t, posts)
	assert.Zero(t, follows)
}

func TestEditReplacingImageRemovesOldFile(t *testing.T) {
	h := newHarness(t, nil)
	author := h.signup("author")

	body, contentType := imageForm(t, "first")
	require.Equal(t, http.StatusFound, h.do(http.MethodPost, "/create/", author, body, contentType).Code)
	index := decode[feedPort.IndexView](t, h.get("/", ""))
	require.Len(t, index.PageObj.Items, 1)
	first := index.PageObj.Items[0]
	require.NotEmpty(t, first.Image)

	body, contentType = imageForm(t, "second")
	w := h.do(http.MethodPost, fmt.Sprintf("/posts/%d/edit/", first.ID), author, body, contentType)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())

	detail := decode[feedPort.PostDetailView](t, h.get(fmt.Sprintf("/posts/%d/", first.ID), ""))
	require.NotEmpty(t, detail.Post.Image)
	assert.NotEqual(t, first.Image, detail.Post.Image)

	_, err := os.Stat(filepath.FromSlash(first.Image))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.FromSlash(detail.Post.Image))
	assert.NoError(t, err)
}

// imageForm builds a multipart post form carrying a one-pixel PNG.
func imageForm(t *testing.T, text string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("text", text))
	fw, err := mw.CreateFormFile("image", "pixel.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}
