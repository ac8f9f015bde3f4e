package feed

import (
	"yatube/internal/pagination"
	commentPort "yatube/internal/ports/comment"
	groupPort "yatube/internal/ports/group"
	postPort "yatube/internal/ports/post"
	userPort "yatube/internal/ports/user"
)

type PostPage = pagination.Page[*postPort.PostDTO]

type IndexView struct {
	PageObj PostPage `json:"page_obj"`
}

type GroupView struct {
	Group   *groupPort.GroupDTO `json:"group"`
	PageObj PostPage            `json:"page_obj"`
}

type ProfileView struct {
	Author    *userPort.UserDTO `json:"author"`
	PostCount int64             `json:"post_count"`
	// Following is only meaningful for a signed-in viewer looking at someone
	// else; it is true otherwise so no follow button is offered.
	Following bool     `json:"following"`
	PageObj   PostPage `json:"page_obj"`
}

type FollowView struct {
	PageObj PostPage `json:"page_obj"`
}

type PostDetailView struct {
	Post      *postPort.PostDTO                        `json:"post"`
	PostCount int64                                    `json:"post_count"`
	PageObj   pagination.Page[*commentPort.CommentDTO] `json:"page_obj"`
}
