package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

type User struct {
	Login     string `json:"login"`
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type RepoPermissions struct {
	Read  bool `json:"read"`
	Write bool `json:"write"`
	Admin bool `json:"admin"`
}

type RepoAccess struct {
	HasAccess   bool             `json:"has_access"`
	Detail      string           `json:"detail,omitempty"`
	Permissions *RepoPermissions `json:"permissions,omitempty"`
}

func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/user", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CheckRepoAccess reports the caller's permissions on repo. A 404 means the repo is
// missing or invisible to the caller and is reported as no access, not an error.
func (c *Client) CheckRepoAccess(ctx context.Context, repo string) (*RepoAccess, error) {
	var details struct {
		Permissions struct {
			Pull  bool `json:"pull"`
			Push  bool `json:"push"`
			Admin bool `json:"admin"`
		} `json:"permissions"`
	}
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/repos/%s", strings.Trim(repo, "/")), nil, &details)
	if StatusCode(err) == http.StatusNotFound {
		return &RepoAccess{HasAccess: false, Detail: "Repository not found or no access"}, nil
	}
	if err != nil {
		return nil, err
	}
	return &RepoAccess{
		HasAccess: true,
		Permissions: &RepoPermissions{
			Read:  details.Permissions.Pull,
			Write: details.Permissions.Push,
			Admin: details.Permissions.Admin,
		},
	}, nil
}
