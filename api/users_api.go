package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/finbourne/identity-sdk-go/apiclient"
	"github.com/finbourne/identity-sdk-go/model"
)

// UsersApi exposes the user operations of the identity API.
type UsersApi struct {
	apiClient apiclient.Handle
}

// NewUsersApi creates a UsersApi dispatching through apiClient.
func NewUsersApi(apiClient apiclient.Handle) *UsersApi {
	return &UsersApi{apiClient: apiClient}
}

// ApiClient returns the handle calls are dispatched through.
func (a *UsersApi) ApiClient() apiclient.Handle {
	return a.apiClient
}

// ListUsers lists users, optionally expanding their role memberships.
func (a *UsersApi) ListUsers(ctx context.Context, includeRoles bool) ([]model.UserResponse, error) {
	var users []model.UserResponse
	call := &apiclient.Call{
		Path:        "/api/users",
		Method:      http.MethodGet,
		QueryParams: []apiclient.Pair{{Name: "includeRoles", Value: strconv.FormatBool(includeRoles)}},
	}
	err := invoke(ctx, a.apiClient, call, &users)
	return users, err
}

// GetUser fetches a single user by id.
func (a *UsersApi) GetUser(ctx context.Context, userID string) (*model.UserResponse, error) {
	var user model.UserResponse
	err := invoke(ctx, a.apiClient, &apiclient.Call{Path: "/api/users/" + escape(userID), Method: http.MethodGet}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
