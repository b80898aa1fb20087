package api

import (
	"context"
	"net/http"

	"github.com/finbourne/identity-sdk-go/apiclient"
	"github.com/finbourne/identity-sdk-go/model"
)

// RolesApi exposes the role operations of the identity API.
type RolesApi struct {
	apiClient apiclient.Handle
}

// NewRolesApi creates a RolesApi dispatching through apiClient.
func NewRolesApi(apiClient apiclient.Handle) *RolesApi {
	return &RolesApi{apiClient: apiClient}
}

// ApiClient returns the handle the API dispatches through.
func (a *RolesApi) ApiClient() apiclient.Handle {
	return a.apiClient
}

// ListRoles lists the roles available to the caller.
func (a *RolesApi) ListRoles(ctx context.Context) ([]model.RoleResponse, error) {
	var roles []model.RoleResponse
	err := invoke(ctx, a.apiClient, &apiclient.Call{Path: "/api/roles", Method: http.MethodGet}, &roles)
	return roles, err
}

// GetRole fetches a single role by id.
func (a *RolesApi) GetRole(ctx context.Context, roleID string) (*model.RoleResponse, error) {
	var role model.RoleResponse
	err := invoke(ctx, a.apiClient, &apiclient.Call{Path: "/api/roles/" + escape(roleID), Method: http.MethodGet}, &role)
	if err != nil {
		return nil, err
	}
	return &role, nil
}
