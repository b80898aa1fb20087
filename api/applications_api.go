package api

import (
	"context"
	"net/http"

	"github.com/finbourne/identity-sdk-go/apiclient"
	"github.com/finbourne/identity-sdk-go/model"
)

// ApplicationsApi exposes the OAuth client application operations of the identity API.
type ApplicationsApi struct {
	apiClient apiclient.Handle
}

// NewApplicationsApi creates an ApplicationsApi dispatching through apiClient.
func NewApplicationsApi(apiClient apiclient.Handle) *ApplicationsApi {
	return &ApplicationsApi{apiClient: apiClient}
}

// ApiClient returns the handle calls are dispatched through.
func (a *ApplicationsApi) ApiClient() apiclient.Handle {
	return a.apiClient
}

// ListApplications lists the applications registered with the identity service.
func (a *ApplicationsApi) ListApplications(ctx context.Context) ([]model.ApplicationResponse, error) {
	var applications []model.ApplicationResponse
	err := invoke(ctx, a.apiClient, &apiclient.Call{Path: "/api/applications", Method: http.MethodGet}, &applications)
	return applications, err
}

// GetApplication fetches a single application by id.
func (a *ApplicationsApi) GetApplication(ctx context.Context, id string) (*model.ApplicationResponse, error) {
	var application model.ApplicationResponse
	err := invoke(ctx, a.apiClient, &apiclient.Call{Path: "/api/applications/" + escape(id), Method: http.MethodGet}, &application)
	if err != nil {
		return nil, err
	}
	return &application, nil
}
