package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finbourne/identity-sdk-go/apiclient"
	"github.com/finbourne/identity-sdk-go/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdentityServer(t *testing.T) *apiclient.Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/roles", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"r1","roleId":{"scope":"default","code":"admin"},"source":"LUSID","name":"Admin"}]`))
	})
	mux.HandleFunc("/api/roles/doesntExist", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set(response.RequestIDHeader, "0001:XYZ")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"name":"RoleNotFound","detail":"role not found"}`))
	})
	mux.HandleFunc("/api/users", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("includeRoles") != "true" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":"u1","login":"jane","roles":[{"id":"r1","name":"Admin"}]}]`))
	})
	mux.HandleFunc("/api/users/u1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"u1","login":"jane","emailAddress":"jane@example.com"}`))
	})
	mux.HandleFunc("/api/applications", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"a1","displayName":"Reporting","clientId":"client-a1"}]`))
	})
	mux.HandleFunc("/api/applications/a1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"a1","displayName":"Reporting","clientId":"client-a1"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return apiclient.NewClient(server.URL, server.Client())
}

func TestRolesApi(t *testing.T) {
	client := newIdentityServer(t)
	rolesApi := NewRolesApi(client)
	assert.Same(t, client, rolesApi.ApiClient())

	roles, err := rolesApi.ListRoles(context.Background())
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "admin", roles[0].RoleID.Code)

	_, err = rolesApi.GetRole(context.Background(), "doesntExist")
	var apiErr *response.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "0001:XYZ", apiErr.RequestID)
	assert.Equal(t, "role not found", apiErr.Message)
}

func TestUsersApi(t *testing.T) {
	usersApi := NewUsersApi(newIdentityServer(t))

	users, err := usersApi.ListUsers(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Admin", users[0].Roles[0].Name)

	user, err := usersApi.GetUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.EmailAddress)
}

func TestApplicationsApi(t *testing.T) {
	applicationsApi := NewApplicationsApi(newIdentityServer(t))

	applications, err := applicationsApi.ListApplications(context.Background())
	require.NoError(t, err)
	require.Len(t, applications, 1)

	application, err := applicationsApi.GetApplication(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "client-a1", application.ClientID)
}
