// Package api contains the identity API types. Every type in this package has a single constructor
// taking an apiclient.Handle, and delegates all dispatch to that handle.
package api

import (
	"context"
	"net/url"

	"github.com/finbourne/identity-sdk-go/apiclient"
)

// authNames are the auth schemes accepted by every identity endpoint.
var authNames = []string{"oauth2"}

// invoke dispatches call on h and decodes the JSON response into out.
func invoke(ctx context.Context, h apiclient.Handle, call *apiclient.Call, out any) error {
	call.AuthNames = authNames
	resp, err := h.Dispatch(ctx, call)
	if err != nil {
		return err
	}
	return apiclient.DecodeJSON(resp, out)
}

func escape(segment string) string {
	return url.PathEscape(segment)
}
