// Package model holds the request and response payloads of the identity API.
package model

import "time"

// RoleResponse is a role defined in the identity service.
type RoleResponse struct {
	ID          string `json:"id"`
	RoleID      RoleID `json:"roleId"`
	Source      string `json:"source"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Links       []Link `json:"links,omitempty"`
}

// RoleID identifies a role within a scope.
type RoleID struct {
	Scope string `json:"scope"`
	Code  string `json:"code"`
}

// UserResponse is a user of the identity service.
type UserResponse struct {
	ID                 string            `json:"id"`
	AlternativeUserIDs map[string]string `json:"alternativeUserIds,omitempty"`
	EmailAddress       string            `json:"emailAddress"`
	SecondEmailAddress string            `json:"secondEmailAddress,omitempty"`
	Login              string            `json:"login"`
	FirstName          string            `json:"firstName"`
	LastName           string            `json:"lastName"`
	Type               string            `json:"type"`
	Status             string            `json:"status"`
	LastLogin          *time.Time        `json:"lastLogin,omitempty"`
	Roles              []RoleResponse    `json:"roles,omitempty"`
}

// ApplicationResponse is an OAuth client application registered with the identity service.
type ApplicationResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	DisplayName string `json:"displayName"`
	SecretID    string `json:"secret,omitempty"`
	ClientID    string `json:"clientId"`
	Issuer      string `json:"issuer,omitempty"`
	Links       []Link `json:"links,omitempty"`
}

// Link is a hypermedia link attached to a resource.
type Link struct {
	Relation string `json:"relation"`
	Href     string `json:"href"`
	Method   string `json:"method"`
}
