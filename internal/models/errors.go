package models

import "errors"

var (
	// ErrRouteNotFound is returned when no route exists for an alias or id,
	// or when the route is inactive and only active routes were requested.
	ErrRouteNotFound = errors.New("route not found")

	// ErrAliasExists is returned when creating a route with a taken alias.
	ErrAliasExists = errors.New("alias already exists")
)
