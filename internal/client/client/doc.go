// Package client contains client-side building blocks for the studio CLI.
//
// # Overview
//
// The package provides:
//  1. HTTPClient, which talks to the gateway JSON API: login, user
//     administration, page listings and publishing. It keeps the access
//     token returned by Login and sends it as a bearer token.
//  2. AdminClient, a gRPC client for the account administration service,
//     used for operations the JSON API does not expose (user deletion).
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) opening an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable, rejected credentials or tokens are
// ErrUnauthorized and any other non-success answer is an *APIError carrying
// the server message.
package client
