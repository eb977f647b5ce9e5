// Package cli implements the interactive studio command line: logging in,
// browsing the pages the session may act on, publishing posts and, for the
// administrator, managing user accounts.
package cli
