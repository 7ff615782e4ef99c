// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI mirrors the web client's pages:
//  1. [LoginView] : Credential form (email, password)
//  2. [SignupView] : Registration form with terms checkbox
//  3. [DashboardView] : Recently played, recommendations, and playlists for the signed-in user
//  4. [SearchView] : Catalog search with idle, loading, results, empty, and error states
//
// [Model.Init] applies the session gate: a persisted record opens the dashboard, anything else opens the login form.
// Login, signup, and search run as background tasks and report back through the Msg union type.
// Search progress flows through a channel from the [tasks.SearchEngine].
package ui
