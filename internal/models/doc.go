// Package models defines domain entities and the storage interface for the OKmusi demo service.
//
// The package contains two categories of types:
//
// 1. Catalog records: read-only fixtures standing in for a music catalog
//   - [Song] : A track with album, duration, and genre
//   - [Artist] : An artist with follower count and top song
//   - [Album] : An album with release year and track count
//   - [Playlist] : A user playlist shown on the dashboard
//   - [FeaturedPlaylist] : A curated playlist shown on the landing page
//
// 2. Session and view data
//   - [Session] : The persisted proof-of-login for one device
//   - [SearchResults], [Dashboard], [Home], [NowPlaying] : Read models for each view
//
// The [Store] interface is the key-value boundary standing in for browser local storage.
package models
