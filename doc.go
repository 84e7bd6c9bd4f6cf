// Package main runs MediaTek Formation, a catalog of free video trainings.
// Visitors browse formations and playlists, sorted and filtered by title,
// playlist, category or date. Administrators manage the catalog in a
// back-office behind a local login. Data is stored with gorm in MySQL,
// PostgreSQL or SQLite and pages are rendered by fiber from embedded
// templates.
package main
