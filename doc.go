// Package main provides the entry point for the user management application.
// It initializes and runs a web server using the Fiber framework that exposes
// a REST API and a small embedded admin UI for managing users, groups and
// permissions in a many-to-many relationship. The application uses gorm for
// data persistence and ships a read-only dashboard summarizing assignments.
package main
