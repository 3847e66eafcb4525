// Package util provides generic utility functions shared by the bridge
// packages.
//
// It includes slice and map helpers and string sanitization, including
// a filesystem-safe key mapper used by the file storage backend and an
// env value cleaner used by the config loader.
package util
