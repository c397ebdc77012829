// Package config manages the user's catman configuration file.
//
// The configuration lives in a platform-appropriate directory
// (~/.config/catman/config.yaml on Linux and macOS, %LOCALAPPDATA%\catman
// on Windows) and stores known catalog servers plus application
// preferences. Saves are atomic: the file is written to a temporary path
// and renamed into place.
//
// Passwords are never written to the configuration file.
package config
