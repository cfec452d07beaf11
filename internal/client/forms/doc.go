// Package forms holds the reusable form widgets behind the dashboard: the
// catalogue tag input, the media/price grid and the file→data URL reader.
// Widgets are plain state holders; they never touch the network.
package forms
