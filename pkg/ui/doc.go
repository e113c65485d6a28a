// Package ui renders the read-only status report of an instance in one of
// three formats: a styled terminal view, plain text, or JSON.
package ui
