// Package report answers the fixed sales questions over an augmented table
// and renders the answers as plain text.
package report
