// Package commands defines the salescli command tree: run (the default),
// merge, clean, report and pairs.
package commands
