// Package startup handles the launch argument: a folder passed on the
// command line is resolved and announced to the webview as open-folder.
package startup
