// Package filesystem is the document backbone of the editor.
//
// Components:
//   - TreeIndexer: builds the filtered, sorted markdown tree of a folder
//     and the flat document listing
//   - ContentStore: whole-document text reads and overwrites
//   - ChangeWatcher: per-file modify notifications with stoppable registrations
//   - Provider: exposes the above as commands (get_file_tree, read_file,
//     write_file, watch_file, unwatch_file, list_documents, list_watches)
//
// Tree rules:
//   - names starting with "." are skipped at every level
//   - only files with an indexed extension (md, mdx by default, case-insensitive) are kept
//   - directories without documents at any depth are pruned
//   - directories sort before files, then by case-insensitive name
//
// Traversal uses an explicit stack and tracks the resolved path of every
// directory on the current descent, so symlink loops end instead of
// recursing forever. Subdirectories that cannot be listed are dropped from
// the tree; only a bad root fails the call.
//
// Every failure is an *Error whose Kind callers can test with IsKind.
//
// Example Usage:
//
//	indexer := filesystem.NewTreeIndexer(filesystem.Options{Logger: log})
//	entries, err := indexer.BuildTree(ctx, "/home/me/notes")
//	if filesystem.IsKind(err, filesystem.KindInvalidRoot) {
//	    // show message
//	}
package filesystem
