// Package cli provides the interactive booklib command-line client.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// Before login only register, login, help and exit are offered; afterwards
// the user can browse the catalog and manage favorites:
//
//	books            list the catalog
//	list             list favorites
//	add <id>         add a book to favorites
//	remove <id>      remove a book from favorites
//	logout           forget the token
package cli
