// Package cli provides the interactive notekeeper command-line client.
//
// It wires configuration, the local session database, API services and a
// read–eval–print loop. A login stores the session token together with its
// expiry; every protected command checks that expiry first and treats an
// expired session as logged out without calling the server.
//
// Commands
//
//	register, login, logout, forgot, reset, me
//	add, list [category], search <text>, show <id>, edit <id>, delete <id>
//	categories, export, help, exit
//
// export also downloads the document into the configured export directory.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
