// Package cli provides the interactive DataShare command-line client.
//
// It wires configuration, the local store, the identity provider and the
// dashboard services into a REPL. Commands on offer depend on whether someone
// is signed in and on their role:
//
//   - anonymous: register, login
//   - USER_A:    submit, history, latest, files, stats
//   - USER_B:    upload, latest, files, stats
//
// whoami, refresh, logout, help and exit are available to every signed-in
// user. The REPL is started via App.Run(ctx), which blocks until the user
// exits or stdin closes.
package cli
