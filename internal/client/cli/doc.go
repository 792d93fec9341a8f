// Package cli provides the interactive shopkeeper command-line client.
//
// It wires configuration, the primary and fallback stores, the persistence
// facade and the account/cart/order services, then runs a REPL until the
// user exits.
//
// Key features:
//   - Register / Login / Logout with sign-in rate limiting
//   - Profile updates and order history
//   - Cart management and checkout
//   - Storage and sign-in counters ("stats")
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
