// Package commands defines the senderkey CLI and wires dependencies for subcommands.
//
// Commands
//
//   - init           Create the local identity and pre-keys
//   - fingerprint    Print the identity fingerprint (your sender id)
//   - create         Start a new sender key epoch in a group
//   - distribution   Print the distribution message of your current epoch
//   - join           Record a peer's distribution message
//   - encrypt        Encrypt a message to a group
//   - decrypt        Decrypt a peer's group message
//
// Binary payloads are read and printed as standard base64.
//
// # Implementation
//
// The root command builds the logger and the dependency graph (stores,
// crypto, services) before any subcommand runs and releases them after.
package commands
