// Package group runs the sender-key protocol against persisted sessions.
//
// Every operation loads the session of one (group, sender) pair, runs the
// pure protocol code from internal/protocol/group over it and stores the
// returned session only when the operation succeeded. Operations on the same
// pair are serialised; different pairs proceed in parallel.
//
// The local sender's own epochs live in the same store as the sessions of
// peers, under a sender id carrying the reserved "self:" prefix. Peer-facing
// operations reject that prefix with ErrReservedSender, so a distribution
// message can never replace the local signing keys.
package group
