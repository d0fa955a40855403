// Package store persists identities, pre-keys and group sessions.
//
// File stores serialise JSON under the configured home directory and write
// through a temp file and rename, so a crash never leaves a half-written
// file behind. The identity file is sealed with a passphrase. Group sessions
// can also be kept in LevelDB or Redis when several processes share them.
//
// The package includes stores for:
//   - Identity keys (IdentityFileStore)
//   - Pre-keys (PreKeyFileStore)
//   - Group sessions (GroupSessionFileStore, GroupSessionLevelDBStore,
//     GroupSessionRedisStore)
package store
