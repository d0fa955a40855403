// Package identity manages install-time key material: the identity key
// pair, the registration id and the pre-keys published alongside them.
//
// It enforces the passphrase policy and persists identities via the
// domain.IdentityStore and pre-keys via the domain.PreKeyStore.
package identity
