package types

// Identity holds the long-term identity key pair and registration id
// generated once at install time.
type Identity struct {
	KeyPair        KeyPair        `json:"key_pair"`
	RegistrationID RegistrationID `json:"registration_id"`
}
