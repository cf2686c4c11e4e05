package domain

// Envelope is an AES-256-GCM ciphertext stored as three separate fields.
//
// For vault-key envelopes all three fields are standard base64. The authentication
// tag is stored apart from the ciphertext (GCM appends it on Seal).
type Envelope struct {
	Ciphertext string
	IV         string
	AuthTag    string
}

// GeneratedVaultKey is the result of minting a new vault key. PlainKey is base64 and
// must only ever be handed to the caller; Envelope is what gets persisted.
type GeneratedVaultKey struct {
	PlainKey string
	Envelope Envelope
}

// TotpEnvelope is the AES-256-GCM envelope of a TOTP secret. All fields are
// lowercase hex, which differs from vault-key envelopes on purpose: both formats are
// already in storage.
type TotpEnvelope struct {
	IV              string
	EncryptedSecret string
	AuthTag         string
}
