package model

// Direction tells whether money left or entered the account.
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

// Identity is the locally registered user. At most one identity exists in
// the credential store at a time; a re-registration overwrites it.
type Identity struct {
	Username      string
	DisplayName   string
	AccountNumber string
	Email         string
	PhoneNumber   string
	// SecretHash is the bcrypt hash of the login credential secret.
	SecretHash []byte
	// StepUpHash is the bcrypt hash of the enrolled device step-up secret.
	// Empty means no step-up secret is enrolled on this device.
	StepUpHash []byte
	// BalanceCents is the cached balance for local-fallback operation.
	BalanceCents int64
}

// Session is the single-session record of the authenticated user. It exists
// only while logged in and is owned by session.Context.
type Session struct {
	UserID        string
	DisplayName   string
	AccountNumber string
	Email         string
	PhoneNumber   string
	BalanceCents  int64
	LastSyncedAt  int64
}

// Profile projects the session into the profile shape used by display code.
func (s Session) Profile() Profile {
	return Profile{
		Name:          s.DisplayName,
		AccountNumber: s.AccountNumber,
		Email:         s.Email,
		PhoneNumber:   s.PhoneNumber,
		BalanceCents:  s.BalanceCents,
	}
}

// Transaction is one row of account history, immutable once received.
// Timestamp is kept as the raw string the backend delivered; display
// formatting (and its parse fallback) is a rendering concern.
type Transaction struct {
	CounterpartyName string
	AmountCents      int64
	Direction        Direction
	Timestamp        string
}

// Profile is the authoritative account snapshot returned by a backend.
type Profile struct {
	Name          string
	AccountNumber string
	Email         string
	PhoneNumber   string
	BalanceCents  int64
}
