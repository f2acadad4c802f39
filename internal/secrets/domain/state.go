package domain

// State is the logical, read-time classification of a secret.
//
// Only Alive is non-terminal: it moves to Consumed through disclosure, or is
// observed as Expired once the clock passes the deadline.
type State string

const (
	// StateInvalid means no record exists for the identifier.
	StateInvalid State = "invalid"
	// StateAlive means the secret can still be disclosed.
	StateAlive State = "alive"
	// StateExpired means the expiry window elapsed before anyone read the secret.
	StateExpired State = "expired"
	// StateConsumed means the secret was already disclosed.
	StateConsumed State = "consumed"
)

// Terminal reports whether no transition can leave s.
func (s State) Terminal() bool {
	return s != StateAlive
}

func (s State) String() string {
	return string(s)
}
