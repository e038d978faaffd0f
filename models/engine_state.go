package models

// EngineState describes where the persistence engine is in its read/write
// cycle. It is informational only: the engine never blocks on it.
type EngineState int32

const (
	StateNoKey EngineState = iota
	StateKeyReady
	StateEncrypting
	StateDecrypting
	StateIdle
)

func (s EngineState) String() string {
	switch s {
	case StateNoKey:
		return "NO_KEY"
	case StateKeyReady:
		return "KEY_READY"
	case StateEncrypting:
		return "ENCRYPTING"
	case StateDecrypting:
		return "DECRYPTING"
	case StateIdle:
		return "IDLE"
	default:
		return "UNKNOWN"
	}
}

// ParseEngineState is the inverse of [EngineState.String]. Unknown names map
// to [StateNoKey].
func ParseEngineState(s string) EngineState {
	for st := StateNoKey; st <= StateIdle; st++ {
		if st.String() == s {
			return st
		}
	}
	return StateNoKey
}
