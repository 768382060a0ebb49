package protocol

// Command is a raw, unframed paddle command sent to the server.
type Command string

const (
	CmdUp   Command = "UP"
	CmdDown Command = "DOWN"
)

// Bytes returns the exact bytes written to the wire.
func (c Command) Bytes() []byte { return []byte(c) }
