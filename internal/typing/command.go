package typing

import "fmt"

// CommandKind identifies a transition.
type CommandKind int

const (
	CmdInsert CommandKind = iota
	CmdDelete
	CmdReset
	CmdEnd
	CmdSeek
)

func (k CommandKind) String() string {
	switch k {
	case CmdInsert:
		return "insert"
	case CmdDelete:
		return "delete"
	case CmdReset:
		return "reset"
	case CmdEnd:
		return "end"
	case CmdSeek:
		return "seek"
	default:
		return fmt.Sprintf("command(%d)", int(k))
	}
}

// Command is a single transition request. Only the field matching Kind is read.
type Command struct {
	Kind      CommandKind
	Letter    string
	WholeWord bool
	Index     int
}

// Insert builds an insert command. An empty letter skips a slot.
func Insert(letter string) Command { return Command{Kind: CmdInsert, Letter: letter} }

// Delete builds a delete command.
func Delete(wholeWord bool) Command { return Command{Kind: CmdDelete, WholeWord: wholeWord} }

// Reset builds a reset command.
func Reset() Command { return Command{Kind: CmdReset} }

// End builds an end command.
func End() Command { return Command{Kind: CmdEnd} }

// Seek builds a seek command.
func Seek(index int) Command { return Command{Kind: CmdSeek, Index: index} }

// Apply runs cmd against s. Unknown kinds leave s unchanged.
func Apply(s Session, cmd Command) Session {
	switch cmd.Kind {
	case CmdInsert:
		return s.Insert(cmd.Letter)
	case CmdDelete:
		return s.Delete(cmd.WholeWord)
	case CmdReset:
		return s.Reset()
	case CmdEnd:
		return s.End()
	case CmdSeek:
		next, _ := s.Seek(cmd.Index)
		return next
	default:
		return s
	}
}

// Replay applies cmds in order starting from s.
func Replay(s Session, cmds ...Command) Session {
	for _, cmd := range cmds {
		s = Apply(s, cmd)
	}
	return s
}
