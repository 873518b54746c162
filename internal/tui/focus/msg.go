package focus

// Msg is the interface for all focus TUI messages.
//
//sumtype:decl
type Msg interface {
	sealed()
}

// MsgTick is sent every second to refresh the countdown.
type MsgTick struct{}

func (MsgTick) sealed() {}

// MsgSaved is sent when a completion has been persisted to the task store.
type MsgSaved struct {
	Err error
}

func (MsgSaved) sealed() {}
