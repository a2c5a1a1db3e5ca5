package domain

// Update is an inbound bot update. At most one of Message and CallbackQuery is set.
type Update struct {
	UpdateID      int
	Message       *Message
	CallbackQuery *CallbackQuery
}

// Message is a chat message sent to the bot
type Message struct {
	ChatID     int64
	SenderID   int64
	SenderName string // first name, may be empty
	Text       string
}

// CallbackQuery is an inline keyboard button click
type CallbackQuery struct {
	ID        string
	SenderID  int64
	ChatID    int64
	MessageID int
	Data      string
}

// Callback data values used by the menu keyboard
const (
	CallbackListCommands = "list_commands"
	CallbackShowHelp     = "show_help"
)

// IsRunID reports whether callback data is a workflow run id (all ASCII digits)
func IsRunID(data string) bool {
	if data == "" {
		return false
	}
	for i := 0; i < len(data); i++ {
		if data[i] < '0' || data[i] > '9' {
			return false
		}
	}
	return true
}
