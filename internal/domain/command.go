package domain

import (
	"fmt"
	"strings"
)

// Reserved command names handled by the bot itself
const (
	CommandStart       = "start"
	CommandHelp        = "help"
	CommandActionsList = "actionslist"
)

// IsReservedCommand reports whether name is one of the built-in commands
func IsReservedCommand(name string) bool {
	switch name {
	case CommandStart, CommandHelp, CommandActionsList:
		return true
	}
	return false
}

// CommandEntry maps a chat command to the image deployed by the workflow
type CommandEntry struct {
	Command string `json:"command" yaml:"command"`
	Image   string `json:"image" yaml:"image"`
}

// CommandTable is an ordered, read-only command -> image lookup.
// Build it once at startup with NewCommandTable.
type CommandTable struct {
	entries []CommandEntry
	index   map[string]int
}

// NewCommandTable validates entries and keeps their declaration order
func NewCommandTable(entries []CommandEntry) (*CommandTable, error) {
	t := &CommandTable{
		entries: make([]CommandEntry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		switch {
		case e.Command == "":
			return nil, fmt.Errorf("command table: empty command name")
		case e.Image == "":
			return nil, fmt.Errorf("command table: command %q has no image", e.Command)
		case IsReservedCommand(e.Command):
			return nil, fmt.Errorf("command table: %q is a reserved command", e.Command)
		case strings.ContainsAny(e.Command, " @/"):
			return nil, fmt.Errorf("command table: invalid command name %q", e.Command)
		}
		if _, dup := t.index[e.Command]; dup {
			return nil, fmt.Errorf("command table: duplicate command %q", e.Command)
		}
		t.index[e.Command] = len(t.entries)
		t.entries = append(t.entries, e)
	}
	return t, nil
}

// DefaultCommandTable returns the built-in browser and desktop images
func DefaultCommandTable() *CommandTable {
	t, err := NewCommandTable([]CommandEntry{
		// Firefox-based browsers
		{Command: "firefox", Image: "firefox"},
		{Command: "tor", Image: "tor-browser"},
		{Command: "waterfox", Image: "waterfox"},

		// Chromium-based browsers
		{Command: "chromium", Image: "chromium"},
		{Command: "chrome", Image: "google-chrome"},
		{Command: "ungoogled_chromium", Image: "ungoogled-chromium"},
		{Command: "edge", Image: "microsoft-edge"},
		{Command: "brave", Image: "brave"},
		{Command: "vivaldi", Image: "vivaldi"},
		{Command: "opera", Image: "opera"},

		// Desktop environments
		{Command: "xfce", Image: "xfce"},
		{Command: "kde", Image: "kde"},

		// Other applications
		{Command: "remmina", Image: "remmina"},
		{Command: "vlc", Image: "vlc"},
	})
	if err != nil {
		panic(err)
	}
	return t
}

// ImageFor returns the image for command, if any
func (t *CommandTable) ImageFor(command string) (string, bool) {
	i, ok := t.index[command]
	if !ok {
		return "", false
	}
	return t.entries[i].Image, true
}

// List returns the entries in declaration order
func (t *CommandTable) List() []CommandEntry {
	out := make([]CommandEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries
func (t *CommandTable) Len() int {
	return len(t.entries)
}

// ParseCommand extracts the command name from a message text.
// "/chrome@mybot extra" yields "chrome". Text not starting with "/" is not a command.
// Case is preserved.
func ParseCommand(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	cmd, _, _ := strings.Cut(text, " ")
	cmd = strings.TrimPrefix(cmd, "/")
	if at := strings.Index(cmd, "@"); at != -1 {
		cmd = cmd[:at]
	}
	return cmd, true
}
