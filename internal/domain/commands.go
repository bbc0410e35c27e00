package domain

import "strings"

// CommandDef describes a slash command available in the chat view.
type CommandDef struct {
	Name        string
	Description string
	Group       string // display group for /help
}

// CommandDefs is the single source of truth for all slash commands.
var CommandDefs = []CommandDef{
	{Name: "/model", Description: "pick a model", Group: "chat"},
	{Name: "/balance", Description: "refresh remaining credit", Group: "chat"},
	{Name: "/clear", Description: "clear the conversation", Group: "chat"},
	{Name: "/lock", Description: "lock and ask for the PIN again", Group: "auth"},
	{Name: "/help", Description: "show this help", Group: "general"},
	{Name: "/exit", Description: "quit pinchat", Group: "general"},
}

// CommandGroups defines the display order and labels for help groups.
var CommandGroups = []struct {
	Key   string
	Label string
}{
	{"chat", "Chat"},
	{"auth", "Access"},
	{"general", "General"},
}

// LookupCommand returns the command named by the first word of input.
func LookupCommand(input string) (CommandDef, bool) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return CommandDef{}, false
	}
	name := strings.ToLower(fields[0])
	for _, c := range CommandDefs {
		if c.Name == name {
			return c, true
		}
	}
	return CommandDef{}, false
}
