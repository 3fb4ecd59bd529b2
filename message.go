package parley

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a conversation transcript. Ordering within a
// transcript is chronological; messages carry no identity beyond their
// position.
type Message struct {
	Role    Role
	Content string
}

// UserMessage returns a user-authored Message with the given content.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage returns an assistant-authored Message with the given content.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}
