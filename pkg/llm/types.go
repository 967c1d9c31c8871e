// Базовые типы - определяем универсальный язык общения с моделями
package llm

// Role — роль автора сообщения.
type Role string

// Константы для удобства
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message — одно сообщение диалога.
type Message struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCall // Заполнено, если модель решила вызвать инструменты
	ToolCallID string     // Для Role == RoleTool: на какой вызов это ответ
}

// ToolCall — запрос модели на вызов инструмента.
type ToolCall struct {
	ID   string
	Name string
	Args string // Сырой JSON аргументов
}

// UserMessage — сокращение для сообщения пользователя.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}
