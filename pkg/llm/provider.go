// Интерфейс Провайдера через который работает всё приложение.

package llm

import (
	"context"

	"github.com/ilkoid/rakuten-agent/pkg/tools"
)

// Provider — контракт для любого AI-сервиса.
type Provider interface {
	// Generate отправляет историю сообщений и возвращает ответ модели.
	// toolDefs — инструменты, к которым модель привязана на этот вызов;
	// пустой список означает обычную генерацию текста.
	Generate(ctx context.Context, messages []Message, toolDefs []tools.ToolDefinition, opts ...GenerateOption) (Message, error)
}
