// Package debug предоставляет инструменты для записи и анализа выполнения агента.
//
// Пакет сохраняет трейс одного запуска в JSON файл: вызовы модели,
// диспетчеризацию инструментов, длительности и ошибки.
package debug

import "time"

// Виды шагов запуска.
const (
	StepLLM  = "llm"
	StepTool = "tool"
)

// RunLog представляет полный трейс одного запуска конвейера.
type RunLog struct {
	// RunID — уникальный идентификатор запуска (используется в имени файла)
	RunID string `json:"run_id"`

	// Timestamp — время начала выполнения
	Timestamp time.Time `json:"timestamp"`

	// Request — исходный запрос пользователя
	Request string `json:"request"`

	// Duration — общая длительность выполнения в миллисекундах
	Duration int64 `json:"duration_ms"`

	// Steps — шаги в порядке выполнения
	Steps []Step `json:"steps"`

	Summary Summary `json:"summary"`

	// Error — ошибка если выполнение завершилось неудачно
	Error string `json:"error,omitempty"`
}

// Step — один вызов модели или одна диспетчеризация инструмента.
type Step struct {
	Kind string `json:"kind"`

	// Site — точка вызова: "entry" или имя инструмента, внутри которого шаг выполнен
	Site string `json:"site"`

	// Name — модель для llm шага, имя инструмента для tool шага
	Name string `json:"name"`

	Args   string `json:"args,omitempty"`
	Result string `json:"result,omitempty"`

	// ResultTruncated — true если результат был обрезан
	ResultTruncated bool `json:"result_truncated,omitempty"`

	// ToolCalls — запрошенные моделью вызовы (для llm шага)
	ToolCalls []ToolCallInfo `json:"tool_calls,omitempty"`

	Duration int64  `json:"duration_ms"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// ToolCallInfo описывает вызов инструмента от LLM.
type ToolCallInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Args string `json:"args"`
}

// Summary содержит агрегированную статистику выполнения.
type Summary struct {
	TotalLLMCalls      int      `json:"total_llm_calls"`
	TotalToolsExecuted int      `json:"total_tools_executed"`
	TotalLLMDuration   int64    `json:"total_llm_duration_ms"`
	TotalToolDuration  int64    `json:"total_tool_duration_ms"`
	Errors             []string `json:"errors,omitempty"`
	VisitedTools       []string `json:"visited_tools,omitempty"`
}
