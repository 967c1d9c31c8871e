package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Recorder записывает трейс выполнения агента и сохраняет в JSON файл.
//
// Потокобезопасен. Nil *Recorder допустим: все методы становятся no-op.
type Recorder struct {
	mu sync.Mutex

	config RecorderConfig
	log    RunLog

	// visitedTools — множество уникальных инструментов
	visitedTools map[string]struct{}

	errors []string
}

// RecorderConfig конфигурация для создания Recorder.
type RecorderConfig struct {
	// LogsDir — директория для сохранения логов
	LogsDir string

	// IncludeToolArgs — включать аргументы инструментов в лог
	IncludeToolArgs bool

	// IncludeToolResults — включать результаты инструментов в лог
	IncludeToolResults bool

	// MaxResultSize — максимальный размер результата (превышение обрезается)
	// 0 означает без ограничений
	MaxResultSize int
}

// NewRecorder создает новый Recorder с заданной конфигурацией.
//
// Если LogsDir не существует, пытается создать её.
func NewRecorder(cfg RecorderConfig) (*Recorder, error) {
	if cfg.LogsDir != "" {
		if err := os.MkdirAll(cfg.LogsDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create logs directory: %w", err)
		}
	}

	return &Recorder{
		config: cfg,
		log: RunLog{
			RunID:     "run_" + uuid.NewString(),
			Timestamp: time.Now(),
		},
		visitedTools: make(map[string]struct{}),
	}, nil
}

// Start начинает запись нового запуска с пользовательским запросом.
//
// Шаги и ошибки предыдущего запуска сбрасываются, RunID выдаётся заново:
// один Recorder можно переиспользовать для последовательных запусков.
func (r *Recorder) Start(request string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.log = RunLog{
		RunID:     "run_" + uuid.NewString(),
		Request:   request,
		Timestamp: time.Now(),
	}
	r.visitedTools = make(map[string]struct{})
	r.errors = nil
}

// RecordLLM записывает вызов модели.
func (r *Recorder) RecordLLM(step Step) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	step.Kind = StepLLM
	if !step.Success && step.Error != "" {
		r.errors = append(r.errors, fmt.Sprintf("LLM error: %s", step.Error))
	}
	r.log.Steps = append(r.log.Steps, step)
}

// RecordTool записывает диспетчеризацию инструмента.
func (r *Recorder) RecordTool(step Step) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	step.Kind = StepTool

	// Применяем конфигурацию включения/обрезки данных
	if !r.config.IncludeToolArgs {
		step.Args = ""
	}
	if !r.config.IncludeToolResults {
		step.Result = ""
	} else if r.config.MaxResultSize > 0 && len(step.Result) > r.config.MaxResultSize {
		step.Result = truncateUTF8(step.Result, r.config.MaxResultSize) + "... (truncated)"
		step.ResultTruncated = true
	}

	r.log.Steps = append(r.log.Steps, step)
	r.visitedTools[step.Name] = struct{}{}

	if !step.Success && step.Error != "" {
		r.errors = append(r.errors, fmt.Sprintf("Tool %s: %s", step.Name, step.Error))
	}
}

// truncateUTF8 обрезает s не длиннее n байт, не разрывая руну.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// Finalize завершает запись и сохраняет лог в файл.
//
// Возвращает путь к сохраненному файлу или ошибку.
func (r *Recorder) Finalize(runErr error, duration time.Duration) (string, error) {
	if r == nil {
		return "", nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.log.Duration = duration.Milliseconds()
	if runErr != nil {
		r.log.Error = runErr.Error()
	}
	r.buildSummary()

	data, err := json.MarshalIndent(r.log, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal debug log: %w", err)
	}

	filePath := r.getFilePath()
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write debug log: %w", err)
	}

	return filePath, nil
}

// buildSummary формирует агрегированную статистику.
func (r *Recorder) buildSummary() {
	summary := Summary{
		Errors:       r.errors,
		VisitedTools: make([]string, 0, len(r.visitedTools)),
	}

	for tool := range r.visitedTools {
		summary.VisitedTools = append(summary.VisitedTools, tool)
	}
	sort.Strings(summary.VisitedTools)

	for _, s := range r.log.Steps {
		switch s.Kind {
		case StepLLM:
			summary.TotalLLMCalls++
			summary.TotalLLMDuration += s.Duration
		case StepTool:
			summary.TotalToolsExecuted++
			summary.TotalToolDuration += s.Duration
		}
	}

	r.log.Summary = summary
}

// getFilePath возвращает путь к файлу для сохранения.
func (r *Recorder) getFilePath() string {
	if r.config.LogsDir != "" {
		return filepath.Join(r.config.LogsDir, r.log.RunID+".json")
	}
	return r.log.RunID + ".json"
}

// GetRunID возвращает идентификатор текущего запуска.
func (r *Recorder) GetRunID() string {
	if r == nil {
		return ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.RunID
}
