package agent

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ilkoid/rakuten-agent/pkg/config"
	"github.com/ilkoid/rakuten-agent/pkg/debug"
	"github.com/ilkoid/rakuten-agent/pkg/llm"
	"github.com/ilkoid/rakuten-agent/pkg/tools"
	"github.com/ilkoid/rakuten-agent/pkg/tracing"
	"github.com/ilkoid/rakuten-agent/pkg/utils"
	"go.opentelemetry.io/otel/attribute"
)

// entrySite — имя точки вызова для первого обращения к модели.
const entrySite = "entry"

// Config — политики диспетчеризации для двух точек вызова.
type Config struct {
	SearchDispatch DispatchPolicy
	EntryDispatch  DispatchPolicy
}

// DefaultConfig: внутри searchItem выполняется только первая рекомендация,
// на входе выполняются все вызовы поиска.
func DefaultConfig() Config {
	return Config{
		SearchDispatch: DispatchFirst,
		EntryDispatch:  DispatchAll,
	}
}

// ConfigFrom переводит секцию agent из config.yaml в Config.
func ConfigFrom(cfg config.AgentConfig) (Config, error) {
	out := DefaultConfig()
	if cfg.SearchDispatch != "" {
		p, err := ParseDispatchPolicy(cfg.SearchDispatch)
		if err != nil {
			return Config{}, fmt.Errorf("agent.search_dispatch: %w", err)
		}
		out.SearchDispatch = p
	}
	if cfg.EntryDispatch != "" {
		p, err := ParseDispatchPolicy(cfg.EntryDispatch)
		if err != nil {
			return Config{}, fmt.Errorf("agent.entry_dispatch: %w", err)
		}
		out.EntryDispatch = p
	}
	return out, nil
}

// Agent — конвейер «запрос → поиск → рекомендация».
type Agent struct {
	provider llm.Provider
	searcher Searcher
	cfg      Config

	model    string
	genOpts  []llm.GenerateOption
	tracer   *tracing.Tracer
	recorder *debug.Recorder
	out      io.Writer
}

// Option настраивает Agent.
type Option func(*Agent)

// WithTracer задаёт трейсер. По умолчанию спаны не пишутся.
func WithTracer(t *tracing.Tracer) Option {
	return func(a *Agent) {
		if t != nil {
			a.tracer = t
		}
	}
}

// WithRecorder включает JSON трейс запуска.
func WithRecorder(r *debug.Recorder) Option {
	return func(a *Agent) {
		a.recorder = r
	}
}

// WithOutput задаёт, куда печатаются рекомендации. По умолчанию os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(a *Agent) {
		if w != nil {
			a.out = w
		}
	}
}

// WithModel подписывает спаны и записи recorder именем модели
// и передаёт его провайдеру.
func WithModel(model string) Option {
	return func(a *Agent) {
		a.model = model
		if model != "" {
			a.genOpts = append(a.genOpts, llm.WithModel(model))
		}
	}
}

// WithGenerateOptions добавляет параметры генерации к каждому вызову модели.
func WithGenerateOptions(opts ...llm.GenerateOption) Option {
	return func(a *Agent) {
		a.genOpts = append(a.genOpts, opts...)
	}
}

// New создает агента. Все внешние зависимости передаются явно.
func New(provider llm.Provider, searcher Searcher, cfg Config, opts ...Option) (*Agent, error) {
	if provider == nil {
		return nil, fmt.Errorf("llm provider is required")
	}
	if searcher == nil {
		return nil, fmt.Errorf("searcher is required")
	}
	if cfg.SearchDispatch == "" {
		cfg.SearchDispatch = DispatchFirst
	}
	if cfg.EntryDispatch == "" {
		cfg.EntryDispatch = DispatchAll
	}

	a := &Agent{
		provider: provider,
		searcher: searcher,
		cfg:      cfg,
		tracer:   tracing.Noop(),
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Run выполняет один запуск для запроса пользователя.
//
// Этапы: модель выбирает searchItem → вызовы выполняются по политике
// entry → внутри каждого поиска модель выбирает recommend. Любая ошибка
// прерывает запуск и возвращается как *StageError. Ответ модели без
// вызова инструмента — штатное завершение без вывода.
func (a *Agent) Run(ctx context.Context, request string) (*Result, error) {
	startTime := time.Now()
	a.recorder.Start(request)

	result, err := a.run(ctx, request)

	if path, ferr := a.recorder.Finalize(err, time.Since(startTime)); ferr != nil {
		utils.Warn("Failed to save debug log", "error", ferr)
	} else if path != "" {
		utils.Info("Debug log saved", "path", path, "run_id", a.recorder.GetRunID())
		if result != nil {
			result.DebugLogPath = path
		}
	}
	a.tracer.Flush(ctx)

	return result, err
}

func (a *Agent) run(ctx context.Context, request string) (*Result, error) {
	ctx, span := a.tracer.Start(ctx, "agent.run", attribute.String(tracing.AttrKind, "run"))
	var runErr error
	defer func() { tracing.End(span, runErr) }()

	utils.Info("Agent run started", "request_len", len(request), "model", a.model)

	gen := &generator{
		provider: a.provider,
		model:    a.model,
		tracer:   a.tracer,
		recorder: a.recorder,
		opts:     a.genOpts,
	}

	// Реестры собираются на каждый запуск: рекомендации не переживают запуск
	recommend := NewRecommendTool(a.out)
	search, err := newSearchTool(a.searcher, gen, recommend, a.cfg.SearchDispatch)
	if err != nil {
		runErr = err
		return nil, atStage(StageIdle, err)
	}
	registry, err := tools.NewRegistryWith(search)
	if err != nil {
		runErr = err
		return nil, atStage(StageIdle, fmt.Errorf("register search tool: %w", err))
	}

	msg, err := gen.generate(ctx, entrySite,
		[]llm.Message{llm.UserMessage(request)},
		registry.GetDefinitions())
	if err != nil {
		runErr = atStage(StageAwaitingToolSelection, err)
		return nil, runErr
	}

	result := &Result{
		ToolCalls: len(msg.ToolCalls),
	}

	if len(msg.ToolCalls) == 0 {
		utils.Info("Model answered without tool call", "reply_len", len(msg.Content))
		result.Reply = msg.Content
		return result, nil
	}

	dispatcher := NewDispatcher(entrySite, registry, a.cfg.EntryDispatch, a.tracer, a.recorder)
	n, err := dispatcher.Dispatch(ctx, msg.ToolCalls)
	result.Dispatched = n
	result.Recommendations = recommend.Picks()
	if err != nil {
		runErr = atStage(StageSearchDispatch, err)
		return result, runErr
	}

	utils.Info("Agent run finished",
		"dispatched", n,
		"recommendations", len(result.Recommendations))
	return result, nil
}
