package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ilkoid/rakuten-agent/pkg/agent"
	"github.com/ilkoid/rakuten-agent/pkg/config"
	"github.com/ilkoid/rakuten-agent/pkg/debug"
	"github.com/ilkoid/rakuten-agent/pkg/factory"
	"github.com/ilkoid/rakuten-agent/pkg/llm"
	"github.com/ilkoid/rakuten-agent/pkg/rakuten"
	"github.com/ilkoid/rakuten-agent/pkg/tracing"
	"github.com/ilkoid/rakuten-agent/pkg/utils"
	"github.com/spf13/cobra"
)

// NewRecommendCmd creates the 'recommend' command, the main pipeline run.
func NewRecommendCmd(configPath *string) *cobra.Command {
	var model string
	var debugRun bool

	cmd := &cobra.Command{
		Use:   "recommend [request]",
		Short: "Search Rakuten Ichiba and print a recommended item",
		Long: `Send the request to the model with the searchItem tool bound. The model
chooses a keyword and sort order, the search runs, and the model recommends
one of the returned items.

Without arguments the request from agent.request in config.yaml is used.`,
		Example: `  rakuten-agent recommend
  rakuten-agent recommend "在宅ワーク用の静かなキーボードが欲しい"
  rakuten-agent recommend --model gpt-4o --debug "ソファ"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), *configPath, strings.Join(args, " "), model, debugRun)
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Model alias from models.definitions (default: models.default_chat)")
	cmd.Flags().BoolVar(&debugRun, "debug", false, "Write a JSON trace of the run (same as app.debug)")

	return cmd
}

func runRecommend(parent context.Context, out, errOut io.Writer, configPath, request, model string, debugRun bool) error {
	s, err := openSession(parent, configPath)
	if err != nil {
		return err
	}
	defer s.close()

	if request == "" {
		request = s.cfg.Agent.Request
	}
	if request == "" {
		request = config.DefaultRequest
	}

	a, cleanup, err := buildAgent(s, out, model, debugRun || s.cfg.App.Debug)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := a.Run(s.ctx, request)
	if err != nil {
		return describeError(err)
	}

	if res.DebugLogPath != "" {
		fmt.Fprintf(errOut, "debug log: %s\n", res.DebugLogPath)
	}
	return nil
}

// buildAgent wires provider, Rakuten client, tracer and recorder from config.
func buildAgent(s *session, out io.Writer, modelAlias string, debugRun bool) (*agent.Agent, func(), error) {
	modelDef, ok := s.cfg.GetChatModel(modelAlias)
	if !ok {
		return nil, nil, fmt.Errorf("model %q is not defined in models.definitions", modelAlias)
	}

	provider, err := factory.NewLLMProvider(modelDef)
	if err != nil {
		return nil, nil, fmt.Errorf("create llm provider: %w", err)
	}

	client, err := rakuten.NewFromConfig(s.cfg.Rakuten)
	if err != nil {
		return nil, nil, fmt.Errorf("create rakuten client: %w", err)
	}

	agentCfg, err := agent.ConfigFrom(s.cfg.Agent)
	if err != nil {
		return nil, nil, err
	}

	tracer, err := tracing.New(s.cfg.Tracing)
	if err != nil {
		return nil, nil, fmt.Errorf("init tracing: %w", err)
	}
	cleanup := func() {
		if err := tracer.Shutdown(context.Background()); err != nil {
			utils.Warn("Tracer shutdown failed", "error", err)
		}
	}

	opts := []agent.Option{
		agent.WithOutput(out),
		agent.WithTracer(tracer),
		agent.WithModel(modelDef.ModelName),
		agent.WithGenerateOptions(llm.WithToolChoice(s.cfg.Agent.ToolChoice)),
	}

	if debugRun {
		rec, err := debug.NewRecorder(debug.RecorderConfig{
			LogsDir:            s.debugDir(),
			IncludeToolArgs:    true,
			IncludeToolResults: true,
			MaxResultSize:      4000,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("create debug recorder: %w", err)
		}
		opts = append(opts, agent.WithRecorder(rec))
	}

	a, err := agent.New(provider, client, agentCfg, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	utils.Info("Agent ready",
		"model", modelDef.ModelName,
		"provider", modelDef.Provider,
		"search_dispatch", string(agentCfg.SearchDispatch),
		"entry_dispatch", string(agentCfg.EntryDispatch),
		"tool_choice", s.cfg.Agent.ToolChoice)

	return a, cleanup, nil
}
