package main

import (
	"fmt"
	"path/filepath"
	"time"

	"helix/pkg/agent"
	"helix/pkg/config"
	"helix/pkg/eventlog"
	"helix/pkg/llm"
	"helix/pkg/sandbox"
	"helix/pkg/transcript"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// runConfig holds flag overrides for the run command.
type runConfig struct {
	model         string
	maxIterations int
	outputDir     string
	quiet         bool
}

// newRunCmd creates the "helix run" subcommand.
func newRunCmd() *cobra.Command {
	var rc runConfig

	cmd := &cobra.Command{
		Use:   "run <task-dir>",
		Short: "Run the agent against a task directory",
		Long:  "Starts an autonomous agent run over the given task directory.\nThe task description is read from question.md; outputs and the\ntranscript land in a timestamped output directory inside it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskDir, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve task dir: %w", err)
			}

			cfg, err := config.Load(taskDir)
			if err != nil {
				return err
			}
			if rc.model != "" {
				cfg.Model = rc.model
			}
			if rc.maxIterations > 0 {
				cfg.MaxIterations = rc.maxIterations
			}

			openaiKey, err := requireEnv("OPENAI_API_KEY")
			if err != nil {
				return err
			}
			jobs, err := newTamarindClient(cfg)
			if err != nil {
				return err
			}

			outputDir := rc.outputDir
			if outputDir == "" {
				outputDir = filepath.Join(taskDir, "output_"+time.Now().Format("20060102_150405"))
			} else if outputDir, err = filepath.Abs(outputDir); err != nil {
				return fmt.Errorf("resolve output dir: %w", err)
			}
			runner := &sandbox.ExecPythonRunner{Env: []string{
				"HELIX_TASK_DIR=" + taskDir,
				"HELIX_OUTPUT_DIR=" + outputDir,
			}}
			box, err := sandbox.New(taskDir, outputDir, runner)
			if err != nil {
				return err
			}

			runID := uuid.NewString()
			var recorder agent.Recorder
			if dbPath := eventlog.DefaultDBPath(); dbPath != "" {
				writer, err := eventlog.NewWriter(dbPath, runID, filepath.Base(taskDir))
				if err != nil {
					// The event log is observability; a broken database must
					// not block the run itself.
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: event log disabled: %v\n", err)
				} else {
					defer writer.Close()
					recorder = writer
				}
			}

			progress := cmd.OutOrStdout()
			if rc.quiet {
				progress = nil
			}

			executor := agent.NewExecutor(box, jobs, cfg.JobTimeout(), cfg.PollInterval())
			loop := agent.NewLoop(
				llm.NewOpenAIClient(openaiKey, cfg.Model, cfg.OpenAIBaseURL),
				executor,
				agent.Config{
					MaxIterations: cfg.MaxIterations,
					LogPath:       filepath.Join(outputDir, "agent_log.json"),
				},
				recorder,
				progress,
			)

			desc := agent.LoadTaskDescription(taskDir)
			tr := transcript.New(agent.SystemPrompt(desc), agent.Kickoff)

			fmt.Fprintf(cmd.OutOrStdout(), "Run %s starting (model=%s, output=%s)\n", runID, cfg.Model, outputDir)

			result, runErr := loop.Run(cmd.Context(), tr)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nRun finished: %s after %d iteration(s)\n", result.State, result.Iterations)
			if result.Summary != "" {
				fmt.Fprintf(out, "Summary: %s\n", result.Summary)
			}
			fmt.Fprintf(out, "Outputs: %s\n", outputDir)

			return runErr
		},
	}

	cmd.Flags().StringVar(&rc.model, "model", "", "override the configured model")
	cmd.Flags().IntVar(&rc.maxIterations, "max-iterations", 0, "override the iteration ceiling")
	cmd.Flags().StringVarP(&rc.outputDir, "output", "o", "", "output directory (default: <task-dir>/output_<timestamp>)")
	cmd.Flags().BoolVarP(&rc.quiet, "quiet", "q", false, "suppress per-iteration progress output")

	return cmd
}
