package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lazycommit/lazycommit/internal/adapter"
	"github.com/lazycommit/lazycommit/internal/clipboard"
	"github.com/lazycommit/lazycommit/internal/config"
	"github.com/lazycommit/lazycommit/internal/git"
	"github.com/lazycommit/lazycommit/internal/history"
	"github.com/lazycommit/lazycommit/internal/i18n"
	"github.com/lazycommit/lazycommit/internal/message"
	"github.com/lazycommit/lazycommit/internal/prompt"
)

var genFlags struct {
	apiKey           string
	baseURL          string
	model            string
	maxContextChars  int
	maxContextTokens int
	tokenModel       string
	tokenEncoding    string
	apply            bool
	push             bool
	stageAll         bool
	yes              bool
	remote           string
	branch           string
	showContext      bool
	showRawResponse  bool
	noCopy           bool
}

func addGenerateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&genFlags.apiKey, "api-key", "", "API key for the model provider")
	f.StringVar(&genFlags.baseURL, "base-url", "", "override the provider API base URL")
	f.StringVarP(&genFlags.model, "model", "m", "", "model name (prefix picks the provider: gpt-*, gemini-*, claude-*, ollama/*)")
	f.IntVar(&genFlags.maxContextChars, "max-context-chars", 0, "character budget for the git context")
	f.IntVar(&genFlags.maxContextTokens, "max-context-tokens", 0, "token budget for the git context")
	f.StringVar(&genFlags.tokenModel, "token-model", "", "model used only for token counting")
	f.StringVar(&genFlags.tokenEncoding, "token-encoding", "", "explicit tiktoken encoding, overrides --token-model")
	f.BoolVar(&genFlags.apply, "apply", false, "create the commit instead of previewing")
	f.BoolVar(&genFlags.push, "push", false, "push after committing (requires --apply)")
	f.BoolVarP(&genFlags.stageAll, "stage-all", "a", false, "stage all changes before committing")
	f.BoolVarP(&genFlags.yes, "yes", "y", false, "skip the confirmation prompt")
	f.StringVar(&genFlags.remote, "remote", "origin", "remote to push to")
	f.StringVar(&genFlags.branch, "branch", "", "branch to push (defaults to the current branch)")
	f.BoolVar(&genFlags.showContext, "show-context", false, "print the context sent to the model")
	f.BoolVar(&genFlags.showRawResponse, "show-raw-response", false, "print the raw model response")
	f.BoolVar(&genFlags.noCopy, "no-copy", false, "do not copy the message to the clipboard")
}

func resolveOverrides(cmd *cobra.Command) config.Overrides {
	o := config.Overrides{
		APIKey:  genFlags.apiKey,
		BaseURL: genFlags.baseURL,
		Model:   genFlags.model,
	}
	if cmd.Flags().Changed("max-context-chars") {
		n := genFlags.maxContextChars
		o.MaxContextChars = &n
	}
	if cmd.Flags().Changed("max-context-tokens") {
		n := genFlags.maxContextTokens
		o.MaxContextTokens = &n
	}
	return o
}

// completeWithSpinner runs the completion while showing an indeterminate
// spinner on stderr.
func completeWithSpinner(ctx context.Context, llm adapter.LLMAdapter, req adapter.CompletionRequest, description string) (string, error) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("  "+description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)

	type outcome struct {
		text string
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		text, err := llm.Complete(ctx, req)
		done <- outcome{text, err}
	}()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case res := <-done:
			_ = bar.Finish()
			return res.text, res.err
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}

func reportTokenUsage(usage *prompt.TokenUsage) {
	if usage == nil {
		return
	}
	fmt.Println(info(i18n.T("cli.log.estimated_prompt_tokens",
		i18n.Arg{Key: "total_tokens_after", Value: usage.TotalTokensAfter},
		i18n.Arg{Key: "context_tokens_after", Value: usage.ContextTokensAfter},
		i18n.Arg{Key: "model_name", Value: usage.ModelName},
		i18n.Arg{Key: "encoding_name", Value: usage.EncodingName},
	)))
	if usage.TokenLimit == nil {
		return
	}
	fmt.Println(info(i18n.T("cli.log.context_token_budget",
		i18n.Arg{Key: "context_tokens_after", Value: usage.ContextTokensAfter},
		i18n.Arg{Key: "token_limit", Value: *usage.TokenLimit},
		i18n.Arg{Key: "context_tokens_before", Value: usage.ContextTokensBefore},
	)))
	if usage.CompressionApplied() {
		fmt.Println(warn(i18n.T("cli.log.context_compression_applied",
			i18n.Arg{Key: "steps", Value: strings.Join(usage.StageIDs(), ", ")})))
	}
}

func confirm(promptText string) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}
	fmt.Print(promptText)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return i18n.IsAffirmative(answer)
}

// openHistory returns nil when history is disabled or unavailable;
// recording is best-effort and never blocks a commit.
func openHistory(gcfg config.GlobalConfig) *history.Store {
	if !gcfg.History.Enabled {
		return nil
	}
	path, err := config.HistoryDBPath()
	if err != nil {
		return nil
	}
	store, err := history.Open(path)
	if err != nil {
		return nil
	}
	return store
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if genFlags.push && !genFlags.apply {
		return fmt.Errorf("%s", i18n.T("cli.error.push_requires_apply"))
	}

	fmt.Println(rule("="))
	fmt.Println(section(i18n.T("cli.section.execution_log")))
	fmt.Println(info(i18n.T("cli.log.loading_settings")))

	gcfg, err := config.LoadGlobal()
	if err != nil {
		gcfg = config.DefaultGlobal()
	}
	settings, err := config.ResolveSettings(gcfg, resolveOverrides(cmd))
	if err != nil {
		return err
	}

	fmt.Println(info(i18n.T("cli.log.checking_repo")))
	gitClient := git.NewClient(".")
	if err := gitClient.EnsureRepo(); err != nil {
		return err
	}

	fmt.Println(info(i18n.T("cli.log.collecting_snapshot")))
	snap, err := gitClient.Snapshot()
	if err != nil {
		return err
	}
	if !snap.HasChanges() {
		fmt.Println(warn(i18n.T("cli.log.no_local_changes")))
		fmt.Println(rule("="))
		return nil
	}

	fmt.Println(info(i18n.T("cli.log.building_context")))
	tokenModel := genFlags.tokenModel
	if tokenModel == "" {
		tokenModel = settings.ModelName
	}
	if gcfg.TokenModel != "" && genFlags.tokenModel == "" {
		tokenModel = gcfg.TokenModel
	}
	tokenEncoding := genFlags.tokenEncoding
	if tokenEncoding == "" {
		tokenEncoding = gcfg.TokenEncoding
	}

	payload, err := prompt.BuildPrompt(snap, prompt.BuildOptions{
		MaxChars:      settings.MaxContextChars,
		MaxTokens:     settings.MaxContextTokens,
		TokenModel:    tokenModel,
		TokenEncoding: tokenEncoding,
	})
	if err != nil {
		return err
	}
	reportTokenUsage(payload.Usage)

	if genFlags.showContext {
		fmt.Println(rule("="))
		fmt.Println(section(i18n.T("cli.section.context_sent_to_model")))
		fmt.Println(payload.Context)
		fmt.Println(rule("="))
	}

	fmt.Println(info(i18n.T("cli.log.requesting_commit_proposal",
		i18n.Arg{Key: "provider", Value: settings.Provider},
		i18n.Arg{Key: "model_name", Value: settings.ModelName})))
	llm, err := adapter.New(settings)
	if err != nil {
		return err
	}
	raw, err := completeWithSpinner(cmd.Context(), llm, adapter.CompletionRequest{
		System:      payload.System,
		User:        payload.User,
		Model:       settings.ModelName,
		Temperature: 0.2,
	}, settings.ModelName)
	if err != nil {
		return err
	}

	if genFlags.showRawResponse {
		fmt.Println(rule("="))
		fmt.Println(section(i18n.T("cli.section.raw_model_response")))
		fmt.Println(raw)
		fmt.Println(rule("="))
	}

	fmt.Println(info(i18n.T("cli.log.parsing_model_response")))
	proposal, err := message.Parse(raw)
	if err != nil {
		return err
	}
	finalMessage := proposal.Render()

	fmt.Println(rule("="))
	fmt.Println(section(i18n.T("cli.section.generation_summary")))
	fmt.Println(keyValue(i18n.T("cli.label.provider"), settings.Provider))
	fmt.Println(keyValue(i18n.T("cli.label.model"), settings.ModelName))
	fmt.Println(keyValue(i18n.T("cli.label.branch"), snap.Branch))
	fmt.Println(keyValue(i18n.T("cli.label.files"), fmt.Sprintf("%d", len(snap.ChangedFiles))))
	fmt.Println(section(i18n.T("cli.section.changed_files")))
	fmt.Println(renderFiles(snap.ChangedFiles))
	fmt.Println()
	fmt.Println(section(i18n.T("cli.section.generated_commit_message")))
	fmt.Println(renderMessageBox(finalMessage))

	if gcfg.Output.Copy && !genFlags.noCopy {
		result := clipboard.Copy(finalMessage, os.Getenv)
		if result.OK {
			fmt.Println(success(i18n.T("clipboard.copied", i18n.Arg{Key: "tool", Value: result.Detail})))
		} else {
			fmt.Println(warn(i18n.T("clipboard.unavailable", i18n.Arg{Key: "reason", Value: result.Detail})))
		}
	}

	var historyID int64
	store := openHistory(gcfg)
	if store != nil {
		defer store.Close()
		entry := history.Entry{
			Branch:   snap.Branch,
			Provider: settings.Provider,
			Model:    settings.ModelName,
			Header:   proposal.Header(),
			Message:  finalMessage,
		}
		if payload.Usage != nil {
			entry.ContextTokens = payload.Usage.ContextTokensAfter
			entry.Stages = payload.Usage.StageIDs()
		}
		historyID, _ = store.Record(entry)
	}

	if !genFlags.apply {
		fmt.Println(info(i18n.T("cli.log.preview_only")))
		fmt.Println(rule("="))
		return nil
	}

	if genFlags.stageAll {
		fmt.Println(info(i18n.T("cli.log.staging_all")))
		if err := gitClient.StageAll(); err != nil {
			return err
		}
	}

	staged, err := gitClient.Snapshot()
	if err != nil {
		return err
	}
	if !staged.HasStagedChanges() {
		return fmt.Errorf("%s", i18n.T("cli.error.no_staged_changes"))
	}

	if !genFlags.yes && !confirm(i18n.T("cli.prompt.apply_commit")) {
		fmt.Println(rule("="))
		return fmt.Errorf("%s", i18n.T("cli.log.aborted_by_user"))
	}

	fmt.Println(info(i18n.T("cli.log.creating_commit")))
	commitOutput, err := gitClient.Commit(finalMessage)
	if err != nil {
		return err
	}
	fmt.Println(commitOutput)

	if store != nil && historyID != 0 {
		_ = store.MarkApplied(historyID)
	}

	if genFlags.push {
		branch := genFlags.branch
		if branch == "" {
			branch, err = gitClient.CurrentBranch()
			if err != nil {
				return err
			}
		}
		fmt.Println(info(i18n.T("cli.log.pushing",
			i18n.Arg{Key: "remote", Value: genFlags.remote},
			i18n.Arg{Key: "branch", Value: branch})))
		pushOutput, err := gitClient.Push(genFlags.remote, branch)
		if err != nil {
			return err
		}
		fmt.Println(pushOutput)
	}

	fmt.Println(success(i18n.T("cli.log.done")))
	fmt.Println(rule("="))
	return nil
}
