package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"cv-matcher/internal/analyses"
	"cv-matcher/internal/bootstrap"
	"cv-matcher/internal/extract"
	"cv-matcher/internal/llm"
	"cv-matcher/internal/shared/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		exitErr(err.Error())
	}

	resumePath := flag.String("resume", "", "Path to a PDF resume")
	outPath := flag.String("out", "", "Path to write the result JSON (optional)")
	provider := flag.String("provider", cfg.LLMProvider, "LLM provider (gemini or openai)")
	model := flag.String("model", cfg.LLMModel, "LLM model")
	showPrompt := flag.Bool("show-prompt", false, "Print the prompt and exit")
	raw := flag.Bool("raw", false, "Print the unparsed model reply as well")
	flag.Parse()

	if strings.TrimSpace(*resumePath) == "" {
		exitErr("resume path is required")
	}
	if !extract.IsPDF("", *resumePath) {
		exitErr("only .pdf files are supported")
	}

	data, err := os.ReadFile(*resumePath)
	if err != nil {
		exitErr(fmt.Sprintf("read resume: %v", err))
	}
	text, err := extract.PDFText(data)
	if err != nil {
		exitErr(fmt.Sprintf("extract resume text: %v", err))
	}
	if strings.TrimSpace(text) == "" {
		exitErr(extract.ErrEmptyText.Error())
	}

	if *showPrompt {
		fmt.Println(llm.BuildResumePrompt(text))
		return
	}

	cfg.LLMProvider = *provider
	cfg.LLMModel = *model
	ctx := context.Background()
	completer, err := bootstrap.NewCompleter(ctx, cfg)
	if err != nil {
		exitErr(err.Error())
	}

	var result analyses.Result
	if *raw {
		reply, err := completer.Complete(ctx, llm.BuildResumePrompt(text), llm.DefaultGenerationConfig())
		if err != nil {
			exitErr(fmt.Sprintf("llm complete: %v", err))
		}
		fmt.Fprintln(os.Stderr, reply)
		var ok bool
		if result, ok = analyses.ParseResult(reply); !ok {
			fmt.Fprintln(os.Stderr, "reply could not be parsed; using fallback")
		}
	} else {
		result, err = analyses.NewExtractor(completer).Analyze(ctx, text)
		if err != nil {
			exitErr(fmt.Sprintf("analyze: %v", err))
		}
	}

	pretty, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		exitErr(fmt.Sprintf("format json: %v", err))
	}
	if *outPath != "" {
		if err := os.WriteFile(*outPath, pretty, 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}
	fmt.Println(string(pretty))
}

func exitErr(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
