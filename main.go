package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"ghtodo/internal/command"
	"ghtodo/internal/config"
	"ghtodo/internal/gh"
	"ghtodo/internal/skill"
	"ghtodo/internal/summary"
	"ghtodo/internal/tool"
	"ghtodo/internal/tui"
)

const usage = `usage: ghtodo [command]

  (none)              open the interactive todo list
  pr                  create a PR for the current todo branch
  tool <action>       run one gh_todo action (-title, -body, -number, -close, -json)
  mcp                 serve gh_todo over MCP stdio
  skill install <dir> install the create-pr skill files under <dir>
`

func main() {
	cfg := config.Load()

	if len(os.Args) < 2 {
		runTUI(cfg)
		return
	}

	var err error
	switch os.Args[1] {
	case "pr":
		err = runPR(cfg)
	case "tool":
		err = runTool(cfg, os.Args[2:])
	case "mcp":
		err = runMCP(cfg)
	case "skill":
		err = runSkill(os.Args[2:])
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cfg *config.Config) {
	gw := gh.New(cfg.Label)
	p := tea.NewProgram(tui.New(gw, nil), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runPR(cfg *config.Config) error {
	repoRoot, _ := os.Getwd()
	wizard := &command.PRWizard{
		GW:       gh.New(cfg.Label),
		Gen:      summary.New(cfg.AnthropicAPIKey, cfg.Model, cfg.MaxTokens),
		RepoRoot: repoRoot,
	}
	msg, err := wizard.Run(signalContext())
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}

func runTool(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tool", flag.ExitOnError)
	title := fs.String("title", "", "issue title")
	body := fs.String("body", "", "issue body or notes text")
	number := fs.Int("number", 0, "issue number")
	closeFlag := fs.Bool("close", false, "list: include closed; pr: link with Closes")
	asJSON := fs.Bool("json", false, "print the structured result")

	if len(args) == 0 {
		return fmt.Errorf("tool: action required")
	}
	action := args[0]
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	params := tool.Params{Action: action, Title: *title, Body: *body, Number: *number}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "close" {
			params.Close = closeFlag
		}
	})

	gw := gh.New(cfg.Label)
	gen := summary.New(cfg.AnthropicAPIKey, cfg.Model, cfg.MaxTokens)
	repoRoot, _ := os.Getwd()

	res := tool.New(gw, gen, nil, repoRoot).Run(signalContext(), params)
	if *asJSON {
		out, err := json.MarshalIndent(res.Details, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	} else {
		fmt.Println(res.Text)
	}
	if res.IsError() {
		os.Exit(1)
	}
	return nil
}

func runMCP(cfg *config.Config) error {
	gw := gh.New(cfg.Label)
	gen := summary.New(cfg.AnthropicAPIKey, cfg.Model, cfg.MaxTokens)
	repoRoot, _ := os.Getwd()

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "ghtodo",
		Version: "v1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "gh_todo",
		Description: "Manage the GitHub-issue-backed todo list: list, add, view, plan, start, close, reopen, update, pr, feedback, pr-update",
	}, func(ctx context.Context, req *mcp.CallToolRequest, params tool.Params) (*mcp.CallToolResult, any, error) {
		res := tool.New(gw, gen, nil, repoRoot).Run(ctx, params)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: res.Text}},
			IsError: res.IsError(),
		}, res.Details, nil
	})

	log.Println("ghtodo: serving gh_todo on stdio")
	return server.Run(signalContext(), &mcp.StdioTransport{})
}

func runSkill(args []string) error {
	if len(args) != 2 || args[0] != "install" {
		return fmt.Errorf("usage: ghtodo skill install <dir>")
	}
	if err := skill.Install(args[1]); err != nil {
		return err
	}
	fmt.Printf("installed create-pr skill under %s\n", args[1])
	return nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()
	return ctx
}
