// Command llm-zai is a one-shot CLI host for the Z.AI GLM connector.
//
// It reads a prompt from the arguments, sends it to the selected model, and
// prints the reply, rendered as markdown when stdout allows it. It exists
// both as a smoke-test driver for the connector and as a minimal example of
// the host-side wiring.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/divsmith/llm-zai/pkg/chats/chat"
	"github.com/divsmith/llm-zai/pkg/chats/content"
	"github.com/divsmith/llm-zai/pkg/chats/message"
	"github.com/divsmith/llm-zai/pkg/chats/role"
	"github.com/divsmith/llm-zai/pkg/keys"
	"github.com/divsmith/llm-zai/pkg/models"
	"github.com/divsmith/llm-zai/pkg/zai"
)

var (
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	usageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// optionFlags collects repeated -o key=value pairs.
type optionFlags map[string]any

func (o optionFlags) String() string { return "" }

func (o optionFlags) Set(val string) error {
	key, raw, found := strings.Cut(val, "=")
	if !found {
		return fmt.Errorf("expected key=value, got %q", val)
	}
	o[key] = coerce(raw)
	return nil
}

// coerce turns a flag string into the JSON-ish value ParseOptions expects.
// Numbers are tried before booleans: ParseBool would otherwise claim "1".
func coerce(raw string) any {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

func main() {
	modelName := flag.String("m", "", "model ID or alias (default zai-glm-4.6, or config)")
	system := flag.String("s", "", "system prompt")
	imagePath := flag.String("i", "", "attach an image file (vision models only)")
	keyFlag := flag.String("key", "", "explicit API key (overrides store and env)")
	stream := flag.Bool("stream", false, "stream the response incrementally")
	raw := flag.Bool("raw", false, "print the reply as plain text, no markdown rendering")
	configPath := flag.String("config", "llm-zai.yaml", "path to configuration file")
	envFile := flag.String("env", ".env", "path to .env file (ignored if missing)")
	listModels := flag.Bool("models", false, "list available models and exit")

	opts := optionFlags{}
	flag.Var(opts, "o", "generation option as key=value (repeatable)")
	flag.Parse()

	if *listModels {
		printModels()
		return
	}

	if err := loadDotEnv(*envFile); err != nil {
		fail(err)
	}

	if err := run(runArgs{
		modelName:  *modelName,
		system:     *system,
		imagePath:  *imagePath,
		key:        *keyFlag,
		stream:     *stream,
		raw:        *raw,
		configPath: *configPath,
		rawOpts:    opts,
		prompt:     strings.Join(flag.Args(), " "),
	}); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, errStyle.Render("error:"), err)
	os.Exit(1)
}

// loadDotEnv loads environment variables from path. If the file does not
// exist it is silently ignored so that .env files remain optional.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

type runArgs struct {
	modelName  string
	system     string
	imagePath  string
	key        string
	stream     bool
	raw        bool
	configPath string
	rawOpts    map[string]any
	prompt     string
}

func run(args runArgs) error {
	if args.prompt == "" {
		return errors.New("no prompt given; usage: llm-zai [flags] PROMPT")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := LoadConfig(args.configPath)
	if err != nil {
		return err
	}

	genOpts, err := zai.ParseOptions(args.rawOpts)
	if err != nil {
		return err
	}

	apiKey, err := keys.Resolve(args.key)
	if err != nil {
		return err
	}

	name := args.modelName
	if name == "" {
		name = cfg.Model
	}
	if name == "" {
		name = "zai-glm-4.6"
	}

	adapter, err := zai.ForModel(name, apiKey)
	if err != nil {
		return err
	}
	if cfg.BaseURL != "" {
		adapter.Client.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout() > 0 {
		adapter.Client.HTTP = &http.Client{Timeout: cfg.Timeout()}
	}

	conv, err := buildChat(args)
	if err != nil {
		return err
	}

	if args.stream || genOpts.Stream {
		return runStream(ctx, adapter, conv, genOpts)
	}
	return runBlocking(ctx, adapter, conv, genOpts, args.raw)
}

func buildChat(args runArgs) (*chat.Chat, error) {
	conv := chat.New()

	if args.system != "" {
		conv.Append(message.NewText(role.System, args.system))
	}

	parts := []content.Part{content.Text{Text: args.prompt}}

	if args.imagePath != "" {
		data, err := os.ReadFile(args.imagePath)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		parts = append(parts, content.Image{
			Data:      data,
			MediaType: mime.TypeByExtension(filepath.Ext(args.imagePath)),
		})
	}

	conv.Append(message.New(role.User, parts...))
	return conv, nil
}

func runBlocking(ctx context.Context, adapter *zai.Adapter, conv *chat.Chat, opts zai.Options, raw bool) error {
	res, err := adapter.Complete(ctx, conv, opts)
	if err != nil {
		return err
	}

	fmt.Print(renderMarkdown(res.Text, raw))
	printUsage(res.Usage)
	return nil
}

func runStream(ctx context.Context, adapter *zai.Adapter, conv *chat.Chat, opts zai.Options) error {
	s, err := adapter.Stream(ctx, conv, opts)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	for {
		d, err := s.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Text already printed stays on screen; only the failure
			// is reported.
			fmt.Println()
			return err
		}
		fmt.Print(d.Content)
	}

	fmt.Println()
	printUsage(s.Usage())
	return nil
}

// renderMarkdown renders text with glamour, falling back to plain text when
// rendering is unavailable or disabled.
func renderMarkdown(text string, raw bool) string {
	if raw {
		return text + "\n"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return text + "\n"
	}

	out, err := r.Render(text)
	if err != nil {
		return text + "\n"
	}
	return out
}

func printUsage(u *zai.Usage) {
	if u == nil {
		return
	}
	fmt.Fprintln(os.Stderr, usageStyle.Render(
		fmt.Sprintf("tokens: %d prompt, %d completion", u.PromptTokens, u.CompletionTokens)))
}

func printModels() {
	for _, v := range models.All() {
		caps := "text"
		if v.SupportsImages {
			caps = "vision"
		}
		if !v.SupportsStreaming {
			caps += ", no streaming"
		}
		aliases := strings.Join(v.Aliases, ", ")
		fmt.Printf("%-18s aliases: %-32s %s (default %d tokens)\n", v.ID, aliases, caps, v.DefaultMaxTokens)
	}
}
