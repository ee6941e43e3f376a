package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"github.com/unicampus/examgen/internal/genai"
	"github.com/unicampus/examgen/internal/generate"
	"github.com/unicampus/examgen/internal/handler"
	appI18n "github.com/unicampus/examgen/internal/i18n"
	"github.com/unicampus/examgen/internal/model"
	"github.com/unicampus/examgen/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "examgen",
		Short: "AI-assisted exam generation and grading service",
	}

	serve := serveCmd()
	root.AddCommand(serve, generateCmd(), exportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `examgen --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func aiFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("openai-url", "", "OpenAI-compatible API base URL (empty = default)")
	f.String("openai-key", "", "API key for the completion service")
	f.String("openai-model", "gpt-3.5-turbo", "Completion model name")
	f.Duration("openai-timeout", genai.DefaultTimeout, "Timeout for one completion call")
}

func logFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP exam API server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "examgen.db", "SQLite database path")
	f.StringP("lang", "l", "en", "Default language for messages and exports (en, ru)")
	f.String("admin-password", "", "Initial admin password (or set EXAMGEN_ADMIN_PASSWORD)")
	aiFlags(cmd)
	logFlags(cmd)
	return cmd
}

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one exam from a study material file and print it as JSON",
		RunE:  runGenerate,
	}
	f := cmd.Flags()
	f.StringP("content", "c", "-", "Path to the study material file (- for stdin)")
	f.StringP("title", "t", "Generated Exam", "Exam title")
	f.String("course", "", "Course identifier")
	f.StringP("difficulty", "d", "medium", "Difficulty (easy, medium, hard)")
	f.IntP("count", "n", 10, "Number of questions")
	f.StringSlice("hints", nil, "Subject hints (repeatable)")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	aiFlags(cmd)
	logFlags(cmd)
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored exams and attempts",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "examgen.db", "SQLite database path")
	f.String("format", "json", "Output format (json, text)")
	f.StringP("lang", "l", "en", "Language for text export labels (en, ru)")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	logFlags(cmd)
	return cmd
}

func setupLogging(v *viper.Viper) {
	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("EXAMGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("examgen")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/examgen")
	v.AddConfigPath("/etc/examgen")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func newClient(v *viper.Viper) *genai.Client {
	return genai.New(genai.Config{
		BaseURL: v.GetString("openai-url"),
		APIKey:  v.GetString("openai-key"),
		Model:   v.GetString("openai-model"),
		Timeout: v.GetDuration("openai-timeout"),
	})
}

func runServe(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)
	setupLogging(v)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := seedAdmin(db, v.GetString("admin-password")); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	client := newClient(v)
	configured, preview := client.KeyStatus()
	if configured {
		slog.Info("completion service configured", "key", preview, "model", v.GetString("openai-model"))
	} else {
		slog.Warn("completion service not configured, exams will use fallback generation")
	}

	h := handler.New(db, generate.New(client), client, nil)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(lang))
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server", "addr", addr, "lang", lang)
	return http.ListenAndServe(addr, r)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)
	setupLogging(v)

	content, err := readInput(v.GetString("content"))
	if err != nil {
		return fmt.Errorf("read content: %w", err)
	}

	gen := generate.New(newClient(v))
	exam := gen.Generate(cmd.Context(), model.GenerationRequest{
		Content:       string(content),
		QuestionCount: v.GetInt("count"),
		Difficulty:    model.ParseDifficulty(v.GetString("difficulty")),
		SubjectHints:  v.GetStringSlice("hints"),
	}, generate.Meta{
		Title:     v.GetString("title"),
		CourseID:  v.GetString("course"),
		CreatedBy: "cli",
	})

	data, err := json.MarshalIndent(exam, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	return writeOutput(v.GetString("output"), append(data, '\n'))
}

func runExport(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)
	setupLogging(v)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	exams, err := db.ListExams()
	if err != nil {
		return fmt.Errorf("list exams: %w", err)
	}

	switch v.GetString("format") {
	case "text":
		if err := appI18n.Init(v.GetString("lang")); err != nil {
			return fmt.Errorf("init i18n: %w", err)
		}
		ctx := appI18n.WithLocalizer(cmd.Context(), appI18n.NewLocalizer(v.GetString("lang")))
		var sb strings.Builder
		for _, exam := range exams {
			sb.WriteString(model.RenderText(ctx, exam))
			sb.WriteString("\n")
		}
		return writeOutput(v.GetString("output"), []byte(sb.String()))
	default:
		attempts, err := db.ListAllAttempts()
		if err != nil {
			return fmt.Errorf("list attempts: %w", err)
		}
		export := model.StoreExport{
			ExportedAt: time.Now(),
			Exams:      exams,
			Attempts:   attempts,
		}
		data, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		return writeOutput(v.GetString("output"), append(data, '\n'))
	}
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// seedAdmin stores the bcrypt hash of the admin password on first run.
func seedAdmin(db *store.Store, password string) error {
	existing, err := db.GetMeta(handler.AdminHashMeta)
	if err != nil {
		return err
	}
	if existing != "" {
		return nil
	}

	if password == "" {
		return fmt.Errorf("admin password is required: set --admin-password flag or EXAMGEN_ADMIN_PASSWORD env var")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := db.SetMeta(handler.AdminHashMeta, string(hash)); err != nil {
		return err
	}

	slog.Info("seeded admin credentials")
	return nil
}
