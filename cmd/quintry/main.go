package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/PeterK0/Quintry/internal/catalog"
	"github.com/PeterK0/Quintry/internal/handler"
	"github.com/PeterK0/Quintry/internal/history"
	"github.com/PeterK0/Quintry/internal/model"
	"github.com/PeterK0/Quintry/internal/quiz"
	"github.com/PeterK0/Quintry/internal/reconcile"
	"github.com/PeterK0/Quintry/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "quintry",
		Short: "Interactive world-port geography quiz server",
	}

	serve := serveCmd()
	root.AddCommand(serve, exportCmd(), statsCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `quintry --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz HTTP server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "quintry.db", "SQLite database path")
	f.StringP("ports", "p", "data/ports.json", "Path to the raw ports dataset JSON")
	f.StringP("reference", "r", "data/top-150-ports.json", "Path to the curated top-ports reference JSON")
	f.StringSlice("cors-origins", []string{"http://localhost:5173"}, "Allowed CORS origins for the map UI")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export quiz history as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "quintry.db", "SQLite database path")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print aggregated quiz performance from history",
		RunE:  runStats,
	}
	f := cmd.Flags()
	f.String("db", "quintry.db", "SQLite database path")
	f.IntP("limit", "n", history.DefaultLimit, "Rows in the weakest/strongest rankings")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

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

	v.SetEnvPrefix("QUINTRY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("quintry")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/quintry")
	v.AddConfigPath("/etc/quintry")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	// Load and deduplicate the raw ports dataset.
	portsPath := v.GetString("ports")
	raw, err := loadJSON[[]model.RawPortRecord](portsPath)
	if err != nil {
		return fmt.Errorf("load ports dataset: %w", err)
	}
	cat := catalog.Build(raw)
	slog.Info("catalog built", "raw_records", len(raw), "ports", cat.Len())

	// Reconcile the curated reference list against the catalog.
	refPath := v.GetString("reference")
	ref, err := loadJSON[[]model.ReferenceListItem](refPath)
	if err != nil {
		return fmt.Errorf("load reference list: %w", err)
	}
	builtIn, res := reconcile.BuiltInList(ref, cat)
	slog.Info("reference list reconciled",
		"matched", len(builtIn.PortKeys), "total", len(ref), "unmatched", len(res.Unmatched))

	// Open database.
	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	info := model.DatasetInfo{
		Path:        portsPath,
		PortCount:   cat.Len(),
		ListMatched: len(builtIn.PortKeys),
		ListTotal:   len(ref),
	}
	if err := db.SetDatasetInfo(info); err != nil {
		return fmt.Errorf("record dataset info: %w", err)
	}

	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(os.Getpid())))
	builder := quiz.NewBuilder(cat, rng)

	h := handler.New(builder, builtIn, db, db, info)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   v.GetStringSlice("cors-origins"),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"ports", portsPath,
		"reference", refPath,
		"db", v.GetString("db"),
	)
	return http.ListenAndServe(addr, r)
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	export, err := db.ExportHistory()
	if err != nil {
		return fmt.Errorf("export history: %w", err)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)

	return nil
}

func runStats(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	entries, err := db.ListHistory()
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	fmt.Printf("Quizzes recorded: %d\n", len(entries))
	fmt.Printf("Average accuracy: %.1f%%\n\n", history.AverageScore(entries))

	byDiff := history.ByDifficulty(entries)
	fmt.Println("By difficulty:")
	for _, d := range []model.Difficulty{model.DifficultyEasy, model.DifficultyNormal, model.DifficultyHard} {
		ds := byDiff[d]
		fmt.Printf("  %-6s %3d quizzes  %.1f%% avg\n", d, ds.Count, ds.AvgAccuracy)
	}

	limit := v.GetInt("limit")
	printRanking("Weakest ports", history.Weakest(entries, limit))
	printRanking("Strongest ports", history.Strongest(entries, limit))
	return nil
}

func printRanking(title string, stats []history.PortStats) {
	fmt.Printf("\n%s:\n", title)
	if len(stats) == 0 {
		fmt.Println("  (not enough attempts recorded)")
		return
	}
	for _, s := range stats {
		fmt.Printf("  %-40s %d/%d  %.0f%%\n", s.Port, s.Correct, s.Attempts, s.Accuracy)
	}
}

// loadJSON reads and parses a JSON file into T.
func loadJSON[T any](path string) (T, error) {
	var out T
	data, err := os.ReadFile(path)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}
