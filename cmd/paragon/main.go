package main

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/pkaleta/paragon/internal/ocr"
	"github.com/pkaleta/paragon/internal/parse"
	"github.com/pkaleta/paragon/internal/receipt"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("paragon")
	var (
		dbPath      = fs.StringLong("db", "paragon.db", "Database file path")
		storagePath = fs.StringLong("storage", "./receipts", "Storage directory path")
		readerType  = fs.StringLong("reader", "gemini", "Transcription provider: 'gemini' or 'ollama'")
		geminiKey   = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		ollamaURL   = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel = fs.StringLong("ollama-model", "llava", "Ollama model name (e.g., llava, llava-phi3, bakllava, qwen2-vl)")
		threshold   = fs.IntLong("threshold", 75, "Fuzzy score (0-100) required for the title and total keywords")
		estimation  = fs.Float64Long("estimation-threshold", 0.05, "Tolerance when estimating item counts from prices")
		linesOnly   = fs.BoolLong("lines", "Treat the input file as an already transcribed text file")
		listAll     = fs.BoolLong("list", "Print all stored receipts and exit")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("PARAGON"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	slog.Info("Initializing database...")
	db, err := receipt.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if *listAll {
		receipts, err := db.ListReceipts()
		if err != nil {
			slog.Error("Failed to list receipts", "error", err)
			os.Exit(1)
		}
		for _, rec := range receipts {
			fmt.Printf("%s\t%s\n", rec.ID, rec.SourceFile)
		}
		return
	}

	args := fs.GetArgs()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintln(os.Stderr, "error: exactly one input file is required")
		os.Exit(1)
	}
	inputPath := args[0]

	cfg := parse.DefaultConfig()
	cfg.AnchorThreshold = *threshold
	cfg.EstimationThreshold = *estimation
	parser := parse.NewWithConfig(cfg)

	store, err := receipt.NewLocalStorage(*storagePath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	var rec *receipt.Receipt
	if *linesOnly {
		service := receipt.NewService(db, nil, parser, store)
		lines, err := readTextLines(inputPath)
		if err != nil {
			slog.Error("Failed to read input", "error", err)
			os.Exit(1)
		}
		rec, err = service.ParseLines(lines, inputPath)
		if err != nil {
			slog.Error("Failed to interpret receipt", "error", err)
			os.Exit(1)
		}
	} else {
		reader, err := newReader(*readerType, *geminiKey, *geminiModel, *ollamaURL, *ollamaModel)
		if err != nil {
			slog.Error("Failed to initialize transcription provider", "error", err)
			os.Exit(1)
		}
		defer reader.Close()

		service := receipt.NewService(db, reader, parser, store)
		rec, err = service.ProcessFile(inputPath)
		if err != nil {
			slog.Error("Failed to process receipt", "error", err)
			os.Exit(1)
		}
	}

	out, err := json.MarshalIndent(rec.Parsed, "", "    ")
	if err != nil {
		slog.Error("Failed to render result", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
	slog.Info("Receipt processed", "id", rec.ID)
}

func newReader(readerType, geminiKey, geminiModel, ollamaURL, ollamaModel string) (ocr.Reader, error) {
	switch readerType {
	case "gemini":
		apiKey := geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("gemini API key is required, set --gemini-key or GEMINI_API_KEY")
		}
		slog.Info("Initializing Gemini reader...", "model", geminiModel)
		return ocr.NewGemini(apiKey, geminiModel)
	case "ollama":
		slog.Info("Initializing Ollama reader...", "url", ollamaURL, "model", ollamaModel)
		return ocr.NewOllama(ollamaURL, ollamaModel)
	default:
		return nil, fmt.Errorf("invalid reader type %q, valid: gemini or ollama", readerType)
	}
}

func readTextLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
