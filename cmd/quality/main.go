package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kanon0111/sdlg-edu/internal/dedup"
	"github.com/kanon0111/sdlg-edu/internal/logger"
	"github.com/kanon0111/sdlg-edu/internal/quality"
)

func main() {
	input := flag.String("input", "", "Dataset JSONL file")
	outJSON := flag.String("out_json", "", "Path of the JSON report")
	outMD := flag.String("out_md", "", "Path of the Markdown report")
	strict := flag.Bool("strict", false, "Exit with status 1 when the verdict is fail")
	logMode := flag.String("log-mode", "dev", "Log mode: dev or prod")
	flag.Parse()

	if *input == "" || *outJSON == "" || *outMD == "" {
		fmt.Fprintln(os.Stderr, "--input, --out_json and --out_md are required")
		os.Exit(2)
	}

	log, err := logger.New(*logMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	items, err := quality.ReadFile(*input)
	if err != nil {
		log.Fatal("Failed to read dataset", "path", *input, "error", err)
	}

	report, err := quality.Evaluate(context.Background(), items, dedup.DefaultN)
	if err != nil {
		log.Fatal("Failed to evaluate dataset", "error", err)
	}

	jsonData, err := report.JSON()
	if err != nil {
		log.Fatal("Failed to encode report", "error", err)
	}
	for path, data := range map[string][]byte{*outJSON: jsonData, *outMD: report.Markdown()} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			log.Fatal("Failed to create report dir", "path", path, "error", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			log.Fatal("Failed to write report", "path", path, "error", err)
		}
		log.Info("Wrote report", "path", path)
	}

	line, _ := json.Marshal(struct {
		Metrics quality.Metrics `json:"metrics"`
		Pass    bool            `json:"pass"`
	}{report.Metrics, report.Pass})
	fmt.Println(string(line))

	if *strict && !report.Pass {
		os.Exit(1)
	}
}
