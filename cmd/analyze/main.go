package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"resume_optimizer/internal/app/config"
	"resume_optimizer/internal/app/di"
	"resume_optimizer/internal/feature/resumeanalysis/domain/entity"
	"resume_optimizer/internal/feature/resumeanalysis/usecase"
)

func main() {
	resumePath := flag.String("resume", "", "path to the resume (.docx, .pdf, .txt)")
	jdPath := flag.String("jd", "", "path to a text file with the job description")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall timeout")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if *resumePath == "" || *jdPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	resume, err := os.ReadFile(*resumePath)
	if err != nil {
		slog.Error("failed to read resume", "error", err)
		os.Exit(1)
	}
	jd, err := os.ReadFile(*jdPath)
	if err != nil {
		slog.Error("failed to read job description", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	extractor, closeExtractor, err := di.NewTextExtractor(ctx, cfg)
	if err != nil {
		slog.Error("failed to create text extractor", "error", err)
		os.Exit(1)
	}
	defer func() { _ = closeExtractor() }()

	// CLIはキャッシュも履歴も使わない
	uc := usecase.NewAnalysisService(extractor, di.NewAnalyzer(cfg, nil), nil, cfg.GoogleAPIKey, cfg.Provider)

	record, err := uc.AnalyzeResume(ctx, entity.ResumeFile{
		Filename: filepath.Base(*resumePath),
		Data:     resume,
	}, string(jd), "")
	if err != nil {
		slog.Error("analysis failed", "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(record.Result); err != nil {
		slog.Error("failed to write result", "error", err)
		os.Exit(1)
	}
	if record.Result.IsFailed() {
		os.Exit(1)
	}
}
