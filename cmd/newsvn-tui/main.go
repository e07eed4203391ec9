package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"korean_news_vn/internal/app"
	"korean_news_vn/internal/config"
	"korean_news_vn/internal/logger"
	"korean_news_vn/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the JSON config file")
	logPath := flag.String("log", "newsvn-tui.log", "log file; the terminal is taken by the UI")
	flag.Parse()

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger.InitWithOutput(logFile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrl := app.NewController(cfg, nil)
	defer ctrl.Close()

	model := tui.NewApp(ctx, ctrl, app.NewTranslator(cfg.Translator), nil)
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		logger.Log.Errorf("UI error: %v", err)
		fmt.Fprintf(os.Stderr, "ui: %v\n", err)
		os.Exit(1)
	}
}
