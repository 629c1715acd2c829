package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mlocatelli/progetta/internal/app"
	"github.com/mlocatelli/progetta/internal/model"
	"github.com/mlocatelli/progetta/internal/store"
)

func main() {
	cfgPath := model.DefaultConfigPath()
	if p := os.Getenv("PROGETTA_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := model.LoadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "progetta: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "progetta: creating data directory: %v\n", err)
		os.Exit(1)
	}

	s, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "progetta: opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	p := tea.NewProgram(app.New(s, cfg, cfgPath), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "progetta: %v\n", err)
		os.Exit(1)
	}
}
