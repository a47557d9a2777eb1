// Command todiem stamps exam answer-sheet PDFs with grades pulled from an
// Excel roster: the score in Vietnamese words plus position-encoded bubble
// marks, one output document per input sheet.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"todiem/internal/config"
	"todiem/internal/logger"
	"todiem/internal/pipeline"
	"todiem/internal/types"
)

var version = "0.1.0-dev"

func main() {
	cmd := &cli.Command{
		Name:    "todiem",
		Usage:   "stamp exam answer sheets with grades from an Excel roster",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Value: ".",
				Usage: "working directory holding the roster and the answer-sheet PDFs",
			},
			&cli.StringFlag{
				Name:  "font",
				Usage: "path to an Arial TTF for overlay text (optional)",
			},
			&cli.BoolFlag{
				Name:  "keep",
				Usage: "keep the original PDFs after processing",
			},
			&cli.BoolFlag{
				Name:  "default-info",
				Usage: "use default staff names instead of interactive prompts",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "print debug logs",
			},
		},
		Action: run,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	workDir, err := filepath.Abs(cmd.String("dir"))
	if err != nil {
		return err
	}

	level := logger.LevelInfo
	if cmd.Bool("verbose") {
		level = logger.LevelDebug
	}
	log, err := logger.NewDefaultLogger(&logger.Config{
		LogFilePath:   filepath.Join(workDir, config.DefaultLogFileName),
		Level:         level,
		EnableConsole: true,
	})
	if err != nil {
		return err
	}
	defer log.Close()

	cfg, err := config.New(workDir, cmd.String("font"), log)
	if err != nil {
		return err
	}
	cfg.KeepOriginals = cmd.Bool("keep")
	cfg.UseDefaultInfo = cmd.Bool("default-info")

	info := collectSupervisorInfo(cfg.UseDefaultInfo)

	log.Info("processing started", logger.String("dir", cfg.WorkDir))

	result, err := pipeline.New(cfg, info, log).Run(ctx)
	if err != nil {
		log.Error("processing failed", err)
		return err
	}

	for _, res := range result.Categories {
		if res.Err != nil {
			log.Warn("category finished with errors",
				logger.String("category", res.Category.Key()),
				logger.Err(res.Err))
		}
	}
	log.Info("done, check the output_*.pdf files in the working directory")
	return nil
}

// collectSupervisorInfo prompts for the exam staff names, falling back to
// the defaults field by field when the input is empty.
func collectSupervisorInfo(useDefaults bool) types.SupervisorInfo {
	info := types.DefaultSupervisorInfo()
	if useDefaults {
		return info
	}

	reader := bufio.NewReader(os.Stdin)
	prompt := func(label string, fallback string) string {
		fmt.Print(label)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fallback
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return fallback
		}
		return line
	}

	info.Supervisor1 = prompt("Nhập tên cán bộ coi thi 1: ", info.Supervisor1)
	info.Supervisor2 = prompt("Nhập tên cán bộ coi thi 2: ", info.Supervisor2)
	info.Grader1 = prompt("Nhập tên giảng viên chấm thi 1: ", info.Grader1)
	info.Grader2 = prompt("Nhập tên giảng viên chấm thi 2: ", info.Grader2)
	return info
}
