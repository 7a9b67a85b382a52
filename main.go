package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	_ "github.com/liuran001/hymusic/plugins/netease"
	_ "github.com/liuran001/hymusic/plugins/qqmusic"
	"github.com/urfave/cli/v3"
)

var (
	versionName = "dev"
	commitSHA   = ""
	buildTime   = ""
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	runner := NewRunner(os.Stdout)
	cmd := &cli.Command{
		Name:     "hymusic",
		Usage:    "Search, inspect and download music from NetEase Cloud Music and QQ Music",
		Version:  version(),
		Flags:    globalFlags(),
		Commands: runner.register(),
	}

	err := cmd.Run(ctx, os.Args)

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	_ = runner.Close(shutdownCtx)

	if err != nil {
		fmt.Fprintln(os.Stderr, "hymusic:", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func version() string {
	v := versionName
	if commitSHA != "" {
		v += " (" + commitSHA + ")"
	}
	if buildTime != "" {
		v += " built " + buildTime
	}
	return fmt.Sprintf("%s %s %s/%s", v, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
