package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/liuran001/hymusic/core/app"
	"github.com/liuran001/hymusic/core/config"
	"github.com/liuran001/hymusic/core/model"
	"github.com/liuran001/hymusic/core/platform"
	"github.com/urfave/cli/v3"
)

// errUsage marks bad command line input.
var errUsage = errors.New("usage")

// Runner executes CLI commands against a lazily built app container.
type Runner struct {
	output io.Writer
	app    *app.App
}

// NewRunner creates a Runner writing to output.
func NewRunner(output io.Writer) *Runner {
	if output == nil {
		output = os.Stdout
	}
	return &Runner{output: output}
}

// open builds the app container from the --config flag on first use. A
// missing default config file falls back to built-in defaults.
func (r *Runner) open(ctx context.Context, cmd *cli.Command) (*app.App, error) {
	if r.app != nil {
		return r.app, nil
	}
	path := cmd.String("config")
	if _, err := os.Stat(path); err != nil && !cmd.IsSet("config") {
		path = ""
	}
	conf, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if level := cmd.String("log-level"); level != "" {
		conf.Set("LogLevel", level)
	}
	a, err := app.NewWithConfig(ctx, conf, nil)
	if err != nil {
		return nil, err
	}
	r.app = a
	return a, nil
}

// Close releases the app container if one was built.
func (r *Runner) Close(ctx context.Context) error {
	if r.app == nil {
		return nil
	}
	return r.app.Close(ctx)
}

// target resolves a command argument to a provider and id. Share links
// are routed by URL; anything else is an id on the --platform provider.
func (r *Runner) target(ctx context.Context, cmd *cli.Command, want model.Kind, arg string) (platform.Provider, model.Kind, string, error) {
	a, err := r.open(ctx, cmd)
	if err != nil {
		return nil, 0, "", err
	}
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, 0, "", fmt.Errorf("%w: id or link required", errUsage)
	}
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		p, kind, id, ok := a.Manager.MatchURL(arg)
		if !ok {
			return nil, 0, "", fmt.Errorf("%w: unrecognized link %s", errUsage, arg)
		}
		if want != 0 && kind != want {
			return nil, 0, "", fmt.Errorf("%w: link is a %s, not a %s", errUsage, kind, want)
		}
		return p, kind, id, nil
	}
	p, err := a.Provider(cmd.String("platform"))
	if err != nil {
		return nil, 0, "", err
	}
	return p, want, arg, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// parseCriteria turns repeated key=value flags into search criteria.
func parseCriteria(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	criteria := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: criteria must be key=value, got %q", errUsage, pair)
		}
		criteria[key] = strings.TrimSpace(value)
	}
	return criteria, nil
}
