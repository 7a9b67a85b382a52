// Package app wires configuration, logging, providers and the download
// pipeline into one container for the command line.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/liuran001/hymusic/core/config"
	"github.com/liuran001/hymusic/core/download"
	logpkg "github.com/liuran001/hymusic/core/logger"
	"github.com/liuran001/hymusic/core/model"
	"github.com/liuran001/hymusic/core/platform"
	platformplugins "github.com/liuran001/hymusic/core/platform/plugins"
	"github.com/liuran001/hymusic/core/store"
	"github.com/liuran001/hymusic/core/transport"
	"github.com/liuran001/hymusic/core/worker"
	"golang.org/x/sync/errgroup"
)

// App wires all application dependencies.
type App struct {
	Config   *config.Config
	Logger   *logpkg.Logger
	Pool     *worker.Pool
	Manager  *platform.Manager
	Download *download.Service
	// History is nil unless HistoryDB is configured.
	History *store.Repository
}

// New builds the application container from a config file. An empty path
// runs on defaults.
func New(ctx context.Context, configPath string) (*App, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(ctx, conf, nil)
}

// NewWithConfig builds the container from an already loaded config. A nil
// log is built from the config's log settings.
func NewWithConfig(ctx context.Context, conf *config.Config, log *logpkg.Logger) (*App, error) {
	if conf == nil {
		return nil, errors.New("config required")
	}
	if log == nil {
		log = logpkg.New(conf.GetString("LogLevel"), conf.GetString("LogFormat"), conf.GetBool("LogSource"))
	}

	pool := worker.New(conf.GetInt("WorkerPoolSize"))

	manager := platform.NewManager()
	pluginNames := conf.PluginNames()
	if len(pluginNames) == 0 {
		pluginNames = platformplugins.Names()
	}
	for _, name := range pluginNames {
		if !conf.PluginEnabled(name) {
			log.Info("plugin disabled by config", "plugin", name)
			continue
		}
		factory, ok := platformplugins.Get(name)
		if !ok {
			log.Warn("plugin not registered", "plugin", name)
			continue
		}
		provider, err := factory(conf, log.With("plugin", name))
		if err != nil {
			log.Error("plugin init failed", "plugin", name, "error", err)
			continue
		}
		if provider == nil {
			continue
		}
		if err := manager.Register(provider); err != nil {
			log.Error("plugin register failed", "plugin", name, "error", err)
			continue
		}
		log.Debug("plugin loaded", "plugin", name)
	}

	opener := transport.New(transport.Options{
		RetryMax: conf.GetInt("HTTPRetryMax"),
		Logger:   log,
	})
	downloads := download.NewService(opener, download.Options{
		Timeout: time.Duration(conf.GetInt("DownloadTimeout")) * time.Second,
		Logger:  log,
	})

	var history *store.Repository
	if path := strings.TrimSpace(conf.GetString("HistoryDB")); path != "" {
		gormLogger := logpkg.NewGormLogger(log.Slog(), logpkg.GormLevel(conf.GetString("LogLevel")))
		var err error
		history, err = store.NewSQLiteRepository(path, gormLogger)
		if err != nil {
			_ = pool.Shutdown(ctx)
			return nil, fmt.Errorf("init history db: %w", err)
		}
	}

	return &App{
		Config:   conf,
		Logger:   log,
		Pool:     pool,
		Manager:  manager,
		Download: downloads,
		History:  history,
	}, nil
}

// Provider returns the provider for name or alias, falling back to
// DefaultPlatform when name is empty.
func (a *App) Provider(name string) (platform.Provider, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.TrimSpace(a.Config.GetString("DefaultPlatform"))
	}
	return a.Manager.GetProvider(name)
}

// Quality parses name, falling back to DefaultQuality when name is empty.
func (a *App) Quality(name string) (platform.Quality, error) {
	if strings.TrimSpace(name) == "" {
		name = a.Config.GetString("DefaultQuality")
	}
	return platform.ParseQuality(name)
}

// DownloadDir returns dir, or the configured DownloadDir when dir is empty.
func (a *App) DownloadDir(dir string) string {
	if strings.TrimSpace(dir) != "" {
		return dir
	}
	return a.Config.GetString("DownloadDir")
}

// DownloadOptions configures DownloadSong and DownloadPlaylist.
// Dir defaults to DownloadDir. Force downloads again even when the history
// has the file.
type DownloadOptions struct {
	Quality platform.Quality
	Dir     string
	Force   bool
}

// DownloadResult describes one finished (or failed) song download. Cached
// is set when the history already had the file.
type DownloadResult struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Path    string `json:"path,omitempty"`
	Bytes   int64  `json:"bytes,omitempty"`
	Quality string `json:"quality,omitempty"`
	Cached  bool   `json:"cached,omitempty"`
	Err     error  `json:"-"`
}

// DownloadSong resolves a song and its stream, then writes it under the
// target directory.
func (a *App) DownloadSong(ctx context.Context, p platform.Provider, id string, opts DownloadOptions) (*DownloadResult, error) {
	song, err := p.GetSong(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	return a.downloadResolved(ctx, p, song, id, opts)
}

// DownloadPlaylist downloads every song of a playlist through the worker
// pool. A failed song is reported in its result and does not stop the rest.
func (a *App) DownloadPlaylist(ctx context.Context, p platform.Provider, id string, opts DownloadOptions) ([]*DownloadResult, error) {
	playlist, err := p.GetPlaylist(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	songs, err := playlist.Songs(ctx)
	if err != nil {
		return nil, err
	}
	opts.Dir = filepath.Join(a.DownloadDir(opts.Dir), download.SafeName(playlist.Name()))

	results := make([]*DownloadResult, len(songs))
	g, gctx := errgroup.WithContext(ctx)
	for i, song := range songs {
		g.Go(func() error {
			ident, err := p.Identifier(song)
			if err != nil {
				results[i] = &DownloadResult{Name: song.Name(), Err: err}
				return nil
			}
			songID := ident.Value
			var res *DownloadResult
			err = a.Pool.SubmitWaitContext(gctx, func() error {
				var err error
				res, err = a.downloadResolved(gctx, p, song, songID, opts)
				return err
			})
			if err == nil {
				results[i] = res
				return nil
			}
			if errors.Is(err, worker.ErrPoolClosed) || gctx.Err() != nil {
				return err
			}
			a.Logger.Warn("playlist song failed", "playlist", id, "song", songID, "error", err)
			results[i] = &DownloadResult{ID: songID, Name: song.Name(), Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (a *App) downloadResolved(ctx context.Context, p platform.Provider, song *model.Song, id string, opts DownloadOptions) (*DownloadResult, error) {
	if res := a.cached(ctx, p.Name(), id, opts); res != nil {
		return res, nil
	}
	stream, err := p.GetSongURL(ctx, id, opts.Quality)
	if err != nil {
		return nil, err
	}
	artistName := ""
	if artist, err := song.Artist(ctx); err == nil && artist != nil {
		artistName = artist.Name()
	} else if err != nil {
		a.Logger.Debug("artist unavailable for file name", "song", id, "error", err)
	}
	path := filepath.Join(a.DownloadDir(opts.Dir), download.FileName(artistName, song.Name(), stream.Format))
	written, err := a.Download.Download(ctx, stream, path, nil)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", id, err)
	}
	a.Logger.Info("song downloaded", "platform", p.Name(), "song", id, "quality", stream.Quality.String(), "path", path)

	if a.History != nil {
		record := &store.Download{
			Platform: p.Name(),
			TrackID:  id,
			Quality:  opts.Quality.String(),
			SongName: song.Name(),
			Artist:   artistName,
			Format:   stream.Format,
			Bitrate:  stream.Bitrate,
			Size:     written,
			Path:     path,
		}
		if album, ok := song.Get(model.FieldAlbum); ok {
			if named, ok := album.(model.Named); ok {
				record.Album = named.Name()
			}
		}
		if err := a.History.Record(ctx, record); err != nil {
			a.Logger.Warn("history record failed", "song", id, "error", err)
		}
	}

	return &DownloadResult{
		ID:      id,
		Name:    song.Name(),
		Path:    path,
		Bytes:   written,
		Quality: stream.Quality.String(),
	}, nil
}

// cached returns the history entry for a song when its file still exists.
func (a *App) cached(ctx context.Context, provider, id string, opts DownloadOptions) *DownloadResult {
	if a.History == nil || opts.Force {
		return nil
	}
	record, err := a.History.Find(ctx, provider, id, opts.Quality.String())
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			a.Logger.Warn("history lookup failed", "song", id, "error", err)
		}
		return nil
	}
	if info, err := os.Stat(record.Path); err != nil || info.Size() != record.Size {
		return nil
	}
	a.Logger.Debug("song already downloaded", "platform", provider, "song", id, "path", record.Path)
	return &DownloadResult{
		ID:      id,
		Name:    record.SongName,
		Path:    record.Path,
		Bytes:   record.Size,
		Quality: record.Quality,
		Cached:  true,
	}
}

// Close stops the worker pool and closes the history database.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Pool != nil {
		errs = append(errs, a.Pool.Shutdown(ctx))
	}
	if a.History != nil {
		errs = append(errs, a.History.Close())
	}
	return errors.Join(errs...)
}
