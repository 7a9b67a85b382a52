package main

import (
	"context"
	"fmt"

	"github.com/liuran001/hymusic/core/app"
	"github.com/liuran001/hymusic/core/model"
	"github.com/liuran001/hymusic/core/platform"
	"github.com/liuran001/hymusic/core/store"
	"github.com/urfave/cli/v3"
)

// Search searches one provider, or every provider with --all.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	a, err := r.open(ctx, cmd)
	if err != nil {
		return err
	}
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: query required", errUsage)
	}
	kind, err := model.ParseKind(cmd.String("kind"))
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	criteria, err := parseCriteria(cmd.StringSlice("where"))
	if err != nil {
		return err
	}
	limit := cmd.Int("limit")
	if limit <= 0 {
		limit = a.Config.GetInt("SearchLimit")
	}

	if cmd.Bool("all") {
		results, err := a.Manager.SearchAll(ctx, query, kind, limit, criteria)
		if err != nil {
			return err
		}
		return r.writeJSON(results, cmd.Bool("pretty"))
	}

	p, err := a.Provider(cmd.String("platform"))
	if err != nil {
		return err
	}
	a.Logger.Debug("searching", "platform", p.Name(), "kind", kind.String(), "query", query)
	results, err := p.Search(ctx, query, kind, limit, criteria)
	if err != nil {
		return err
	}
	return r.writeJSON(results, cmd.Bool("pretty"))
}

// Song prints a song's detail record.
func (r *Runner) Song(ctx context.Context, cmd *cli.Command) error {
	p, _, id, err := r.target(ctx, cmd, model.KindSong, cmd.StringArg("id"))
	if err != nil {
		return err
	}
	song, err := p.GetSong(ctx, id, nil)
	if err != nil {
		return err
	}
	return r.writeJSON(song, cmd.Bool("pretty"))
}

// Album prints an album's detail record.
func (r *Runner) Album(ctx context.Context, cmd *cli.Command) error {
	p, _, id, err := r.target(ctx, cmd, model.KindAlbum, cmd.StringArg("id"))
	if err != nil {
		return err
	}
	album, err := p.GetAlbum(ctx, id, nil)
	if err != nil {
		return err
	}
	return r.writeJSON(album, cmd.Bool("pretty"))
}

// Artist prints an artist's detail record.
func (r *Runner) Artist(ctx context.Context, cmd *cli.Command) error {
	p, _, id, err := r.target(ctx, cmd, model.KindArtist, cmd.StringArg("id"))
	if err != nil {
		return err
	}
	artist, err := p.GetArtist(ctx, id, nil)
	if err != nil {
		return err
	}
	return r.writeJSON(artist, cmd.Bool("pretty"))
}

// Playlist prints a playlist's detail record.
func (r *Runner) Playlist(ctx context.Context, cmd *cli.Command) error {
	p, _, id, err := r.target(ctx, cmd, model.KindPlaylist, cmd.StringArg("id"))
	if err != nil {
		return err
	}
	playlist, err := p.GetPlaylist(ctx, id, nil)
	if err != nil {
		return err
	}
	return r.writeJSON(playlist, cmd.Bool("pretty"))
}

// Playlists pages through a provider's playlist hub.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	a, err := r.open(ctx, cmd)
	if err != nil {
		return err
	}
	p, err := a.Provider(cmd.String("platform"))
	if err != nil {
		return err
	}
	order, err := platform.ParseOrder(cmd.String("order"))
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	opts := platform.ListOptions{
		Max:      cmd.Int("max"),
		Category: cmd.String("category"),
		Order:    order,
	}

	var playlists []*model.Playlist
	for playlist, err := range p.ListPlaylists(ctx, opts) {
		if err != nil {
			return err
		}
		playlists = append(playlists, playlist)
	}
	return r.writeJSON(playlists, cmd.Bool("pretty"))
}

// URL resolves a song's stream URL.
func (r *Runner) URL(ctx context.Context, cmd *cli.Command) error {
	p, _, id, err := r.target(ctx, cmd, model.KindSong, cmd.StringArg("id"))
	if err != nil {
		return err
	}
	quality, err := r.app.Quality(cmd.String("quality"))
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	stream, err := p.GetSongURL(ctx, id, quality)
	if err != nil {
		return err
	}
	return r.writeJSON(map[string]any{
		"url":     stream.URL,
		"quality": stream.Quality.String(),
		"bitrate": stream.Bitrate,
		"format":  stream.Format,
		"size":    stream.Size,
	}, cmd.Bool("pretty"))
}

// Lyric prints one lyric variant, optionally split into timed lines.
func (r *Runner) Lyric(ctx context.Context, cmd *cli.Command) error {
	p, _, id, err := r.target(ctx, cmd, model.KindSong, cmd.StringArg("id"))
	if err != nil {
		return err
	}
	variant, err := platform.ParseLyricVariant(cmd.String("variant"))
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	text, ok, err := p.GetSongLyric(ctx, id, variant)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s lyric unavailable for %s", variant, id)
	}
	text = platform.NormalizeLRCTimestamps(text)
	if cmd.Bool("lines") {
		type line struct {
			Millis int64  `json:"ms"`
			Text   string `json:"text"`
		}
		parsed := platform.ParseLRC(text)
		lines := make([]line, 0, len(parsed))
		for _, l := range parsed {
			lines = append(lines, line{Millis: l.Time.Milliseconds(), Text: l.Text})
		}
		return r.writeJSON(lines, cmd.Bool("pretty"))
	}
	return r.writePlain("%s\n", text)
}

// Download saves a song, or every song of a playlist, to disk.
func (r *Runner) Download(ctx context.Context, cmd *cli.Command) error {
	p, kind, id, err := r.target(ctx, cmd, 0, cmd.StringArg("id"))
	if err != nil {
		return err
	}
	if kind == 0 {
		if kind, err = model.ParseKind(cmd.String("kind")); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
	}
	quality, err := r.app.Quality(cmd.String("quality"))
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	opts := app.DownloadOptions{
		Quality: quality,
		Dir:     cmd.String("dir"),
		Force:   cmd.Bool("force"),
	}

	switch kind {
	case model.KindSong:
		res, err := r.app.DownloadSong(ctx, p, id, opts)
		if err != nil {
			return err
		}
		return r.writeJSON(res, cmd.Bool("pretty"))
	case model.KindPlaylist:
		results, err := r.app.DownloadPlaylist(ctx, p, id, opts)
		if err != nil {
			return err
		}
		type row struct {
			ID     string `json:"id"`
			Name   string `json:"name"`
			Path   string `json:"path,omitempty"`
			Cached bool   `json:"cached,omitempty"`
			Error  string `json:"error,omitempty"`
		}
		rows := make([]row, 0, len(results))
		for _, res := range results {
			if res == nil {
				continue
			}
			out := row{ID: res.ID, Name: res.Name, Path: res.Path, Cached: res.Cached}
			if res.Err != nil {
				out.Error = res.Err.Error()
			}
			rows = append(rows, out)
		}
		return r.writeJSON(rows, cmd.Bool("pretty"))
	default:
		return fmt.Errorf("%w: cannot download a %s", errUsage, kind)
	}
}

// Platforms lists the loaded providers.
func (r *Runner) Platforms(ctx context.Context, cmd *cli.Command) error {
	a, err := r.open(ctx, cmd)
	if err != nil {
		return err
	}
	type row struct {
		Name        string   `json:"name"`
		DisplayName string   `json:"display_name"`
		Aliases     []string `json:"aliases,omitempty"`
	}
	metas := a.Manager.ListMeta()
	rows := make([]row, 0, len(metas))
	for _, meta := range metas {
		rows = append(rows, row{Name: meta.Name, DisplayName: meta.DisplayName, Aliases: meta.Aliases})
	}
	return r.writeJSON(rows, cmd.Bool("pretty"))
}

// History lists or searches the download history.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	a, err := r.open(ctx, cmd)
	if err != nil {
		return err
	}
	if a.History == nil {
		return fmt.Errorf("%w: HistoryDB is not configured", errUsage)
	}
	platformName := ""
	if name := cmd.String("platform"); name != "" {
		p, err := a.Provider(name)
		if err != nil {
			return err
		}
		platformName = p.Name()
	}
	if cmd.Bool("stats") {
		counts, err := a.History.CountByPlatform(ctx)
		if err != nil {
			return err
		}
		return r.writeJSON(counts, cmd.Bool("pretty"))
	}
	records, err := a.History.List(ctx, store.Query{
		Platform: platformName,
		Keyword:  cmd.StringArg("keyword"),
		Limit:    cmd.Int("limit"),
	})
	if err != nil {
		return err
	}
	return r.writeJSON(records, cmd.Bool("pretty"))
}
