package main

import "github.com/urfave/cli/v3"

// globalFlags are inherited by every subcommand.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.ini",
		},
		&cli.StringFlag{
			Name:    "platform",
			Aliases: []string{"p"},
			Usage:   "Provider name or alias (defaults to DefaultPlatform)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Override LogLevel (debug, info, warn, error)",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
	}
}

func (r *Runner) register() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "search",
			Usage:     "Search a provider for songs, albums, artists or playlists",
			ArgsUsage: "<query>",
			Arguments: []cli.Argument{
				&cli.StringArg{Name: "query"},
			},
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "kind",
					Aliases: []string{"k"},
					Usage:   "Entity kind to search",
					Value:   "song",
				},
				&cli.IntFlag{
					Name:    "limit",
					Aliases: []string{"n"},
					Usage:   "Maximum results (defaults to SearchLimit)",
				},
				&cli.StringSliceFlag{
					Name:    "where",
					Aliases: []string{"w"},
					Usage:   "Keep results whose attribute equals a value (key=value, repeatable)",
				},
				&cli.BoolFlag{
					Name:  "all",
					Usage: "Search every loaded provider",
				},
			},
			Action: r.Search,
		},
		{
			Name:      "song",
			Usage:     "Show a song by id or share link",
			ArgsUsage: "<id|url>",
			Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
			Action:    r.Song,
		},
		{
			Name:      "album",
			Usage:     "Show an album by id or share link",
			ArgsUsage: "<id|url>",
			Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
			Action:    r.Album,
		},
		{
			Name:      "artist",
			Aliases:   []string{"singer"},
			Usage:     "Show an artist by id or share link",
			ArgsUsage: "<id|url>",
			Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
			Action:    r.Artist,
		},
		{
			Name:      "playlist",
			Usage:     "Show a playlist by id or share link",
			ArgsUsage: "<id|url>",
			Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
			Action:    r.Playlist,
		},
		{
			Name:  "playlists",
			Usage: "Page through the playlist hub",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "category",
					Usage: "Playlist category name",
				},
				&cli.StringFlag{
					Name:  "order",
					Usage: "hot or new",
					Value: "hot",
				},
				&cli.IntFlag{
					Name:  "max",
					Usage: "Maximum playlists to list",
					Value: 30,
				},
			},
			Action: r.Playlists,
		},
		{
			Name:      "url",
			Usage:     "Resolve a song's stream URL",
			ArgsUsage: "<id|url>",
			Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "quality",
					Aliases: []string{"q"},
					Usage:   "high, medium, low or default (defaults to DefaultQuality)",
				},
			},
			Action: r.URL,
		},
		{
			Name:      "lyric",
			Usage:     "Print a song's lyrics",
			ArgsUsage: "<id|url>",
			Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "variant",
					Usage: "lyric, translated or karaoke",
					Value: "lyric",
				},
				&cli.BoolFlag{
					Name:  "lines",
					Usage: "Print timed lines as JSON",
				},
			},
			Action: r.Lyric,
		},
		{
			Name:      "download",
			Usage:     "Download a song or a whole playlist",
			ArgsUsage: "<id|url>",
			Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "kind",
					Aliases: []string{"k"},
					Usage:   "song or playlist, when the argument is an id",
					Value:   "song",
				},
				&cli.StringFlag{
					Name:    "quality",
					Aliases: []string{"q"},
					Usage:   "high, medium, low or default (defaults to DefaultQuality)",
				},
				&cli.StringFlag{
					Name:    "dir",
					Aliases: []string{"o"},
					Usage:   "Target directory (defaults to DownloadDir)",
				},
				&cli.BoolFlag{
					Name:    "force",
					Aliases: []string{"f"},
					Usage:   "Download again even if the history has the file",
				},
			},
			Action: r.Download,
		},
		{
			Name:      "history",
			Usage:     "List or search finished downloads",
			ArgsUsage: "[keyword]",
			Arguments: []cli.Argument{&cli.StringArg{Name: "keyword"}},
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "limit",
					Aliases: []string{"n"},
					Usage:   "Maximum records",
					Value:   50,
				},
				&cli.BoolFlag{
					Name:  "stats",
					Usage: "Print record counts per platform",
				},
			},
			Action: r.History,
		},
		{
			Name:   "platforms",
			Usage:  "List loaded providers",
			Action: r.Platforms,
		},
	}
}
