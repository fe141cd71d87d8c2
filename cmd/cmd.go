// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/desertthunder/albumctl/internal/formatter"
	"github.com/desertthunder/albumctl/internal/models"
	"github.com/urfave/cli/v3"
)

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

func collectionIDFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "id",
		Usage:    "Collection ID",
		Required: true,
	}
}

func albumIDFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "album",
		Aliases:  []string{"a"},
		Usage:    "Album ID",
		Required: true,
	}
}

func yesFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "Skip the confirmation prompt",
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// collectionsCommand lists collections
func collectionsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "collections",
		Aliases: []string{"ls"},
		Usage:   "Collection index",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List your collections",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "filter",
						Aliases: []string{"f"},
						Usage:   "Fuzzy filter on collection names",
					},
				}, outputFlags()...),
				Action: r.CollectionsList,
			},
		},
	}
}

// collectionCommand handles single-collection operations
func collectionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "collection",
		Aliases: []string{"coll"},
		Usage:   "Show or export one collection",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show a collection's albums in playlist order",
				Flags:  append([]cli.Flag{collectionIDFlag()}, outputFlags()...),
				Action: r.CollectionShow,
			},
			{
				Name:  "export",
				Usage: "Export a collection to CSV, Markdown, text or JSON",
				Flags: []cli.Flag{
					collectionIDFlag(),
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format: csv, markdown, text or json",
						Value: string(formatter.FormatCSV),
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path (default: derived from the collection ID)",
					},
					&cli.BoolFlag{
						Name:  "cover",
						Usage: "Download the first album's cover with Markdown exports",
					},
				},
				Action: r.CollectionExport,
			},
		},
	}
}

// albumCommand handles album operations inside a collection
func albumCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "album",
		Usage: "Remove, move, reorder or open an album",
		Commands: []*cli.Command{
			{
				Name:   "remove",
				Usage:  "Remove every track of an album from a collection",
				Flags:  []cli.Flag{collectionIDFlag(), albumIDFlag(), yesFlag()},
				Action: r.AlbumRemove,
			},
			{
				Name:  "move",
				Usage: "Move an album to another collection",
				Flags: []cli.Flag{
					collectionIDFlag(),
					albumIDFlag(),
					&cli.StringFlag{
						Name:     "to",
						Usage:    "Destination collection ID",
						Required: true,
					},
				},
				Action: r.AlbumMove,
			},
			{
				Name:  "reorder",
				Usage: "Move an album in front of another one, or to the end",
				Flags: []cli.Flag{
					collectionIDFlag(),
					albumIDFlag(),
					&cli.StringFlag{
						Name:  "before",
						Usage: "Album ID to place the album in front of",
					},
					&cli.BoolFlag{
						Name:  "end",
						Usage: "Move the album to the end of the collection",
					},
				},
				Action: r.AlbumReorder,
			},
			{
				Name:  "open",
				Usage: "Open an album's link in the browser",
				Flags: []cli.Flag{
					collectionIDFlag(),
					albumIDFlag(),
					&cli.BoolFlag{
						Name:  "print",
						Usage: "Print the link instead of opening it",
					},
				},
				Action: r.AlbumOpen,
			},
		},
	}
}

// playCommand starts playback of a collection
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Play a collection on a device",
		Flags: []cli.Flag{
			collectionIDFlag(),
			&cli.StringFlag{
				Name:    "device",
				Aliases: []string{"d"},
				Usage:   "Device ID or name (default: the only device)",
			},
			&cli.StringFlag{
				Name:  "from",
				Usage: "Album ID to start from",
			},
			&cli.BoolFlag{
				Name:  "shuffle",
				Usage: "Shuffle the collection",
			},
		},
		Action: r.Play,
	}
}

// devicesCommand lists playback devices
func devicesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "devices",
		Usage:  "List playback devices",
		Flags:  outputFlags(),
		Action: r.Devices,
	}
}

// searchCommand searches music
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search albums or tracks by text or link",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "Media type: album or track",
				Value:   string(models.MediaAlbum),
			},
			&cli.IntFlag{
				Name:  "pick",
				Usage: "Keep only result N (1-based)",
			},
			&cli.BoolFlag{
				Name:  "copy",
				Usage: "Copy the picked link to the clipboard",
			},
		}, outputFlags()...),
		Action: r.Search,
	}
}

// historyCommand shows the local activity journal
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show requests recorded in the local activity journal",
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of entries",
				Value:   20,
			},
			&cli.BoolFlag{
				Name:  "failed",
				Usage: "Only show failed requests",
			},
			&cli.StringFlag{
				Name:  "kind",
				Usage: "Only show one kind: remove, reorder, add, move, play or search",
			},
			&cli.StringFlag{
				Name:  "collection",
				Usage: "Only show entries for a collection ID",
			},
			&cli.BoolFlag{
				Name:  "clear",
				Usage: "Delete journal entries instead of listing them",
			},
			&cli.DurationFlag{
				Name:  "older-than",
				Usage: "With --clear, only delete entries older than this",
				Value: time.Duration(0),
			},
			yesFlag(),
		}, outputFlags()...),
		Action: r.History,
	}
}

// tuiCommand returns the top-level TUI command for interactive collection management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for collection management",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the TUI runs",
				Value: "./tmp/albumctl-tui.log",
			},
		},
		Action: r.TUI,
	}
}

// offlineCommand runs the in-memory demo backend
func offlineCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "offline",
		Usage: "Serve demo collections from memory for offline use and testing",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (default: offline.host from config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (default: offline.port from config)",
			},
			&cli.StringFlag{
				Name:  "session",
				Usage: "Require this session cookie value",
			},
		},
		Action: r.Offline,
	}
}

// apiCommand handles direct calls to the collections site
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the collections site",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints JSON or the page body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// setupCommand handles setup operations for configuration, session and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write the default configuration file",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
			{
				Name:  "session",
				Usage: "Save the session cookie from a browser \"Copy as cURL\" command",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
					&cli.BoolFlag{
						Name:  "keep-url",
						Usage: "Keep the configured base URL instead of the cURL target",
					},
				},
				Action: r.SetupSession,
			},
			{
				Name:   "database",
				Usage:  "Initialize the activity journal and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}
