// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// playCommand searches, picks, and plays. Same action as running ytm with a
// bare query.
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     "Search for a song and play it",
		ArgsUsage: "[query...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-radio",
				Usage: "Play only the selected song, without the radio queue",
			},
		},
		Action: r.Play,
	}
}

// searchCommand prints search results without starting playback.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the catalog and print the results",
		ArgsUsage: "<query>",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Maximum number of results (0 uses the catalog default)",
			},
		},
		Action: r.Search,
	}
}

// playlistCommand manages the local playlist library.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Manage local playlists",
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Create an empty playlist",
				ArgsUsage: "<name>",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "Playlist description",
					},
				},
				Action: r.PlaylistCreate,
			},
			{
				Name:  "list",
				Usage: "List playlists, most recently updated first",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlaylistList,
			},
			{
				Name:      "show",
				Usage:     "Show the songs in a playlist",
				ArgsUsage: "<name>",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlaylistShow,
			},
			{
				Name:      "play",
				Usage:     "Play a playlist from the top",
				ArgsUsage: "<name>",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Action: r.PlaylistPlay,
			},
			{
				Name:      "delete",
				Usage:     "Delete a playlist",
				ArgsUsage: "<name>",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Action: r.PlaylistDelete,
			},
			{
				Name:      "add",
				Usage:     "Search and add the top match to a playlist",
				ArgsUsage: "<name> <query...>",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
					&cli.StringArg{
						Name: "query",
					},
				},
				Action: r.PlaylistAdd,
			},
			{
				Name:      "remove",
				Usage:     "Remove a song from a playlist",
				ArgsUsage: "<name>",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "id",
						Usage: "Video id of the song to remove",
					},
					&cli.IntFlag{
						Name:  "index",
						Usage: "1-based position of the song to remove",
					},
				},
				Action: r.PlaylistRemove,
			},
			{
				Name:      "export",
				Usage:     "Export a playlist to a file",
				ArgsUsage: "[name]",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: csv, markdown, txt, json, yaml",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (or directory with --all)",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Export every playlist concurrently",
					},
				},
				Action: r.PlaylistExport,
			},
		},
	}
}

// dislikesCommand manages the global dislike set.
func dislikesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "dislikes",
		Usage: "Manage disliked songs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List disliked songs",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.DislikesList,
			},
			{
				Name:      "remove",
				Usage:     "Remove a song from the dislike list",
				ArgsUsage: "<videoId>",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.DislikesRemove,
			},
			{
				Name:  "clear",
				Usage: "Remove every disliked song",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Skip the confirmation prompt",
					},
				},
				Action: r.DislikesClear,
			},
		},
	}
}

// lyricsCommand prints lyrics for the top search match.
func lyricsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "lyrics",
		Usage:     "Print lyrics for a song",
		ArgsUsage: "<query>",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Action: r.Lyrics,
	}
}

// authCommand configures catalog authentication.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage catalog authentication",
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Show authentication state and proxy health",
				Action: r.AuthStatus,
			},
			{
				Name:  "setup-browser",
				Usage: "Configure browser authentication from a copied cURL command",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to a file containing the cURL command",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path for browser.json",
						Value:   "browser.json",
					},
				},
				Action: r.AuthSetupBrowser,
			},
			{
				Name:  "setup-oauth",
				Usage: "Configure OAuth authentication with a Google client",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "client-id",
						Usage: "Google OAuth client id",
					},
					&cli.StringFlag{
						Name:  "client-secret",
						Usage: "Google OAuth client secret",
					},
					&cli.StringFlag{
						Name:  "credentials",
						Usage: "Path to a client_secret*.json credentials file",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path for oauth.json",
						Value:   "oauth.json",
					},
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the authorization URL instead of opening a browser",
					},
				},
				Action: r.AuthSetupOAuth,
			},
			{
				Name:   "disable",
				Usage:  "Disable authentication",
				Action: r.AuthDisable,
			},
		},
	}
}

// cacheCommand inspects and clears the response cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect the response cache",
		Commands: []*cli.Command{
			{
				Name:  "stats",
				Usage: "Show cache counts and database size",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CacheStats,
			},
			{
				Name:   "clear",
				Usage:  "Drop every cached track and search",
				Action: r.CacheClear,
			},
		},
	}
}

// setupCommand writes a starter config and prepares the local stores.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml, the store directories, and the cache database",
		Action: r.Setup,
	}
}

// apiCommand handles direct (proxy) API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the catalog proxy",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Direct GET against the proxy, prints raw JSON",
				ArgsUsage: "<path>",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:      "post",
				Usage:     "Direct POST with a JSON body",
				ArgsUsage: "<path>",
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
				},
				Action: r.APIPost,
			},
		},
	}
}
