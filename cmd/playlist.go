package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytm/internal/formatter"
	"github.com/desertthunder/ytm/internal/models"
	"github.com/desertthunder/ytm/internal/shared"
	"github.com/desertthunder/ytm/internal/tasks"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// PlaylistCreate creates an empty playlist.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	playlist, err := r.playlists.Create(name, cmd.String("description"))
	if err != nil {
		return err
	}

	r.logger.Info("created playlist", "name", playlist.Name)
	return r.writePlain("✓ Created playlist %q\n", playlist.Name)
}

// PlaylistList prints the playlist library, most recently updated first.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	playlists, err := r.playlists.List()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, true)
	}

	if len(playlists) == 0 {
		return r.writePlainln("No playlists yet. Create one with: ytm playlist create <name>")
	}

	rows := make([][]string, 0, len(playlists))
	for _, playlist := range playlists {
		rows = append(rows, []string{
			playlist.Name,
			fmt.Sprintf("%d", len(playlist.Songs)),
			humanize.Time(playlist.UpdatedAt.Time),
			playlist.Description,
		})
	}

	return r.writePlain("%s\n", renderTable([]string{"Name", "Songs", "Updated", "Description"}, rows))
}

// PlaylistShow prints the songs in one playlist.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	playlist, err := r.playlists.Get(name)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlist, true)
	}

	r.writePlainHeader(fmt.Sprintf("%s (%d songs)", playlist.Name, len(playlist.Songs)))
	if playlist.Description != "" {
		r.writePlain("%s\n", playlist.Description)
	}

	if len(playlist.Songs) == 0 {
		return r.writePlainln("This playlist is empty. Add songs with: ytm playlist add %q <query>", playlist.Name)
	}

	rows := make([][]string, 0, len(playlist.Songs))
	for i, song := range playlist.Songs {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			song.Title,
			song.Artist,
			song.Album,
			song.Duration,
		})
	}

	return r.writePlain("%s\n", renderTable([]string{"#", "Title", "Artist", "Album", "Duration"}, rows))
}

// PlaylistPlay plays a playlist from the top.
func (r *Runner) PlaylistPlay(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	playlist, err := r.playlists.Get(name)
	if err != nil {
		return err
	}

	if len(playlist.Songs) == 0 {
		return r.writePlainln("Playlist %q is empty. Add songs with: ytm playlist add %q <query>", playlist.Name, playlist.Name)
	}

	queue := append([]models.Song(nil), playlist.Songs...)
	r.logger.Info("playing playlist", "name", playlist.Name, "songs", len(queue))

	return r.runSession(ctx, queue, playlist.Name)
}

// PlaylistDelete deletes a playlist file.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	if err := r.playlists.Delete(name); err != nil {
		return err
	}

	r.logger.Info("deleted playlist", "name", name)
	return r.writePlain("✓ Deleted playlist %q\n", name)
}

// PlaylistAdd searches the catalog and adds the top match to a playlist.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	query := queryFromArgs(cmd)
	if query == "" {
		return fmt.Errorf("%w: a search query is required", shared.ErrMissingArgument)
	}

	tracks, _, err := r.searchSongs(ctx, query, 0)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return r.writePlainln("No songs found.")
	}

	kept, _, err := r.dislikes.Filter(tracks)
	if err != nil {
		return err
	}
	if len(kept) == 0 {
		return r.writePlainln("No songs found after filtering dislikes.")
	}

	song := kept[0].Song()
	if err := r.playlists.AddSong(name, song); err != nil {
		return err
	}

	r.logger.Info("added song", "playlist", name, "song", song.Label())
	return r.writePlain("✓ Added %s to %q\n", song.Label(), name)
}

// PlaylistRemove removes one song from a playlist by id or 1-based position.
func (r *Runner) PlaylistRemove(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	id := cmd.String("id")
	index := int(cmd.Int("index"))

	if id == "" && index == 0 {
		return fmt.Errorf("%w: provide --id or --index", shared.ErrMissingArgument)
	}
	if id != "" && index != 0 {
		return fmt.Errorf("%w: provide only one of --id and --index", shared.ErrInvalidFlag)
	}

	var removed models.Song
	var err error
	if id != "" {
		removed, err = r.playlists.RemoveSongByID(name, id)
	} else {
		removed, err = r.playlists.RemoveSongByIndex(name, index-1)
	}
	if err != nil {
		return err
	}

	r.logger.Info("removed song", "playlist", name, "song", removed.Label())
	return r.writePlain("✓ Removed %s from %q\n", removed.Label(), name)
}

// PlaylistExport writes one playlist, or with --all every playlist, to disk.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if cmd.Bool("all") {
		return r.exportAllPlaylists(ctx, format, cmd.String("output"))
	}

	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name (or --all)", shared.ErrMissingArgument)
	}

	playlist, err := r.playlists.Get(name)
	if err != nil {
		return err
	}

	export := &models.PlaylistExport{Playlist: *playlist, ExportedAt: models.Now()}
	data, err := formatter.Export(export, format)
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if output == "" {
		output = formatter.ExportFilename(playlist.Name, format)
	}

	if err := formatter.WriteToFile(output, data); err != nil {
		return err
	}

	r.logger.Info("exported playlist", "name", playlist.Name, "path", output, "format", format)
	return r.writePlain("✓ Exported %q to %s (%d songs)\n", playlist.Name, output, len(playlist.Songs))
}

// exportAllPlaylists exports the whole library concurrently, streaming
// per-playlist progress lines as workers finish.
func (r *Runner) exportAllPlaylists(ctx context.Context, format formatter.Format, outputDir string) error {
	names, err := r.playlists.Names()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return r.writePlainln("No playlists yet. Create one with: ytm playlist create <name>")
	}

	progress := make(chan tasks.ProgressUpdate, len(names)*2)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	exporter := tasks.NewExporter(r.playlists, r.logger)
	result, err := exporter.ExportAll(ctx, progress, names, tasks.ExportOpts{
		Format:    format,
		OutputDir: outputDir,
	})
	close(progress)
	<-drained

	if err != nil {
		return err
	}

	r.writePlain("✓ Exported %d of %d playlists to %s\n", result.Succeeded, result.Total, result.OutputDir)
	if result.Failed > 0 {
		r.writePlain("%d export(s) failed; details in %s\n", result.Failed, result.ManifestPath)
	}
	return nil
}
