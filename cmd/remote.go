package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/albumsync/internal/models"
	"github.com/urfave/cli/v3"
)

// People lists named people so album definitions can reference them.
func (r *Runner) People(ctx context.Context, cmd *cli.Command) error {
	photos, err := r.photoService(cmd)
	if err != nil {
		return err
	}

	people, err := photos.ListPeople(ctx)
	if err != nil {
		return fmt.Errorf("failed to list people: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(people, cmd.Bool("pretty"))
	}

	named := slices.DeleteFunc(slices.Clone(people), func(p models.Person) bool { return p.Name == "" })
	slices.SortStableFunc(named, func(a, b models.Person) int { return strings.Compare(a.Name, b.Name) })

	r.writePlainHeader(fmt.Sprintf("People (%d named of %d)", len(named), len(people)))
	for _, p := range named {
		hidden := ""
		if p.IsHidden {
			hidden = " " + r.paint.Help("(hidden)")
		}
		r.writePlain("%s  %s%s\n", p.ID, p.Name, hidden)
	}
	return nil
}

// Tags lists tags by their full path.
func (r *Runner) Tags(ctx context.Context, cmd *cli.Command) error {
	photos, err := r.photoService(cmd)
	if err != nil {
		return err
	}

	tags, err := photos.ListTags(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tags: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(tags, cmd.Bool("pretty"))
	}

	sorted := slices.Clone(tags)
	slices.SortStableFunc(sorted, func(a, b models.Tag) int { return strings.Compare(a.Value, b.Value) })

	r.writePlainHeader(fmt.Sprintf("Tags (%d)", len(tags)))
	for _, t := range sorted {
		r.writePlain("%s  %s\n", t.ID, t.Value)
	}
	return nil
}

// Albums lists the server's albums with their asset counts.
func (r *Runner) Albums(ctx context.Context, cmd *cli.Command) error {
	photos, err := r.photoService(cmd)
	if err != nil {
		return err
	}

	albums, err := photos.ListAlbums(ctx)
	if err != nil {
		return fmt.Errorf("failed to list albums: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(albums, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Albums (%d)", len(albums)))
	for _, a := range albums {
		r.writePlain("%s  %s (%d assets)\n", a.ID, a.Name, a.AssetCount)
	}
	return nil
}
