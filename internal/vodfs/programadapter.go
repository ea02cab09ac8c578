package vodfs

import (
	"context"

	"github.com/airwaves/channelcast/internal/catalog"
	"github.com/airwaves/channelcast/internal/materializer"
	"github.com/airwaves/channelcast/internal/model"
)

// programsToMovies and programsToSeries adapt a flat list of Programs (the
// Channel Streaming Core's unified content type, spec.md §3) into the
// Movie/Series trees Root expects. This is the bridge between "Program" and
// the pre-existing catalog.Movie/Series VOD browsing model: movie
// and track Programs become standalone Movie entries; episode Programs are
// grouped into Series keyed by their title, with one Season per season
// number, so a deployer can
// browse the same content referenced by channel lineups through a
// Plex-naming-convention filesystem view.
func programsToMovies(programs []model.Program) []catalog.Movie {
	var out []catalog.Movie
	for _, p := range programs {
		if p.Type != model.ProgramMovie && p.Type != model.ProgramTrack {
			continue
		}
		if p.FilePath == "" {
			continue
		}
		out = append(out, catalog.Movie{
			ID:        p.Key(),
			Title:     p.Title,
			Year:      p.Year,
			StreamURL: p.FilePath,
		})
	}
	return out
}

func programsToSeries(programs []model.Program) []catalog.Series {
	bySeries := make(map[string]*catalog.Series)
	var order []string
	for _, p := range programs {
		if p.Type != model.ProgramEpisode || p.FilePath == "" {
			continue
		}
		s, ok := bySeries[p.Title]
		if !ok {
			s = &catalog.Series{ID: p.Title, Title: p.Title}
			bySeries[p.Title] = s
			order = append(order, p.Title)
		}
		var season *catalog.Season
		for i := range s.Seasons {
			if s.Seasons[i].Number == p.Season {
				season = &s.Seasons[i]
				break
			}
		}
		if season == nil {
			s.Seasons = append(s.Seasons, catalog.Season{Number: p.Season})
			season = &s.Seasons[len(s.Seasons)-1]
		}
		season.Episodes = append(season.Episodes, catalog.Episode{
			ID:         p.Key(),
			SeasonNum:  p.Season,
			EpisodeNum: p.Episode,
			Title:      p.Title,
			StreamURL:  p.FilePath,
		})
	}
	out := make([]catalog.Series, 0, len(order))
	for _, title := range order {
		out = append(out, *bySeries[title])
	}
	return out
}

// MountPrograms mounts mountPoint with the given Programs, adapted into
// the catalog tree Root understands. It blocks until SIGINT, per Mount.
func MountPrograms(mountPoint string, programs []model.Program, mat materializer.Interface) error {
	return Mount(mountPoint, programsToMovies(programs), programsToSeries(programs), mat)
}

// MountProgramsBackground is the non-blocking counterpart to MountPrograms,
// for callers (e.g. the main server) that need the mount running alongside
// other work instead of owning the process's signal handling.
func MountProgramsBackground(ctx context.Context, mountPoint string, programs []model.Program, mat materializer.Interface, allowOther bool) (unmount func(), err error) {
	return MountBackground(ctx, mountPoint, programsToMovies(programs), programsToSeries(programs), mat, allowOther)
}
