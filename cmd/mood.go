package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moodfm/internal/mood"
	"github.com/desertthunder/moodfm/internal/ui"
)

// MoodResolve resolves an explicit mood or free text to a mood label.
func (r *Runner) MoodResolve(ctx context.Context, cmd *cli.Command) error {
	selection := cmd.String("mood")
	freeText := strings.Join(cmd.Args().Slice(), " ")

	label, err := mood.Resolve(selection, freeText)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		payload := map[string]any{"mood": label}
		if cmd.Bool("scores") && freeText != "" {
			payload["scores"] = mood.Score(freeText)
		}
		return r.writeJSON(payload, true)
	}

	r.writePlain("%s\n", ui.MoodBadge(label))

	if cmd.Bool("scores") && freeText != "" {
		scores := mood.Score(freeText)
		r.writePlainln("Keyword scores:")
		for _, candidate := range mood.Labels() {
			line := fmt.Sprintf("  %s: %d", candidate, scores[candidate])
			r.writePlain("%s\n", ui.Styles.Help(line))
		}
	}

	return nil
}

// MoodProfiles lists every mood and its audio feature targets.
func (r *Runner) MoodProfiles(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("json") {
		profiles := make([]mood.Profile, 0, len(mood.Labels()))
		for _, label := range mood.Labels() {
			profile, err := mood.ProfileFor(label)
			if err != nil {
				return err
			}
			profiles = append(profiles, profile)
		}
		return r.writeJSON(profiles, true)
	}

	for _, label := range mood.Labels() {
		profile, err := mood.ProfileFor(label)
		if err != nil {
			return err
		}

		r.writePlain("%s\n", ui.MoodBadge(label))
		r.writePlain("  valence %.1f  energy %.1f  danceability %.1f\n",
			profile.TargetValence, profile.TargetEnergy, profile.TargetDanceability)
		if profile.MinTempo > 0 || profile.MaxTempo > 0 {
			r.writePlain("  tempo %.0f-%.0f bpm\n", profile.MinTempo, profile.MaxTempo)
		}
		r.writePlain("  min popularity %d\n", profile.MinPopularity)
		r.writePlain("  %s\n\n", ui.Styles.Help("search: "+strings.Join(profile.SearchQueries, ", ")))
	}

	return nil
}
