package main

import (
	"context"
	"strconv"

	"github.com/desertthunder/soundtrack/internal/recommend"
	"github.com/desertthunder/soundtrack/internal/ui"
	"github.com/urfave/cli/v3"
)

type presetRow struct {
	Mood      recommend.Mood      `json:"mood"`
	TimeOfDay recommend.TimeOfDay `json:"timeOfDay"`
	Params    recommend.Params    `json:"params"`
	Query     string              `json:"query"`
}

// Presets prints the parameters [recommend.Build] produces, for one mood or for all of them.
func (r *Runner) Presets(ctx context.Context, cmd *cli.Command) error {
	timeOfDay := recommend.ParseTimeOfDay(cmd.String("time"))
	market := cmd.String("market")

	moods := recommend.Moods
	if m := cmd.String("mood"); m != "" {
		moods = []recommend.Mood{recommend.ParseMood(m)}
	}

	rows := make([]presetRow, 0, len(moods))
	for _, mood := range moods {
		params := recommend.Build(string(mood), string(timeOfDay))
		rows = append(rows, presetRow{
			Mood:      mood,
			TimeOfDay: timeOfDay,
			Params:    params,
			Query:     params.Values(market).Encode(),
		})
	}

	if cmd.Bool("json") {
		if len(rows) == 1 {
			return r.writeJSON(rows[0], true)
		}
		return r.writeJSON(rows, true)
	}

	if len(rows) == 1 {
		return r.writePresetDetail(rows[0])
	}

	r.writePlain("%s\n", ui.Styles().Title("Presets ("+string(timeOfDay)+")"))
	return r.writePlain("%s\n", presetsTable(rows))
}

func (r *Runner) writePresetDetail(row presetRow) error {
	p := row.Params
	r.writePlain("%s\n", ui.Styles().Title(string(row.Mood)+" / "+string(row.TimeOfDay)))
	r.writePlain("%s\n", ui.KeyValues([][2]string{
		{"seed_genres", p.SeedGenres},
		{"limit", strconv.Itoa(p.Limit)},
		{"target_valence", formatUnit(p.TargetValence)},
		{"target_energy", formatUnit(p.TargetEnergy)},
		{"min_tempo", strconv.Itoa(p.MinTempo)},
		{"max_tempo", strconv.Itoa(p.MaxTempo)},
	}))
	return r.writePlainln("%s", ui.Styles().Help("?"+row.Query))
}

func presetsTable(rows []presetRow) string {
	body := make([][]string, 0, len(rows))
	for _, row := range rows {
		p := row.Params
		body = append(body, []string{
			string(row.Mood),
			p.SeedGenres,
			formatUnit(p.TargetValence),
			formatUnit(p.TargetEnergy),
			strconv.Itoa(p.MinTempo),
			strconv.Itoa(p.MaxTempo),
		})
	}
	return ui.Table([]string{"Mood", "Seeds", "Valence", "Energy", "Min BPM", "Max BPM"}, body)
}

func formatUnit(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
