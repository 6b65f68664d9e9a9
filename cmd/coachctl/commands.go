package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/markdown"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/plans"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/progress"
	"github.com/SoroushGhorbanimehr/tigo-app/pkg"

	log "github.com/sirupsen/logrus"
)

var errEmptyPassword = errors.New("password is empty")

type renderCmd struct {
	File string `arg:"" optional:"" type:"existingfile" help:"Markdown file, stdin when omitted"`
}

func (c *renderCmd) Run(ctx *cliContext) error {
	src, err := readInput(ctx.in, c.File)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.out, markdown.Render(string(src)))
	return err
}

type hashPasswordCmd struct {
	Password string `arg:"" optional:"" help:"Password to hash, first line of stdin when omitted"`
}

func (c *hashPasswordCmd) Run(ctx *cliContext) error {
	password := c.Password
	if password == "" {
		raw, err := io.ReadAll(ctx.in)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		password, _, _ = strings.Cut(string(raw), "\n")
		password = strings.TrimRight(password, "\r")
	}
	if password == "" {
		return errEmptyPassword
	}

	hash, err := pkg.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = fmt.Fprintln(ctx.out, hash)
	return err
}

type e1rmCmd struct {
	Weight float64 `arg:"" help:"Lifted weight"`
	Reps   int     `arg:"" help:"Repetitions, clamped to 1..30"`
	Unit   string  `short:"u" default:"kg" enum:"kg,lb" help:"Unit of the weight"`
}

func (c *e1rmCmd) Run(ctx *cliContext) error {
	if c.Weight <= 0 {
		return fmt.Errorf("weight must be positive, got %v", c.Weight)
	}
	e1rm := progress.Epley1RM(c.Weight, c.Reps)
	_, err := fmt.Fprintf(ctx.out, "%.2f %s\n", progress.Round(e1rm, 2), c.Unit)
	return err
}

type trendCmd struct {
	File string  `arg:"" optional:"" type:"existingfile" help:"CSV with date,value rows, stdin when omitted"`
	Goal float64 `help:"Goal value, enables goal progress when positive"`
	Now  string  `help:"Reference day (YYYY-MM-DD) for the windows, today when empty"`
}

func (c *trendCmd) Run(ctx *cliContext) error {
	now, err := referenceTime(c.Now, time.Now())
	if err != nil {
		return err
	}

	src, err := readInput(ctx.in, c.File)
	if err != nil {
		return err
	}
	samples, err := parseSamplesCSV(strings.NewReader(string(src)))
	if err != nil {
		return err
	}
	log.Debugf("trend: %d samples read", len(samples))

	var goal *float64
	if c.Goal > 0 {
		goal = &c.Goal
	}
	summary := progress.Summarize(samples, goal, now)
	fmt.Fprintf(ctx.out, "count:        %d\n", summary.Count)
	if summary.Count == 0 {
		return nil
	}
	fmt.Fprintf(ctx.out, "start:        %.2f (%s)\n", summary.Start.Value, summary.Start.Time.Format(plans.DateLayout))
	fmt.Fprintf(ctx.out, "latest:       %.2f (%s)\n", summary.Latest.Value, summary.Latest.Time.Format(plans.DateLayout))
	printOptional(ctx.out, "median 7d:", summary.Median7d)
	printOptional(ctx.out, "median 30d:", summary.Median30d)
	fmt.Fprintf(ctx.out, "trend/week:   %+.2f\n", summary.TrendPerWeek)
	if summary.GoalProgress != nil {
		fmt.Fprintf(ctx.out, "goal:         %.2f (%.0f%%)\n", *summary.Goal, *summary.GoalProgress)
	}
	return nil
}

// referenceTime is the end of the reference day in UTC, the zone CSV dates are parsed in,
// so samples of that day count. An empty day means today's local date.
func referenceTime(day string, clock time.Time) (time.Time, error) {
	d := time.Date(clock.Year(), clock.Month(), clock.Day(), 0, 0, 0, 0, time.UTC)
	if day != "" {
		parsed, err := plans.ParseDate(day)
		if err != nil {
			return time.Time{}, err
		}
		d = parsed
	}
	return d.Add(24*time.Hour - time.Second), nil
}

func printOptional(w io.Writer, label string, v *float64) {
	if v == nil {
		fmt.Fprintf(w, "%-13s -\n", label)
		return
	}
	fmt.Fprintf(w, "%-13s %.2f\n", label, *v)
}

// parseSamplesCSV reads date,value rows. A header row and blank lines are skipped.
func parseSamplesCSV(r io.Reader) ([]progress.Sample, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var samples []progress.Sample
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("line %d: expected date,value", line)
		}

		date, err := plans.ParseDate(record[0])
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid value [%s]", line, record[1])
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, fmt.Errorf("line %d: value must be finite, got [%s]", line, record[1])
		}
		samples = append(samples, progress.Sample{Value: value, Time: date})
	}

	return samples, nil
}

func readInput(stdin io.Reader, file string) ([]byte, error) {
	if file == "" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(file)
}
