package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	log "github.com/sirupsen/logrus"
)

// cliContext is passed to every command's Run method.
type cliContext struct {
	in  io.Reader
	out io.Writer
}

var cli struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Render       renderCmd       `cmd:"" help:"Render a markdown file (or stdin) to HTML"`
	HashPassword hashPasswordCmd `cmd:"" name:"hash-password" help:"Print a bcrypt hash for TIGO_TRAINER_PASSWORD_HASH"`
	E1RM         e1rmCmd         `cmd:"" name:"e1rm" help:"Estimate a one rep max with the Epley formula"`
	Trend        trendCmd        `cmd:"" help:"Summarize a date,value CSV: count, medians and weekly trend"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("coachctl"),
		kong.Description("Admin tools for the tigo coaching service."),
		kong.UsageOnError(),
	)

	log.SetOutput(os.Stderr)
	if cli.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	err := ctx.Run(&cliContext{in: os.Stdin, out: os.Stdout})
	ctx.FatalIfErrorf(err)
}
