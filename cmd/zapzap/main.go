// Command zapzap is the kong CLI root for the ZapZap bot sandbox: an
// interactive human-vs-bots match, batch simulation, learner benchmarking,
// and iterative training. Grounded on the teacher's cmd/pokerforbots/main.go
// CLI root (kong.VersionFlag plus one cmd:"" field per subcommand) and
// cmd/simulate/main.go (the simulate subcommand's flag/statistics shape).
package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build.
var version = "dev"

// CLI is the root command; each field is a subcommand struct with its own
// Run() error method.
type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" help:"Play an interactive match against bots"`
	Simulate SimulateCmd      `cmd:"" help:"Run a batch of simulated matches and print statistics"`
	Bench    BenchCmd         `cmd:"" help:"Benchmark feature extraction and learner inference"`
	Train    TrainCmd         `cmd:"" help:"Run an iterative simulate-then-update training loop"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("zapzap"),
		kong.Description("ZapZap card game engine, bot strategies, and simulator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
