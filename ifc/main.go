package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"github.com/tpapenfuss/forecast/cmd"
)

func main() {
	// Shell completion hook, a no-op outside completion mode.
	completion := &complete.Command{
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.json"),
		},
		Sub: map[string]*complete.Command{
			"simulate": {Flags: map[string]complete.Predictor{
				"benchmark": predict.Something,
				"o":         predict.Dirs("*"),
				"history":   predict.Nothing,
			}},
			"dates": {Flags: map[string]complete.Predictor{
				"s":         predict.Something,
				"d":         predict.Something,
				"frequency": predict.Set{"monthly", "bimonthly"},
			}},
			"fetch": {Flags: map[string]complete.Predictor{
				"o": predict.Files("*.json"),
			}},
			"topic":  {},
			"assist": {},
		},
	}
	completion.Complete("ifc")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
