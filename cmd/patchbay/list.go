package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/dudk/patchbay"
	"github.com/dudk/patchbay/processor"
)

type listCommand struct {
	ports bool
}

func (cmd *listCommand) Name() string {
	return "list"
}

func (cmd *listCommand) Help() string {
	return "Show the list of available processors"
}

func (cmd *listCommand) Register(fs *flag.FlagSet) {
	fs.BoolVar(&cmd.ports, "ports", false, "show ports of processors")
}

func (cmd *listCommand) Run(out io.Writer) error {
	fmt.Fprintln(out, "Available processors:")
	for _, info := range processor.Types() {
		fmt.Fprintf(out, "\t%s\t%s", info.Type, info.Help)
		if len(info.Params) > 0 {
			fmt.Fprintf(out, " (params: %s)", strings.Join(info.Params, ", "))
		}
		fmt.Fprintln(out)
		if !cmd.ports {
			continue
		}
		spec, err := info.New(info.Type, nil)
		if err != nil {
			return err
		}
		for _, p := range spec.Ports {
			if p.Direction != patchbay.Input && p.Direction != patchbay.Output {
				continue
			}
			if p.Type == "" {
				p.Type = patchbay.Audio
			}
			fmt.Fprintf(out, "\t\t%s\t%v %v\n", p.Name, p.Type, p.Direction)
		}
	}
	return nil
}
