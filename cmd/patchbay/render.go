package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/dudk/patchbay"
	"github.com/dudk/patchbay/log"
	"github.com/dudk/patchbay/metric"
	"github.com/dudk/patchbay/patch"
	"github.com/dudk/patchbay/wav"
)

type renderCommand struct {
	patch     string
	in        string
	out       string
	blockSize int
	bitDepth  int
	mlock     bool
	metric    bool
}

func (cmd *renderCommand) Name() string {
	return "render"
}

func (cmd *renderCommand) Help() string {
	return "Render wav file through the patch"
}

func (cmd *renderCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.patch, "patch", "", "yaml patch file (required)")
	fs.StringVar(&cmd.in, "in", "", "input wav file (required)")
	fs.StringVar(&cmd.out, "out", "", "output wav file (required)")
	fs.IntVar(&cmd.blockSize, "block", 0, "block size, overrides patch setting")
	fs.IntVar(&cmd.bitDepth, "bits", 16, "bit depth of output file")
	fs.BoolVar(&cmd.mlock, "mlock", false, "lock process memory during rendering")
	fs.BoolVar(&cmd.metric, "metric", false, "print runtime metrics")
}

func (cmd *renderCommand) Validate() error {
	var message string
	if cmd.patch == "" {
		message += "Missing -patch required flag\n"
	}
	if cmd.in == "" {
		message += "Missing -in required flag\n"
	}
	if cmd.out == "" {
		message += "Missing -out required flag\n"
	}
	if message != "" {
		return errors.New(message)
	}
	return nil
}

func (cmd *renderCommand) Run(out io.Writer) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	p, err := patch.Load(cmd.patch)
	if err != nil {
		return err
	}
	source, err := wav.Open(cmd.in)
	if err != nil {
		return err
	}
	defer source.Close()

	logger := log.GetLogger()
	name := p.Name
	if name == "" {
		name = cmd.patch
	}
	options := []patchbay.Option{
		patchbay.WithName(name),
		patchbay.WithLogger(log.WithGraph(logger, name)),
		patchbay.SampleRate(source.SampleRate),
	}
	if cmd.blockSize != 0 {
		options = append(options, patchbay.BlockSize(cmd.blockSize))
	}
	if cmd.mlock {
		options = append(options, patchbay.LockMemory())
	}
	if cmd.metric {
		options = append(options, patchbay.WithMetric())
	}
	rt, _, err := p.Build(options...)
	if err != nil {
		return err
	}

	sink, err := wav.Create(cmd.out, source.SampleRate, cmd.bitDepth)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	logger.Infof("rendering %v to %v with block size %d", cmd.in, cmd.out, rt.BlockSize())
	if err := rt.Run(ctx, source, sink); err != nil {
		sink.Close()
		return fmt.Errorf("render: %w", err)
	}
	if err := sink.Close(); err != nil {
		return err
	}
	if cmd.metric {
		for counter, value := range metric.Get(name) {
			fmt.Fprintf(out, "%s: %s\n", counter, value)
		}
	}
	return nil
}
