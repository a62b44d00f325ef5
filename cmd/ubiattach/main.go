// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// ubiattach attaches an MTD device to the UBI layer and prints a summary
// of the resulting UBI device.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/dustin/go-humanize"
	flag "github.com/spf13/pflag"
	"go.uber.org/multierr"

	"github.com/tiny1990/mtd-utils/lib/color"
	"github.com/tiny1990/mtd-utils/lib/logger"
	"github.com/tiny1990/mtd-utils/ubi"
)

const (
	program = "ubiattach"
	version = "1.0"
)

const usage = `Usage: ubiattach <UBI control device node file name> -m <MTD device number> [-d <UBI device number>]

A tool to attach an MTD device to UBI.

  -d, --devn=<N>            number to assign to the newly created UBI device
                            (assigned automatically if not specified)
  -m, --mtdn=<N>            MTD device number to attach
  -o, --vid-hdr-offset=<N>  VID header offset (do not specify this unless you
                            really know what you do, the optimal default is
                            used otherwise)
  -h, --help                print this help message
  -V, --version             print program version

Example 1: ubiattach /dev/ubi_ctrl -m 0 - attach MTD device 0 (mtd0) to UBI
Example 2: ubiattach /dev/ubi_ctrl -m 0 -d 3 - attach MTD device 0 (mtd0) to
           UBI and create UBI device number 3 (ubi3)`

// attachArgs holds the parameters of one attach invocation. It is built
// once by parseArgs and never mutated afterwards.
type attachArgs struct {
	node    string
	mtdn    int
	devn    int
	vidOffs int
}

// parseOutcome tells main what the parsed command line asks for.
type parseOutcome int

const (
	doAttach parseOutcome = iota
	showHelp
	showVersion
)

// parseArgs interprets the command line. It never prints and never exits;
// help and version requests are reported as outcomes so that main decides
// process behavior.
func parseArgs(args []string) (*attachArgs, parseOutcome, error) {
	// Help and version win over everything else, including otherwise
	// malformed flags.
	for _, a := range args {
		switch a {
		case "-h", "--help":
			return nil, showHelp, nil
		case "-V", "--version":
			return nil, showVersion, nil
		}
	}

	cmd := &attachArgs{}

	flagSet := flag.NewFlagSet(program, flag.ContinueOnError)
	flagSet.Usage = func() {}
	// Parse errors are reported by the caller, so keep pflag quiet.
	flagSet.SetOutput(ioutil.Discard)

	flagSet.IntVarP(&cmd.devn, "devn", "d", ubi.DevNumAuto, "")
	flagSet.IntVarP(&cmd.mtdn, "mtdn", "m", -1, "")
	flagSet.IntVarP(&cmd.vidOffs, "vid-hdr-offset", "o", 0, "")

	if err := flagSet.Parse(args); err != nil {
		return nil, doAttach, err
	}

	if flagSet.Changed("devn") && cmd.devn < 0 {
		return nil, doAttach, fmt.Errorf("bad UBI device number: %d", cmd.devn)
	}
	if !flagSet.Changed("mtdn") {
		return nil, doAttach, errors.New("MTD device number was not specified (use -h for help)")
	}
	if cmd.mtdn < 0 {
		return nil, doAttach, fmt.Errorf("bad MTD device number: %d", cmd.mtdn)
	}
	if flagSet.Changed("vid-hdr-offset") && cmd.vidOffs < 0 {
		return nil, doAttach, fmt.Errorf("bad VID header offset: %d", cmd.vidOffs)
	}

	if flagSet.NArg() == 0 {
		return nil, doAttach, errors.New("UBI control device name was not specified (use -h for help)")
	}
	if flagSet.NArg() > 1 {
		return nil, doAttach, errors.New("more than one UBI control device specified (use -h for help)")
	}
	cmd.node = flagSet.Arg(0)

	return cmd, doAttach, nil
}

// errNotSupported reports a kernel whose UBI layer predates the
// attach/detach interface.
var errNotSupported = errors.New("MTD attach/detach feature is not supported by your kernel")

// controlSession is the slice of ubi.Session the attach sequence needs.
// Tests substitute a fake.
type controlSession interface {
	Info() (*ubi.Info, error)
	Attach(req *ubi.AttachRequest) (int, error)
	DevInfo(devNum int) (*ubi.DevInfo, error)
	Close() error
}

// attach runs the attach sequence against an open session and writes the
// result summary to w. The session is closed before returning, on every
// path, and close errors are never dropped.
func attach(w io.Writer, session controlSession, cmd *attachArgs) (err error) {
	defer func() {
		err = multierr.Append(err, session.Close())
	}()

	// Make sure the kernel is fresh enough to support attaching.
	info, err := session.Info()
	if err != nil {
		return fmt.Errorf("cannot get UBI information: %w", err)
	}
	if !info.AttachSupported() {
		return errNotSupported
	}

	devn, err := session.Attach(&ubi.AttachRequest{
		DevNum:       cmd.devn,
		MTDNum:       cmd.mtdn,
		VIDHdrOffset: cmd.vidOffs,
	})
	if err != nil {
		return fmt.Errorf("cannot attach mtd%d: %w", cmd.mtdn, err)
	}

	dev, err := session.DevInfo(devn)
	if err != nil {
		return fmt.Errorf("cannot get information about newly created UBI device %d: %w", devn, err)
	}

	fmt.Fprintf(w, "UBI device number %d, total %d LEBs (%s), available %d LEBs (%s), LEB size %s\n",
		dev.DevNum,
		dev.TotalLEBs, humanize.IBytes(uint64(dev.TotalBytes)),
		dev.AvailLEBs, humanize.IBytes(uint64(dev.AvailBytes)),
		humanize.IBytes(uint64(dev.LEBSize)))
	return nil
}

func mainImpl(ctx context.Context, args []string, stdout io.Writer) error {
	cmd, outcome, err := parseArgs(args)
	if err != nil {
		return err
	}
	switch outcome {
	case showHelp:
		fmt.Fprintln(stdout, usage)
		return nil
	case showVersion:
		fmt.Fprintf(stdout, "%s %s\n", program, version)
		return nil
	}

	session, err := ubi.Open(cmd.node)
	if err != nil {
		return fmt.Errorf("cannot open UBI control device %q: %w", cmd.node, err)
	}
	return attach(stdout, session, cmd)
}

func main() {
	l := logger.NewLogger(logger.ErrorLevel, color.NewColor(color.ColorAuto), os.Stdout, os.Stderr, program+": ")
	// This tool runs interactively, so drop timestamps.
	l.SetFlags(0)
	ctx := logger.WithLogger(context.Background(), l)

	if err := mainImpl(ctx, os.Args[1:], os.Stdout); err != nil {
		logger.Errorf(ctx, "%s", err)
		os.Exit(1)
	}
}
