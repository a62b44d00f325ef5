// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// ubidetach detaches an MTD device from the UBI layer.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/multierr"

	"github.com/tiny1990/mtd-utils/lib/color"
	"github.com/tiny1990/mtd-utils/lib/logger"
	"github.com/tiny1990/mtd-utils/ubi"
)

const (
	program = "ubidetach"
	version = "1.0"
)

const usage = `Usage: ubidetach <UBI control device node file name> [-d <UBI device number>] [-m <MTD device number>]

A tool to remove UBI devices (detach MTD devices from UBI).

  -d, --devn=<N>  UBI device number to delete
  -m, --mtdn=<N>  or alternatively, MTD device number to detach - this will
                  delete the corresponding UBI device
  -h, --help      print this help message
  -V, --version   print program version

Example 1: ubidetach /dev/ubi_ctrl -d 2 - delete UBI device 2 (ubi2)
Example 2: ubidetach /dev/ubi_ctrl -m 0 - detach MTD device 0 (mtd0)`

// detachArgs holds the parameters of one detach invocation.
type detachArgs struct {
	node string
	devn int
	mtdn int
}

type parseOutcome int

const (
	doDetach parseOutcome = iota
	showHelp
	showVersion
)

// parseArgs interprets the command line; exactly one of -d and -m must be
// given.
func parseArgs(args []string) (*detachArgs, parseOutcome, error) {
	for _, a := range args {
		switch a {
		case "-h", "--help":
			return nil, showHelp, nil
		case "-V", "--version":
			return nil, showVersion, nil
		}
	}

	cmd := &detachArgs{}

	flagSet := flag.NewFlagSet(program, flag.ContinueOnError)
	flagSet.Usage = func() {}
	flagSet.SetOutput(ioutil.Discard)

	flagSet.IntVarP(&cmd.devn, "devn", "d", -1, "")
	flagSet.IntVarP(&cmd.mtdn, "mtdn", "m", -1, "")

	if err := flagSet.Parse(args); err != nil {
		return nil, doDetach, err
	}

	haveDevn := flagSet.Changed("devn")
	haveMTDn := flagSet.Changed("mtdn")
	switch {
	case haveDevn && haveMTDn:
		return nil, doDetach, errors.New("specify either UBI or MTD device number, not both (use -h for help)")
	case !haveDevn && !haveMTDn:
		return nil, doDetach, errors.New("neither UBI nor MTD device number was specified (use -h for help)")
	case haveDevn && cmd.devn < 0:
		return nil, doDetach, fmt.Errorf("bad UBI device number: %d", cmd.devn)
	case haveMTDn && cmd.mtdn < 0:
		return nil, doDetach, fmt.Errorf("bad MTD device number: %d", cmd.mtdn)
	}

	if flagSet.NArg() == 0 {
		return nil, doDetach, errors.New("UBI control device name was not specified (use -h for help)")
	}
	if flagSet.NArg() > 1 {
		return nil, doDetach, errors.New("more than one UBI control device specified (use -h for help)")
	}
	cmd.node = flagSet.Arg(0)

	return cmd, doDetach, nil
}

var errNotSupported = errors.New("MTD attach/detach feature is not supported by your kernel")

// controlSession is the slice of ubi.Session the detach sequence needs.
type controlSession interface {
	Info() (*ubi.Info, error)
	DevByMTD(mtdNum int) (int, error)
	Detach(devNum int) error
	Close() error
}

// detach runs the detach sequence against an open session, closing it on
// every path.
func detach(session controlSession, cmd *detachArgs) (err error) {
	defer func() {
		err = multierr.Append(err, session.Close())
	}()

	info, err := session.Info()
	if err != nil {
		return fmt.Errorf("cannot get UBI information: %w", err)
	}
	if !info.AttachSupported() {
		return errNotSupported
	}

	devn := cmd.devn
	if cmd.mtdn >= 0 {
		if devn, err = session.DevByMTD(cmd.mtdn); err != nil {
			return fmt.Errorf("cannot find UBI device for mtd%d: %w", cmd.mtdn, err)
		}
	}

	if err := session.Detach(devn); err != nil {
		return fmt.Errorf("cannot detach UBI device %d: %w", devn, err)
	}
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
	return detach(session, cmd)
}

func main() {
	l := logger.NewLogger(logger.ErrorLevel, color.NewColor(color.ColorAuto), os.Stdout, os.Stderr, program+": ")
	l.SetFlags(0)
	ctx := logger.WithLogger(context.Background(), l)

	if err := mainImpl(ctx, os.Args[1:], os.Stdout); err != nil {
		logger.Errorf(ctx, "%s", err)
		os.Exit(1)
	}
}
