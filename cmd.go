// Copyright (C) The Archaic Segments Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package introgress

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
)

// Handler is the subcommand shape the dispatcher below expects,
// reimplemented locally from the teacher's cmd.Handler (which in
// arvados/lightning comes from git.arvados.org/arvados.git/lib/cmd,
// dropped per DESIGN.md since that package's reason for being is
// Arvados-cluster container submission, out of scope for this
// single-process tool).
type Handler interface {
	RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int
}

// handlers is the subcommand dispatch table, mirroring the shape of
// the teacher's cmd.go handler map.
var handlers = map[string]Handler{
	"detect":  &detectCmd{},
	"version": versionHandler{},
}

// Main is the CLI entry point; cmd/introgress-scan/main.go calls it.
func Main() int {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	}
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s {detect|version} [options]\n", os.Args[0])
		return 2
	}
	h, ok := handlers[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "%s: unknown subcommand %q\n", os.Args[0], os.Args[1])
		return 2
	}
	return h.RunCommand(os.Args[0]+" "+os.Args[1], os.Args[2:], os.Stdin, os.Stdout, os.Stderr)
}

type versionHandler struct{}

func (versionHandler) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fmt.Fprintf(stdout, "introgress %s\n", Version)
	return 0
}

// detectCmd is the "detect" subcommand: run the segment finder over
// one variant table and write the .log/.score outputs, spec.md §6.
type detectCmd struct {
	cfg Config
}

func (cmd *detectCmd) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	start := time.Now()
	flags := flag.NewFlagSet(prog, flag.ContinueOnError)
	flags.SetOutput(stderr)
	cmd.cfg.Flags(flags)
	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if flags.NArg() > 0 {
		fmt.Fprintf(stderr, "%s: errant command line arguments: %v\n", prog, flags.Args())
		return 2
	}
	if err := cmd.cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return 2
	}

	agg, stats, chroms, err := Run(&cmd.cfg)
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		if _, ok := err.(*ConfigError); ok {
			return 2
		}
		return 1
	}

	if err := agg.WriteScoreFile(cmd.cfg.ScorePath(), chroms); err != nil {
		fmt.Fprintf(stderr, "writing %s: %s\n", cmd.cfg.ScorePath(), err)
		return 1
	}

	logFile, err := CreateRunLog(&cmd.cfg)
	if err != nil {
		fmt.Fprintf(stderr, "writing %s: %s\n", cmd.cfg.LogPath(), err)
		return 1
	}
	defer logFile.Close()
	fullArgs := append([]string{prog}, args...)
	if err := WriteRunLog(logFile, &cmd.cfg, stats, fullArgs, time.Since(start)); err != nil {
		fmt.Fprintf(stderr, "writing %s: %s\n", cmd.cfg.LogPath(), err)
		return 1
	}

	log.WithFields(log.Fields{
		"variants": stats.NumVariants,
		"segments": stats.NumSegments,
		"elapsed":  time.Since(start),
	}).Info("detect complete")
	return 0
}
