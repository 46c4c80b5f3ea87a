/*
 * main.go, part of gomof.
 *
 * Copyright 2024 Raul Mera <rmeraa{at}academicos(dot)uta(dot)cl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// gomof computes property-weighted radial distribution functions and bag-of-atoms
// descriptors for crystal structures in CIF format, and predicts CO2 adsorption
// properties from them.
//
// Usage:
//
//	gomof rdf [flags]
//	gomof boa [flags]
//	gomof predict [flags]
//
// Every sub-command takes -config, a TOML run file. Other flags override it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	chem "github.com/rmera/gomof"
	"github.com/rmera/gomof/batch"
	"github.com/rmera/gomof/boa"
	"github.com/rmera/gomof/chemplot"
	"github.com/rmera/gomof/config"
	"github.com/rmera/gomof/log"
	"github.com/rmera/gomof/predict"
	"github.com/rmera/gomof/rdf"
)

// Exit codes
const (
	exitOK      = 0
	exitFatal   = 1 //bad configuration, or the run was aborted
	exitSkipped = 2 //the run finished, but some structures failed
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s rdf|boa|predict [flags]\nUse %s <command> -h for the flags of each command.\n", os.Args[0], os.Args[0])
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:])
	stop()
	log.Sync()
	os.Exit(code)
}

// run executes the sub-command in args[0] and returns the exit code.
func run(ctx context.Context, args []string) int {
	if len(args) < 1 {
		usage()
		return exitFatal
	}
	switch args[0] {
	case "rdf":
		return runRDF(ctx, args[1:])
	case "boa":
		return runBOA(ctx, args[1:])
	case "predict":
		return runPredict(args[1:])
	case "-h", "-help", "--help", "help":
		usage()
		return exitOK
	}
	fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
	usage()
	return exitFatal
}

// parse parses args into fs. The second value is false if the command should not run,
// in which case the first one is the exit code.
func parse(fs *flag.FlagSet, args []string) (int, bool) {
	err := fs.Parse(args)
	switch {
	case err == nil:
		return exitOK, true
	case errors.Is(err, flag.ErrHelp):
		return exitOK, false
	}
	return exitFatal, false
}

// common holds the flags all the sub-commands share.
type common struct {
	conf     *string
	logLevel *string
	logFile  *string
	props    *string
}

func commonFlags(fs *flag.FlagSet) *common {
	return &common{
		conf:     fs.String("config", "", "TOML run file. Defaults are used if not given"),
		logLevel: fs.String("loglevel", "", "log level: debug, info, warn or error"),
		logFile:  fs.String("logfile", "", "log to this file instead of stderr"),
		props:    fs.String("properties", "", "YAML file with element properties, merged over the built-in ones"),
	}
}

// setup loads the configuration, applies the shared flags and starts the logger.
func (c *common) setup() (*config.Config, error) {
	C := config.Default()
	if *c.conf != "" {
		var err error
		if C, err = config.Load(*c.conf); err != nil {
			return nil, err
		}
	}
	if *c.logLevel != "" {
		C.Log.Level = *c.logLevel
	}
	if *c.logFile != "" {
		C.Log.File = *c.logFile
	}
	if *c.props != "" {
		C.PropertiesFile = *c.props
	}
	lg, err := log.InitLogger(&C.Log)
	if err != nil {
		return nil, err
	}
	log.ReplaceGlobals(lg)
	return C, nil
}

func fatal(err error) int {
	log.L().Error("gomof failed", zap.Error(err))
	return exitFatal
}

func summaryCode(sum *batch.Summary) int {
	if len(sum.Failed) > 0 {
		return exitSkipped
	}
	return exitOK
}

func runRDF(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("rdf", flag.ContinueOnError)
	c := commonFlags(fs)
	src := fs.String("src", "", "directory with the CIF files")
	dst := fs.String("dst", "", "output CSV file, can end in .gz or .zst")
	pattern := fs.String("pattern", "", "glob pattern for the structure files")
	workers := fs.Int("workers", 0, "number of structures processed at the same time")
	smooth := fs.Float64("smooth", 0, "smoothing coefficient, negative")
	factor := fs.Float64("factor", 0, "scaling factor, positive")
	props := fs.String("props", "", "comma-separated properties to weight the RDF with")
	cutoff := fs.String("cutoff", "", "cutoff policy: ignore, warn or strict")
	plots := fs.String("plots", "", "write a PNG plot of each RDF to this directory")
	if code, ok := parse(fs, args); !ok {
		return code
	}
	C, err := c.setup()
	if err != nil {
		return fatal(err)
	}
	r := &C.RDF
	setString(&r.Src, *src)
	setString(&r.Dst, *dst)
	setString(&r.Pattern, *pattern)
	setString(&r.CutoffPolicy, *cutoff)
	setString(&r.PlotDir, *plots)
	if *workers != 0 {
		r.Workers = *workers
	}
	if *smooth != 0 {
		r.Smooth = *smooth
	}
	if *factor != 0 {
		r.Factor = *factor
	}
	if *props != "" {
		r.Properties = strings.Split(*props, ",")
	}
	if err := C.Check(); err != nil {
		return fatal(err)
	}
	table, err := C.Properties()
	if err != nil {
		return fatal(err)
	}
	opts, err := C.RDFOptions()
	if err != nil {
		return fatal(err)
	}
	if r.PlotDir != "" {
		if err := os.MkdirAll(r.PlotDir, 0o755); err != nil {
			return fatal(chem.NewIOError(r.PlotDir, err, true))
		}
	}
	paths, err := batch.Discover(r.Src, r.Pattern)
	if err != nil {
		return fatal(err)
	}
	task := func(path string) (batch.Row, error) {
		s, err := chem.CIFFileRead(path)
		if err != nil {
			return nil, err
		}
		rec, err := rdf.Compute(s, table, opts)
		if err != nil {
			return nil, err
		}
		if r.PlotDir != "" {
			if err := chemplot.RDFPlot(rec, opts.Props(), opts.Bins(), nil, chemplot.PlotName(r.PlotDir, s.Name)); err != nil {
				log.L().Warn("plot failed", zap.String("structure", s.Name), zap.Error(err))
			}
		}
		return rec, nil
	}
	sum, err := batch.NewDriver(opts.Header(), task, r.Workers).RunFile(ctx, paths, r.Dst)
	if err != nil {
		return fatal(err)
	}
	return summaryCode(sum)
}

func runBOA(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("boa", flag.ContinueOnError)
	c := commonFlags(fs)
	src := fs.String("src", "", "directory with the CIF files")
	dst := fs.String("dst", "", "output CSV file, can end in .gz or .zst")
	pattern := fs.String("pattern", "", "glob pattern for the structure files")
	workers := fs.Int("workers", 0, "number of structures processed at the same time")
	grid := fs.Int("grid", 0, "boxes along each cell axis")
	if code, ok := parse(fs, args); !ok {
		return code
	}
	C, err := c.setup()
	if err != nil {
		return fatal(err)
	}
	b := &C.BOA
	setString(&b.Src, *src)
	setString(&b.Dst, *dst)
	setString(&b.Pattern, *pattern)
	if *workers != 0 {
		b.Workers = *workers
	}
	if *grid != 0 {
		b.Grid = *grid
	}
	if err := C.Check(); err != nil {
		return fatal(err)
	}
	table, err := C.Properties()
	if err != nil {
		return fatal(err)
	}
	paths, err := batch.Discover(b.Src, b.Pattern)
	if err != nil {
		return fatal(err)
	}
	n := b.Grid
	task := func(path string) (batch.Row, error) {
		s, err := chem.CIFFileRead(path)
		if err != nil {
			return nil, err
		}
		rec, err := boa.Compute(s, table, n)
		if err != nil {
			return nil, err
		}
		return rec, nil
	}
	sum, err := batch.NewDriver(boa.Header(n), task, b.Workers).RunFile(ctx, paths, b.Dst)
	if err != nil {
		return fatal(err)
	}
	return summaryCode(sum)
}

func runPredict(args []string) int {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	c := commonFlags(fs)
	desc := fs.String("descriptors", "", "comma-separated descriptor CSV files, joined on the structure name")
	models := fs.String("models", "", "directory with the models")
	set := fs.String("features", "", "feature set, e.g. rdf+boa")
	target := fs.String("target", "", "wc (CO2 working capacity) or Sel (CO2/N2 selectivity)")
	scaler := fs.String("scaler", "", "directory with mean.npy and scale.npy. If not given, the scaler is fitted on the descriptors")
	out := fs.String("out", "", "output CSV file")
	if code, ok := parse(fs, args); !ok {
		return code
	}
	C, err := c.setup()
	if err != nil {
		return fatal(err)
	}
	p := &C.Predict
	if *desc != "" {
		p.Descriptors = strings.Split(*desc, ",")
	}
	setString(&p.ModelDir, *models)
	setString(&p.FeatureSet, *set)
	setString(&p.Target, *target)
	setString(&p.ScalerDir, *scaler)
	setString(&p.Out, *out)
	if err := C.Check(); err != nil {
		return fatal(err)
	}
	o, err := C.PredictOptions()
	if err != nil {
		return fatal(err)
	}
	if _, err := predict.Run(o); err != nil {
		return fatal(err)
	}
	return exitOK
}

func setString(dst *string, flagval string) {
	if flagval != "" {
		*dst = flagval
	}
}
