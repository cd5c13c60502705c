package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"
	"github.com/kalexmills/preflow"
	"github.com/kalexmills/preflow/edgelist"
	"github.com/kalexmills/preflow/generate"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	log "github.com/sirupsen/logrus"
)

const iniFilename = "preflow.ini"

// Config is the top-level configuration shared by every command.
var Config = new(struct {
	Log LogConfig `group:"Logging" namespace:"log" env-namespace:"LOG"`
})

type cmdSolve struct {
	Source          int  `long:"source" default:"0" description:"1-based ID of the source node. Zero derives the source and sink from node degrees"`
	Sink            int  `long:"sink" default:"0" description:"1-based ID of the sink node. Zero derives the source and sink from node degrees"`
	Cut             bool `long:"cut" description:"Also print the 1-based IDs of the source side of a minimum cut"`
	Metrics         bool `long:"metrics" description:"Write solver metrics to stderr in Prometheus text format"`
	RelabelInterval int  `long:"relabel-interval" default:"0" description:"Discharges between global relabels. Zero uses the edge count, and a negative value relabels only once"`
}

func (cmd *cmdSolve) Execute(args []string) error {
	initLog(Config.Log)

	if (cmd.Source == 0) != (cmd.Sink == 0) {
		return errors.New("--source and --sink must be given together")
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, path := range args {
		if err := cmd.solve(os.Stdout, path); err != nil {
			return errors.WithMessage(err, path)
		}
	}
	if cmd.Metrics {
		return writeMetrics(os.Stderr)
	}
	return nil
}

func (cmd *cmdSolve) solve(w io.Writer, path string) error {
	var r io.Reader = os.Stdin
	if path != "-" {
		var f, err = os.Open(path)
		if err != nil {
			return errors.Wrap(err, "opening instance")
		}
		defer f.Close()
		r = f
	}

	var inst, err = edgelist.Parse(r)
	if err != nil {
		return err
	}
	fn, err := inst.Network()
	if err != nil {
		return err
	}
	if cmd.Source != 0 {
		if err = fn.SetTerminals(cmd.Source-1, cmd.Sink-1); err != nil {
			return err
		}
	}
	fn.SetOptions(preflow.Options{GlobalRelabelInterval: cmd.RelabelInterval})

	var started = time.Now()
	if err = fn.PushRelabel(); err != nil {
		return err
	}
	var stats = fn.Stats()

	log.WithFields(log.Fields{
		"path":     path,
		"nodes":    humanize.Comma(int64(fn.NumNodes())),
		"edges":    humanize.Comma(int64(fn.NumEdges())),
		"flow":     humanize.Comma(fn.Outflow()),
		"pushes":   humanize.Comma(int64(stats.Pushes)),
		"relabels": humanize.Comma(int64(stats.Relabels)),
		"elapsed":  time.Since(started),
	}).Info("solved instance")

	fmt.Fprintln(w, fn.Outflow())
	if cmd.Cut {
		var side, _ = fn.MinCut()
		var ids = make([]string, len(side))
		for i, v := range side {
			ids[i] = strconv.Itoa(v + 1)
		}
		fmt.Fprintln(w, strings.Join(ids, " "))
	}
	return nil
}

// writeMetrics writes the solver's metric families in text exposition format.
func writeMetrics(w io.Writer) error {
	var families, err = prometheus.DefaultGatherer.Gather()
	if err != nil {
		return errors.Wrap(err, "gathering metrics")
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "preflow_") {
			continue
		}
		if _, err = expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrap(err, "writing metrics")
		}
	}
	return nil
}

// GenerateConfig is common to the generate sub-commands.
type GenerateConfig struct {
	Seed        int64 `long:"seed" default:"1" description:"Seed of the random generator"`
	MaxCapacity int64 `long:"max-capacity" default:"100" description:"Largest capacity of a generated edge"`
}

func (cfg GenerateConfig) rng() *rand.Rand { return rand.New(rand.NewSource(cfg.Seed)) }

func (cfg GenerateConfig) write(inst *edgelist.Instance) error {
	log.WithFields(log.Fields{
		"nodes": humanize.Comma(int64(inst.NumNodes)),
		"edges": humanize.Comma(int64(len(inst.Edges))),
		"seed":  cfg.Seed,
	}).Info("generated instance")

	return edgelist.Write(os.Stdout, inst)
}

type cmdMultipartite struct {
	GenerateConfig
	Args struct {
		Sizes []int `positional-arg-name:"SIZE" required:"1" description:"Number of nodes in each layer"`
	} `positional-args:"yes"`
}

func (cmd *cmdMultipartite) Execute([]string) error {
	initLog(Config.Log)
	return cmd.write(generate.Multipartite(cmd.rng(), cmd.MaxCapacity, cmd.Args.Sizes...))
}

type cmdCycles struct {
	GenerateConfig
	Nodes int `long:"nodes" default:"100" description:"Number of nodes, excluding the source and sink"`
	Args  struct {
		Sizes []int `positional-arg-name:"LENGTH" required:"1" description:"Length of each cycle"`
	} `positional-args:"yes"`
}

func (cmd *cmdCycles) Execute([]string) error {
	initLog(Config.Log)
	return cmd.write(generate.Cycles(cmd.rng(), cmd.Nodes, cmd.MaxCapacity, cmd.Args.Sizes...))
}

func main() {
	var parser = flags.NewParser(Config, flags.Default)

	parser.LongDescription = `preflow computes maximum flows of directed networks using push-relabel.

Networks are read as edge lists: a node count n and an edge count m, followed by m
lines "u v c", each an edge from node u to node v of capacity c. Nodes are numbered
from 1. Optionally configure preflow with a '` + iniFilename + `' file in the current
working directory, or with '~/.config/preflow/` + iniFilename + `'.
`
	addPrintConfigCmd(parser)

	mustAddCmd(parser.Command, "solve", "Solve maximum flow instances", `
Solve each named instance file (or stdin, if none are named) and print its maximum flow.

Unless --source and --sink are given, the source is the single node without incoming
edges, and the sink is the single node without outgoing edges.
`, &cmdSolve{})

	mustAddCmd(parser.Command, "segment", "Separate an object from the background of an image", `
Segment an image by a minimum cut. Each pixel is a node, joined to its four
neighbours by edges which are costly to cut between pixels of similar intensity,
and to the source and sink by costs drawn from the intensity histograms of the
--object and --background seed pixels. The object mask is written as a PNG to
--output. If --reference names a mask, the object, background, overall and
Jaccard scores of the result against it are printed.
`, &cmdSegment{})

	var gen = mustAddCmd(parser.Command, "generate", "Generate random instances", `
Generate a random instance and write it to stdout as an edge list. Instances have a
single node without incoming edges (node 1) and a single node without outgoing edges
(the last node).
`, &struct{}{})

	mustAddCmd(gen, "multipartite", "Generate layered bipartite graphs", `
Generate a multipartite graph: a sequence of layers of the given sizes, each joined to the
next by randomly chosen edges. The source feeds the first layer and the last layer drains
to the sink.
`, &cmdMultipartite{})

	mustAddCmd(gen, "cycles", "Generate overlapping cycles", `
Generate a graph formed of directed cycles of the given lengths, laid over --nodes
nodes. A random tenth of the nodes are joined to the source or sink.
`, &cmdCycles{})

	mustParseConfig(parser)
}
