// Package predict implements the predict command.
package predict

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/compgene/input"
	"github.com/katalvlaran/compgene/internal/conf"
	"github.com/katalvlaran/compgene/internal/errors"
	"github.com/katalvlaran/compgene/internal/logger"
	"github.com/katalvlaran/compgene/internal/metrics"
	"github.com/katalvlaran/compgene/phylo"
	"github.com/katalvlaran/compgene/pipeline"
	"github.com/katalvlaran/compgene/pressure"
)

// Command creates the predict command. load returns the settings after
// flags are parsed.
func Command(load func() (*conf.Settings, error)) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "predict <ranges.yaml>",
		Short: "Predict consensus gene sets for gene ranges",
		Long: "Reads gene-range documents, builds candidate graphs per species and writes the " +
			"base, init and optimized gene sets of every range as YAML documents.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return errors.New(err).Component("predict").Category(errors.CategoryOutput).Build()
				}
				defer f.Close()
				out = f
			}
			return Run(ctx, settings, args[0], out, cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Gene set output file (default stdout)")

	return cmd
}

// Run predicts the gene sets of the document at inPath and writes them to
// out. Logs go to logOut.
func Run(ctx context.Context, settings *conf.Settings, inPath string, out, logOut io.Writer) error {
	log := logger.NewSlogLogger(logOut, logger.LogLevel(settings.Log.Level), logger.Format(settings.Log.Format))

	doc, err := input.LoadFile(inPath)
	if err != nil {
		return errors.New(err).
			Component("predict").
			Category(errors.CategoryInput).
			Context("file", inPath).
			Build()
	}

	cfg, err := settings.PipelineConfig()
	if err != nil {
		return errors.New(err).Component("predict").Category(errors.CategoryConfiguration).Build()
	}

	registry := prometheus.NewRegistry()
	m, err := metrics.NewMetrics(registry)
	if err != nil {
		return err
	}

	opts := []pipeline.Option{pipeline.WithLogger(log), pipeline.WithRecorder(m)}
	if model := settings.Pressure.Model; model == conf.ModelPhylo || model == conf.ModelCombined {
		ph, err := phyloModel(settings.Phylo, doc.Species, log)
		if err != nil {
			return errors.New(err).
				Component("predict").
				Category(errors.CategoryConfiguration).
				Context("tree", settings.Phylo.Tree).
				Build()
		}
		var plaus pressure.Plausibility = ph
		if model == conf.ModelCombined {
			plaus = pressure.Sum{pressure.Majority{}, ph}
		}
		opts = append(opts, pipeline.WithPlausibility(plaus))
	}

	p, err := pipeline.New(doc.Species, cfg, opts...)
	if err != nil {
		return err
	}
	sum, err := p.Run(ctx, doc.Ranges, out)
	if errors.Is(err, context.Canceled) {
		log.Warn("prediction interrupted",
			logger.String("run_id", sum.RunID),
			logger.Int("ranges", sum.Ranges))
	}
	if err != nil {
		return err
	}

	if settings.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(settings.Metrics.Textfile, registry); err != nil {
			return errors.New(err).Component("predict").Category(errors.CategoryOutput).Build()
		}
	}
	log.Info("prediction finished",
		logger.String("run_id", sum.RunID),
		logger.Int("ranges", sum.Ranges),
		logger.Int("rejected", sum.Rejected),
		logger.Int("base_genes", sum.Genes["base"]),
		logger.Int("optimized_genes", sum.Genes["optimized"]))
	return nil
}

// phyloModel reads the species tree and prepares the exon gain/loss model.
func phyloModel(s conf.PhyloSettings, species []string, log logger.Logger) (*pressure.Phylo, error) {
	text, err := os.ReadFile(s.Tree)
	if err != nil {
		return nil, fmt.Errorf("reading species tree: %w", err)
	}
	tree, err := phylo.ParseNewick(string(text))
	if err != nil {
		return nil, err
	}
	evo, err := phylo.NewExonEvo(s.Loss, s.Gain)
	if err != nil {
		return nil, err
	}
	evo.ComputeLogPMatrices(tree)
	log.Debug("exon evolution model", logger.String("model", evo.String()), logger.String("tree", tree.String()))

	return pressure.NewPhylo(evo, s.Factor, species)
}
