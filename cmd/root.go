package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/katalvlaran/compgene/cmd/predict"
	"github.com/katalvlaran/compgene/internal/conf"
)

// flagKeys maps persistent flags to configuration keys.
var flagKeys = map[string]string{
	"strategy":         "optimizer.strategy",
	"max-iterations":   "optimizer.maxiterations",
	"dd-factor":        "optimizer.dd_factor",
	"workers":          "pipeline.workers",
	"max-range-length": "pipeline.maxrangelength",
	"model":            "pressure.model",
	"tree":             "phylo.tree",
	"log-level":        "log.level",
	"log-format":       "log.format",
	"metrics-textfile": "metrics.textfile",
}

// RootCommand creates and returns the root command.
func RootCommand() *cobra.Command {
	v := conf.New()
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "compgene",
		Short:         "Comparative multi-species gene prediction",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	if err := setupFlags(rootCmd, v, &configPath); err != nil {
		panic(err)
	}

	load := func() (*conf.Settings, error) {
		return conf.Load(v, configPath)
	}
	rootCmd.AddCommand(predict.Command(load))

	return rootCmd
}

// setupFlags defines the global flags and binds them to v.
func setupFlags(rootCmd *cobra.Command, v *viper.Viper, configPath *string) error {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(configPath, "config", "c", "", "Configuration file (default ./compgene.yaml)")
	pf.String("strategy", v.GetString("optimizer.strategy"), "Consensus strategy: local-move or dual-decomposition")
	pf.Int("max-iterations", v.GetInt("optimizer.maxiterations"), "Iteration cap of the optimizer")
	pf.Float64("dd-factor", v.GetFloat64("optimizer.dd_factor"), "Step size decay factor of dual decomposition")
	pf.Int("workers", v.GetInt("pipeline.workers"), "Concurrent species, 0 for unlimited")
	pf.Int("max-range-length", v.GetInt("pipeline.maxrangelength"), "Longest accepted gene range in bp")
	pf.String("model", v.GetString("pressure.model"), "Cluster plausibility model: majority, phylo or combined")
	pf.String("tree", v.GetString("phylo.tree"), "Newick species tree for the phylo model")
	pf.String("log-level", v.GetString("log.level"), "Log level: debug, info, warn or error")
	pf.String("log-format", v.GetString("log.format"), "Log format: text or json")
	pf.String("metrics-textfile", v.GetString("metrics.textfile"), "Write Prometheus metrics to this file after the run")

	for name, key := range flagKeys {
		if err := v.BindPFlag(key, pf.Lookup(name)); err != nil {
			return fmt.Errorf("error binding flag %s: %w", name, err)
		}
	}
	return nil
}
