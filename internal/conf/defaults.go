package conf

import "github.com/spf13/viper"

// setDefaultConfig registers the default of every key.
func setDefaultConfig(v *viper.Viper) {
	v.SetDefault("optimizer.strategy", "local-move")
	v.SetDefault("optimizer.maxiterations", 100)
	v.SetDefault("optimizer.dd_factor", 15.0)
	v.SetDefault("optimizer.stepsize", 1.0)

	v.SetDefault("graph.minintronlength", 20)
	v.SetDefault("graph.transitionweight", 0.01)

	v.SetDefault("pipeline.maxrangelength", 1_000_000)
	v.SetDefault("pipeline.workers", 0)

	v.SetDefault("pressure.omegaweight", 1.0)
	v.SetDefault("pressure.orphanpenalty", 0.0)
	v.SetDefault("pressure.model", "majority")

	v.SetDefault("phylo.tree", "")
	v.SetDefault("phylo.loss", 0.0001)
	v.SetDefault("phylo.gain", 0.000001)
	v.SetDefault("phylo.factor", 1.0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("metrics.textfile", "")
}
