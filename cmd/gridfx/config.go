package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/gridfx"
	"github.com/gogpu/gridfx/quality"
)

var (
	configRecommend bool
	configOut       string
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "print or write a configuration file",
		Long: `Config prints the resolved configuration as YAML. Combine with
--preset or --config to start from an existing one, and --out to write it.`,
		RunE: runConfig,
	}
	cmd.Flags().BoolVar(&configRecommend, "recommend", false, "set quality from the host hardware")
	cmd.Flags().StringVarP(&configOut, "out", "o", "", "write to file instead of stdout")
	cmd.AddCommand(&cobra.Command{
		Use:   "host",
		Short: "show the probed host and recommended quality",
		RunE: func(cmd *cobra.Command, args []string) error {
			h := quality.ProbeHost()
			fmt.Fprintf(cmd.OutOrStdout(), "arch: %s\ncpus: %d\nmemory: %.1f GiB\nrecommended quality: %s\n",
				h.Arch, h.LogicalCPUs, float64(h.MemoryBytes)/(1<<30), quality.RecommendFor(h))
			return nil
		},
	})
	return cmd
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if configRecommend {
		cfg.Quality = quality.Recommend().String()
	}
	if configOut != "" {
		if err := gridfx.Save(configOut, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", configOut)
		return nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
