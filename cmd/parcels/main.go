// Command parcels is a thin CLI wrapper around the parcels engine: it
// loads a run configuration, builds a Grid and ParticleSet from it, and
// drives Executor.Execute to completion, writing trajectories to a
// NetCDF ParticleFile. Grid/field construction, plotting, and anything
// beyond NetCDF output are out of scope (spec §1); this command exists
// only to give the library a runnable entry point, the same ambient role
// inmap/cmd and inmaputil/cmd.go play for the teacher.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/ctessum-labs/parcels"
	"github.com/ctessum-labs/parcels/internal/cachedir"
	"github.com/ctessum-labs/parcels/kernels"
)

// config mirrors a run's TOML file, decoded with BurntSushi/toml the way
// inmaputil/cmd.go decodes InMAP's own run configuration.
type config struct {
	Stommel struct {
		Nx, Ny, Nt int
		TMax       float64
	}
	Output struct {
		Path string
	}
	Run struct {
		Method  string // "ee", "rk4", or "rk45"
		Dt      float64
		EndTime float64
	}
}

func main() {
	var cfgPath string

	root := &cobra.Command{
		Use:   "parcels",
		Short: "Run a Lagrangian particle-tracking simulation",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation described by a TOML configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cfgPath)
		},
	}
	runCmd.Flags().StringVarP(&cfgPath, "config", "c", "parcels.toml", "path to the run configuration file")
	root.AddCommand(runCmd)

	cacheCmd := &cobra.Command{Use: "cache", Short: "Inspect or clear the kernel compile cache"}
	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clean",
		Short: "Remove all compiled kernel libraries from the cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cachedir.Get()
			if err != nil {
				return err
			}
			entries, err := os.ReadDir(dir)
			if err != nil {
				return err
			}
			for _, e := range entries {
				if err := os.Remove(dir + string(os.PathSeparator) + e.Name()); err != nil {
					return err
				}
			}
			fmt.Printf("removed %d cached libraries from %s\n", len(entries), dir)
			return nil
		},
	})
	root.AddCommand(cacheCmd)

	if err := root.Execute(); err != nil {
		parcels.Logger.Fatal(err)
	}
}

func runSimulation(cfgPath string) error {
	var cfg config
	if _, err := toml.DecodeFile(cfgPath, &cfg); err != nil {
		return fmt.Errorf("parcels: loading %s: %w", cfgPath, err)
	}

	grid, err := parcels.NewStommelGyre(cfg.Stommel.Nx, cfg.Stommel.Ny, cfg.Stommel.Nt, cfg.Stommel.TMax)
	if err != nil {
		return err
	}

	ps, err := grid.ParticleSet(parcels.ParticleSetOptions{
		Lon: []float64{1.0e6},
		Lat: []float64{1.0e6},
	})
	if err != nil {
		return err
	}

	kernel, err := kernelFor(cfg.Run.Method)
	if err != nil {
		return err
	}

	pf, err := parcels.CreateParticleFile(cfg.Output.Path, ps.ParticleType(), ps.Len())
	if err != nil {
		return err
	}
	defer pf.Close()

	exec := parcels.NewExecutor(nil)
	if err := exec.Execute(context.Background(), ps, kernel, parcels.ExecuteOptions{
		Dt:      cfg.Run.Dt,
		EndTime: cfg.Run.EndTime,
	}); err != nil {
		return err
	}
	return pf.WriteStep(ps)
}

func kernelFor(method string) (*parcels.Kernel, error) {
	switch method {
	case "", "ee":
		return kernels.AdvectionEE(), nil
	case "rk4":
		return kernels.AdvectionRK4(), nil
	case "rk45":
		return kernels.NewAdvectionRK45(1e-5, 1, 3600), nil
	default:
		return nil, fmt.Errorf("parcels: unknown run.method %q (want ee, rk4, or rk45)", method)
	}
}
