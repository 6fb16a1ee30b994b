// Command asm24 assembles one or more ".as" source files for the
// 24-bit-word machine into ".ob"/".ent"/".ext" output files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neta767/asm24/assemble"
	"github.com/neta767/asm24/config"
	"github.com/neta767/asm24/xref"
)

func main() {
	var (
		configPath  string
		dumpSymbols bool
		quiet       bool
	)

	rootCmd := &cobra.Command{
		Use:   "asm24 [file ...]",
		Short: "Two-pass assembler for the 24-bit-word machine",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if configPath != "" {
				loaded, err := config.LoadFrom(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			cfg.Apply()

			failures := 0
			for _, name := range args {
				outcome := assemble.Run(name)
				if !quiet {
					for _, line := range outcome.Errors.Strings() {
						fmt.Fprintln(os.Stderr, line)
					}
					for _, line := range outcome.Warnings {
						fmt.Fprintln(os.Stderr, line)
					}
				}
				if !outcome.OK {
					failures++
					continue
				}
				if dumpSymbols {
					fmt.Printf("-- %s --\n", name)
					if err := xref.Dump(os.Stdout, outcome.Symbols); err != nil {
						return err
					}
				}
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d file(s) failed to assemble", failures, len(args))
			}
			return nil
		},
	}

	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file overriding the assembler's constants")
	rootCmd.Flags().BoolVar(&dumpSymbols, "dump-symbols", false, "print each file's resolved symbol table after assembling")
	rootCmd.Flags().BoolVar(&quiet, "quiet", false, "suppress error and warning output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
