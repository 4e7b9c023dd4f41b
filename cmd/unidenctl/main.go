// Copyright (C) 2024  wwhai
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License along
// with this program; if not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"io"
	"os"

	uniden "github.com/hootrhino/gouniden"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "unidenctl",
		Short:   "Read and write Uniden scanner memory as YAML documents",
		Version: version,
	}
	rootCmd.PersistentFlags().String("config", "", "TOML config file")
	rootCmd.PersistentFlags().String("port", "", "Serial port, overrides the config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace|debug|info|warning|error|none")

	pullCmd := &cobra.Command{
		Use:   "pull",
		Short: "Read scanner memory and write it as a document",
		RunE:  runPull,
	}
	pullCmd.Flags().StringP("out", "o", "", "Output file (default stdout)")
	pullCmd.Flags().String("what", "scan", "Document: scan|settings|search")

	pushCmd := &cobra.Command{
		Use:   "push <file>",
		Short: "Load a document and write it to the scanner",
		Args:  cobra.ExactArgs(1),
		RunE:  runPush,
	}
	pushCmd.Flags().String("what", "scan", "Document: scan|settings|search")

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Show model, firmware and memory usage",
		RunE:  runInfo,
	}

	rootCmd.AddCommand(pullCmd, pushCmd, infoCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openScanner(cmd *cobra.Command) (*uniden.Scanner, error) {
	cfg := uniden.DefaultConfig()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := uniden.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
		cfg.Address = ""
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	return uniden.Open(cfg)
}

func runPull(cmd *cobra.Command, args []string) error {
	what, _ := cmd.Flags().GetString("what")
	outPath, _ := cmd.Flags().GetString("out")
	sc, err := openScanner(cmd)
	if err != nil {
		return err
	}
	defer sc.Close()

	var out io.Writer = cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	switch what {
	case "scan":
		if err := sc.PullAll(); err != nil {
			return err
		}
		return sc.ExportDocument(out)
	case "settings":
		if err := sc.PullSettings(); err != nil {
			return err
		}
		return sc.ExportSettings(out)
	case "search":
		if err := sc.PullSearch(); err != nil {
			return err
		}
		return sc.ExportSearch(out)
	}
	return fmt.Errorf("unknown document %q", what)
}

func runPush(cmd *cobra.Command, args []string) error {
	what, _ := cmd.Flags().GetString("what")
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	sc, err := openScanner(cmd)
	if err != nil {
		return err
	}
	defer sc.Close()

	switch what {
	case "scan":
		if err := sc.ImportDocument(f); err != nil {
			return err
		}
		return sc.PushAll()
	case "settings":
		if err := sc.ImportSettings(f); err != nil {
			return err
		}
		return sc.PushSettings()
	case "search":
		if err := sc.ImportSearch(f); err != nil {
			return err
		}
		return sc.PushSearch()
	}
	return fmt.Errorf("unknown document %q", what)
}

func runInfo(cmd *cobra.Command, args []string) error {
	sc, err := openScanner(cmd)
	if err != nil {
		return err
	}
	defer sc.Close()

	model, err := sc.Model()
	if err != nil {
		return err
	}
	ver, err := sc.Version()
	if err != nil {
		return err
	}
	mem, err := sc.MemoryUsage()
	if err != nil {
		return err
	}
	free, err := sc.FreeMemoryBlocks()
	if err != nil {
		return err
	}
	volts, err := sc.BatteryVoltage()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "model:     %s\n", model)
	fmt.Fprintf(out, "firmware:  %s\n", ver)
	fmt.Fprintf(out, "memory:    %d%% used, %d free blocks\n", mem.PercentUsed, free)
	fmt.Fprintf(out, "systems:   %d\n", mem.Systems)
	fmt.Fprintf(out, "sites:     %d\n", mem.Sites)
	fmt.Fprintf(out, "channels:  %d\n", mem.Channels)
	fmt.Fprintf(out, "locations: %d\n", mem.Locations)
	fmt.Fprintf(out, "battery:   %.2f V\n", volts)
	return nil
}
