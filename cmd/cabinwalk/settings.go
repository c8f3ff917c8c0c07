package main

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teslashibe/go-cabinwalk/internal/config"
	"github.com/teslashibe/go-cabinwalk/internal/httpc"
	"github.com/teslashibe/go-cabinwalk/pkg/settings"
)

func newSettingsCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and change settings",
	}

	dump := &cobra.Command{
		Use:   "dump",
		Short: "Print the effective settings as YAML",
		Long: `Print the settings file merged with defaults and CABINWALK_* overrides.
With --write the result is saved back to the settings file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := settings.Load(g.config)
			if err != nil {
				return err
			}
			if write, _ := cmd.Flags().GetBool("write"); write {
				if err := store.Save(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", store.Path())
			}
			return settings.Dump(cmd.OutOrStdout(), store.Current())
		},
	}
	dump.Flags().Bool("write", false, "also write the file")

	get := &cobra.Command{
		Use:   "get [key]",
		Short: "Read settings from a running server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var flat map[string]any
			if err := httpc.GetJSON(cmd.Context(), config.BaseURL(g.addr)+"/api/settings", &flat); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(args) == 1 {
				v, ok := flat[args[0]]
				if !ok {
					return fmt.Errorf("%w: %s", settings.ErrUnknownKey, args[0])
				}
				fmt.Fprintln(w, v)
				return nil
			}
			keys := make([]string, 0, len(flat))
			for k := range flat {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(w, "%s = %v\n", k, flat[k])
			}
			return nil
		},
	}

	set := &cobra.Command{
		Use:     "set <key> <value>",
		Short:   "Override one setting on a running server",
		Example: "  cabinwalk settings set positions.sofa_lie.enabled false",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseScalar(args[1])
			if err != nil {
				return err
			}
			var out struct {
				Changed []string `json:"changed"`
			}
			body := map[string]any{"key": args[0], "value": value}
			if err := httpc.SendJSON(cmd.Context(), http.MethodPut, config.BaseURL(g.addr)+"/api/settings", body, &out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "changed: %v\n", out.Changed)
			return nil
		},
	}

	cmd.AddCommand(dump, get, set)
	return cmd
}

// parseScalar reads a command-line value the way the settings file would,
// so "false", "0.25" and "450ms" keep their types.
func parseScalar(s string) (any, error) {
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("parse value %q: %w", s, err)
	}
	if v == nil {
		return s, nil
	}
	return v, nil
}
