package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/scenekit/scenekit/internal/component"
	"github.com/scenekit/scenekit/internal/config"
	"github.com/scenekit/scenekit/internal/core/ecs"
	"github.com/scenekit/scenekit/internal/data"
	"github.com/spf13/cobra"
)

func newArchetypesCmd(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "archetypes",
		Short: "List the archetype table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			types := ecs.NewComponentTypes()
			component.Register(types)
			table, err := data.LoadArchetypeTable(cfg.Data.Archetypes, types)
			if err != nil {
				return err
			}
			printArchetypes(cmd.OutOrStdout(), table)
			return nil
		},
	}
}

func printArchetypes(w io.Writer, table *data.ArchetypeTable) {
	nameCol, prefabCol := len("NAME"), len("PREFAB")
	for _, n := range table.Names() {
		e := table.Get(n)
		nameCol = max(nameCol, displayWidth(e.Name))
		prefabCol = max(prefabCol, displayWidth(e.Prefab))
	}
	fmt.Fprintf(w, "%s  %s  %s\n", padRight("NAME", nameCol), padRight("PREFAB", prefabCol), "TAGS")
	for _, n := range table.Names() {
		e := table.Get(n)
		prefab := e.Prefab
		if prefab == "" {
			prefab = "-"
		}
		fmt.Fprintf(w, "%s  %s  %s\n", padRight(e.Name, nameCol), padRight(prefab, prefabCol), strings.Join(e.Tags, ","))
	}
}
