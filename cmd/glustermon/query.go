package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"glustermon/pkg/models"
)

func peersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "peers <ip>",
		Short: "List the trusted storage pool of a gluster server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}

			peers, err := a.service.GetPeers(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), peers)
			}
			fmt.Fprintln(cmd.OutOrStdout(), peersTable(peers))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print JSON instead of a table")
	return cmd
}

func volumeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "volume <ip> <volume>",
		Short: "Show the configuration of a gluster volume",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}

			info, err := a.service.GetVolumeInfo(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), info)
			}
			fmt.Fprintln(cmd.OutOrStdout(), volumeTable(info))
			fmt.Fprintln(cmd.OutOrStdout(), bricksTable(info.Bricks))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print JSON instead of tables")
	return cmd
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func peersTable(peers []models.Peer) string {
	t := newTable("HOSTNAME", "UUID", "STATE", "MAC")
	for _, p := range peers {
		t.Row(p.Hostname, p.UUID, p.State, orNA(p.MAC))
	}
	return t.Render()
}

func volumeTable(info *models.VolumeInfo) string {
	keys := make([]string, 0, len(info.Fields))
	for key := range info.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	t := newTable("KEY", "VALUE")
	for _, key := range keys {
		t.Row(key, info.Fields[key])
	}
	return t.Render()
}

func bricksTable(bricks []models.Brick) string {
	t := newTable("#", "BRICK", "MAC")
	for i, b := range bricks {
		t.Row(fmt.Sprint(i+1), b.Config, orNA(b.MAC))
	}
	return t.Render()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
