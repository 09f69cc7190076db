package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mindscape-city/mindscape/internal/daemon"
)

func init() {
	cityCmd.AddCommand(cityPlaceCmd)
	rootCmd.AddCommand(cityCmd)
}

var cityCmd = &cobra.Command{
	Use:   "city",
	Short: "Show the city: placed items, inventory, and residents",
	RunE:  runCity,
}

var cityPlaceCmd = &cobra.Command{
	Use:   "place <item-id> <x> <y> <z>",
	Short: "Place an inventory item in the city",
	Args:  cobra.ExactArgs(4),
	RunE:  runCityPlace,
}

func runCity(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	view, err := d.Scene.Build()
	if err != nil {
		return err
	}

	fmt.Printf("Season: %s\n\n", view.Season)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tITEM\tTYPE\tRARITY\tPLACED")
	for _, item := range append(view.Placed, view.Inventory...) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n",
			item.ID, item.ItemName, item.ItemType, item.Rarity, item.IsPlaced)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\nResidents:")
	for _, npc := range view.NPCs {
		fmt.Printf("  %s (%s): %s\n", npc.Name, npc.Type, npc.Greeting)
	}
	return nil
}

func runCityPlace(cmd *cobra.Command, args []string) error {
	coords := make([]float64, 3)
	for i, s := range args[1:] {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid coordinate %q: %w", s, err)
		}
		coords[i] = v
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	item, err := d.Scene.PlaceItem(args[0], coords[0], coords[1], coords[2])
	if err != nil {
		return err
	}
	fmt.Printf("Placed %s at (%.1f, %.1f, %.1f)\n", item.ItemName, coords[0], coords[1], coords[2])
	return nil
}
