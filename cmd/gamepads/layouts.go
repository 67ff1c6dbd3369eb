package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/phinze/gamepads/internal/pad"
)

var layoutsCmd = &cobra.Command{
	Use:   "layouts",
	Short: "List the controller layouts and button pads",
	RunE:  runLayouts,
}

func runLayouts(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "LAYOUT\tSTICKS\tSWIPE PADS\tBUTTONS")
	for _, l := range pad.Layouts() {
		p, err := pad.New(l, pad.Options{ButtonPad: pad.ThreeFan})
		if err != nil {
			return err
		}
		buttons := "-"
		if l.UsesButtons() {
			buttons = "button pad"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", l, len(p.Sticks), len(p.Gestures), buttons)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "BUTTON PAD\tBUTTONS")
	for _, bp := range pad.ButtonPads() {
		fmt.Fprintf(w, "%s\t%d\n", bp, bp.Count())
	}
	return w.Flush()
}
