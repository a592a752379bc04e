package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bh3ky/themambacode/pkg/halftone"
	"github.com/Bh3ky/themambacode/pkg/preset"
	"github.com/Bh3ky/themambacode/pkg/theme"
)

// newStylesCmd creates the styles command listing everything selectable.
func newStylesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List placement styles, presets, and color themes",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(StyleTitle.Render("Placement styles"))
			for _, s := range []string{halftone.StyleClassic, halftone.StyleRadial, halftone.StyleFlowField} {
				printDetail("%s", s)
			}
			printNewline()

			fmt.Println(StyleTitle.Render("Presets"))
			for _, name := range preset.Names() {
				p, err := preset.Lookup(name)
				if err != nil {
					continue
				}
				printDetail("%-14s cell %2d  radius %4.1f  gamma %.2f", name, p.CellSize, p.MaxRadius, p.Gamma)
			}
			printNewline()

			fmt.Println(StyleTitle.Render("Themes"))
			for _, name := range theme.Names() {
				printDetail("%s", name)
			}
			printNewline()

			printNextStep("Try one", "themambacode render kobe.jpg -p bold_dots -t lakers_gold")
			return nil
		},
	}
}
