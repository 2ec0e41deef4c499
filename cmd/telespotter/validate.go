package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/telespotter/internal/model"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [phone-number]",
		Short: "Parse and describe a phone number without searching",
		Long: `Validate parses phone numbers and prints what a search session would
derive from them: normalized forms, country, area-code location, a
line-type guess, and the query format variants.

Examples:
  telespotter validate 555-123-4567
  telespotter validate "+1 (212) 555-0187" 5551234567`,
		Args: cobra.ArbitraryArgs,
		RunE: runValidateCmd,
	}
}

// runValidateCmd executes the validate command.
func runValidateCmd(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.New("no phone numbers provided (specify one or more as arguments)")
	}

	var invalid int
	for i, arg := range args {
		if i > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
		}

		phone, err := model.NewPhoneNumber(arg)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: invalid (%v)\n", arg, err)
			invalid++
			continue
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: valid\n", arg)
		fmt.Fprintf(out, "  E.164:    %s\n", phone.E164())
		fmt.Fprintf(out, "  Display:  %s\n", phone.Display())
		fmt.Fprintf(out, "  Country:  %s (+%s)\n", phone.Country(), phone.CountryCode())
		if phone.IsNANP() {
			fmt.Fprintf(out, "  Area:     %s", phone.AreaCode())
			if loc := phone.Location(); loc != "" {
				fmt.Fprintf(out, " (%s)", loc)
			}
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "  Line:     %s\n", phone.LineType())
		fmt.Fprintf(out, "  Variants: %s\n", strings.Join(phone.FormatVariants(), ", "))
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d numbers invalid", invalid, len(args))
	}
	return nil
}
