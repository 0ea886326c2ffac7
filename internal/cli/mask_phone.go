package cli

import (
	"io"

	"github.com/agrotalent/talent-hub/internal/intake"
	"github.com/spf13/cobra"
)

// NewMaskPhoneCommand creates the mask-phone command.
func NewMaskPhoneCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mask-phone <raw>",
		Short: "Format a Brazilian phone number the way the forms display it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			masked := intake.MaskPhone(args[0])
			out := map[string]string{"masked": masked, "digits": intake.UnmaskPhone(masked)}
			return formatterFor(rootOpts, cmd.OutOrStdout()).Print(out, func(w io.Writer) error {
				fprintf(w, "%s\n", masked)
				return nil
			})
		},
	}
}
