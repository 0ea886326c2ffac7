package cli

import (
	"errors"
	"io"

	"github.com/agrotalent/talent-hub/internal/intake"
	"github.com/spf13/cobra"
)

// NewLookupCommand creates the lookup command.
func NewLookupCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "lookup <email>",
		Short:        "Show the profile last submitted with an email",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(rootOpts, newLogger(rootOpts, cmd))
			if err != nil {
				return err
			}

			res, err := c.Lookup(cmd.Context(), args[0])
			if errors.Is(err, intake.ErrNotFound) {
				fprintf(cmd.OutOrStdout(), "No profile found for %s.\n", args[0])
				return nil
			}
			if err != nil {
				return err
			}

			return formatterFor(rootOpts, cmd.OutOrStdout()).Print(res, func(w io.Writer) error {
				printProfile(w, res.Profile)
				if res.ResumeOnFile {
					fprintf(w, "Resume:     on file\n")
				}
				return nil
			})
		},
	}
}

func printProfile(w io.Writer, p intake.Profile) {
	fprintf(w, "Name:       %s\n", p.Name)
	fprintf(w, "Email:      %s\n", p.Email)
	fprintf(w, "Phone:      %s\n", p.Phone)
	fprintf(w, "Region:     %s\n", p.Region)
	fprintf(w, "Area:       %s\n", p.Category)
	fprintf(w, "Seniority:  %s\n", p.Seniority)
	if p.Experience != "" {
		fprintf(w, "Experience: %s\n", p.Experience)
	}
}
