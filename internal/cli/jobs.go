package cli

import (
	"io"
	"text/tabwriter"

	"github.com/agrotalent/talent-hub/internal/api/dto"
	"github.com/spf13/cobra"
)

// NewJobsCommand creates the jobs command.
func NewJobsCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		pageSize int
		cursor   string
	)

	cmd := &cobra.Command{
		Use:          "jobs",
		Short:        "List public job postings",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(rootOpts, newLogger(rootOpts, cmd))
			if err != nil {
				return err
			}

			res, err := c.ListJobs(cmd.Context(), pageSize, cursor)
			if err != nil {
				return err
			}

			return formatterFor(rootOpts, cmd.OutOrStdout()).Print(res, func(w io.Writer) error {
				return printJobs(w, res)
			})
		},
	}

	cmd.Flags().IntVar(&pageSize, "page-size", 20, "jobs per page")
	cmd.Flags().StringVar(&cursor, "cursor", "", "cursor returned by a previous page")

	return cmd
}

func printJobs(w io.Writer, res *dto.ListJobsResponse) error {
	if len(res.Jobs) == 0 {
		fprintf(w, "No open jobs.\n")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fprintf(tw, "ID\tTITLE\tCOMPANY\tLOCATION\tTYPE\tWHATSAPP\n")
	for _, j := range res.Jobs {
		fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", j.ID, j.Title, j.Company, j.Location, j.Type, j.WhatsAppURL)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if res.NextCursor != "" {
		fprintf(w, "\nMore jobs: --cursor %s\n", res.NextCursor)
	}
	return nil
}
