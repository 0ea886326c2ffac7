package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/agrotalent/talent-hub/internal/intake"
	"github.com/agrotalent/talent-hub/shared/kvstore"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// formFlags mirrors the fields of the intake forms. Only flags the user set
// count as edits; everything else comes from recall or auto-fill.
type formFlags struct {
	name       string
	email      string
	phone      string
	region     string
	category   string
	seniority  string
	experience string
	resume     string
	consent    bool
}

func (f *formFlags) register(fs *pflag.FlagSet, withExperience bool) {
	fs.StringVar(&f.name, "name", "", "full name")
	fs.StringVar(&f.email, "email", "", "email address")
	fs.StringVar(&f.phone, "phone", "", "phone with area code")
	fs.StringVar(&f.region, "region", "", "state or region")
	fs.StringVar(&f.category, "category", "", "professional area")
	fs.StringVar(&f.seniority, "seniority", "", "seniority level")
	if withExperience {
		fs.StringVar(&f.experience, "experience", "", "short description of your experience")
	}
	fs.StringVar(&f.resume, "resume", "", "path to the resume file")
	fs.BoolVar(&f.consent, "consent", false, "accept the data processing terms")
}

// SubmissionResult is what register and apply print on success
type SubmissionResult struct {
	ID         string         `json:"id"`
	Status     string         `json:"status"`
	JobID      string         `json:"job_id,omitempty"`
	Autofilled bool           `json:"autofilled"`
	Recalled   bool           `json:"recalled"`
	Profile    intake.Profile `json:"profile"`
}

// NewRegisterCommand creates the register command.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &formFlags{}

	cmd := &cobra.Command{
		Use:          "register",
		Short:        "Join the general talent pool",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForm(cmd, rootOpts, flags, intake.PoolRegistration, "")
		},
	}
	flags.register(cmd.Flags(), true)

	return cmd
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &formFlags{}

	cmd := &cobra.Command{
		Use:          "apply <job-id>",
		Short:        "Apply to a job posting",
		Long:         "Apply to a job posting. Without --resume the resume on file for your email is reused.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForm(cmd, rootOpts, flags, intake.JobApplication, args[0])
		},
	}
	flags.register(cmd.Flags(), false)

	return cmd
}

func runForm(cmd *cobra.Command, opts *RootOptions, flags *formFlags, policy intake.Policy, jobID string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := newLogger(opts, cmd)

	c, err := newClient(opts, logger)
	if err != nil {
		return err
	}

	var recall *intake.Recall
	if opts.RecallPath != "" {
		kv, err := kvstore.Open(ctx, opts.RecallPath)
		if err != nil {
			logger.Warn("Recall cache unavailable", slog.String("error", err.Error()))
		} else {
			defer kv.Close()
			recall = intake.NewRecall(kv, logger)
		}
	}

	session := intake.NewSession(&intake.SessionConfig{
		Policy:    policy,
		JobID:     jobID,
		Finder:    c,
		Submitter: c,
		Recall:    recall,
		Logger:    logger,
	})

	recalled := session.Mount(ctx)

	fs := cmd.Flags()
	var blur intake.BlurResult
	if fs.Changed("email") {
		session.Set(intake.FieldEmail, flags.email)
		blur = session.BlurEmail(ctx)
	}

	edits := []struct {
		flag  string
		field intake.Field
		value string
	}{
		{"name", intake.FieldName, flags.name},
		{"phone", intake.FieldPhone, flags.phone},
		{"region", intake.FieldRegion, flags.region},
		{"category", intake.FieldCategory, flags.category},
		{"seniority", intake.FieldSeniority, flags.seniority},
		{"experience", intake.FieldExperience, flags.experience},
	}
	for _, e := range edits {
		if fs.Changed(e.flag) {
			session.Set(e.field, e.value)
		}
	}

	if flags.resume != "" {
		data, err := os.ReadFile(flags.resume)
		if err != nil {
			return fmt.Errorf("failed to read resume: %w", err)
		}
		session.AttachResume(&intake.ResumeFile{Filename: filepath.Base(flags.resume), Data: data})
	}
	session.SetConsent(flags.consent)

	if blur.Autofilled {
		fprintf(cmd.ErrOrStderr(), "Filled in your previous answers for %s.\n", intake.NormalizeEmail(flags.email))
	}

	cand, err := session.Submit(ctx)
	if err != nil {
		return err
	}

	result := SubmissionResult{
		ID:         cand.ID,
		Status:     cand.Status,
		Autofilled: blur.Autofilled,
		Recalled:   recalled,
		Profile:    session.Form(),
	}
	if cand.JobID != nil {
		result.JobID = *cand.JobID
	}

	return formatterFor(opts, cmd.OutOrStdout()).Print(result, func(w io.Writer) error {
		if result.JobID != "" {
			fprintf(w, "Application %s sent for job %s (status %s).\n", result.ID, result.JobID, result.Status)
		} else {
			fprintf(w, "Registered in the talent pool as %s (status %s).\n", result.ID, result.Status)
		}
		return nil
	})
}
