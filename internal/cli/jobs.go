package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/i474232898/airquality-figures/internal/config"
)

var jobsFile string

// jobsCmd represents the jobs command
var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Run the report jobs of the jobs file",
	Long:  `Commands for listing and running the report jobs defined in the YAML jobs file.`,
}

// jobsListCmd represents the jobs list command
var jobsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List configured jobs",
	Args:    cobra.NoArgs,
	Run:     runJobsList,
}

// jobsRunCmd represents the jobs run command
var jobsRunCmd = &cobra.Command{
	Use:   "run [name...]",
	Short: "Run configured jobs, all of them when no name is given",
	Long: `Run report jobs once, in file order. A failing job is reported and the
remaining jobs still run; the command exits with status 1 if any failed.

Examples:
  airquality-figures jobs run
  airquality-figures jobs run o3-juillet --jobs reports.yaml`,
	Run: runJobsRun,
}

func loadJobs(cfg *config.AppConfig) []config.Job {
	path := jobsPath(cfg)
	jobs, err := config.LoadJobs(path)
	if err != nil {
		fail("failed to load jobs", err)
	}
	logger.Debug("jobs loaded", "path", path, "count", len(jobs))
	return jobs
}

func runJobsList(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		fail("failed to load config", err)
	}
	setupLogger(cfg)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tEVERY\tFIGURE")
	for _, job := range loadJobs(cfg) {
		every := job.Every
		if every == "" {
			every = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", job.Name, job.Kind, every, job.FigureName())
	}
	if err := tw.Flush(); err != nil {
		fail("failed to write jobs", err)
	}
}

func runJobsRun(cmd *cobra.Command, args []string) {
	a := initializeApp()
	defer a.close()

	jobs := loadJobs(a.cfg)
	if len(args) > 0 {
		selected := make([]config.Job, 0, len(args))
		for _, name := range args {
			job, err := config.FindJob(jobs, name)
			if err != nil {
				a.close()
				fail("failed to select job", err)
			}
			selected = append(selected, job)
		}
		jobs = selected
	}

	failed := 0
	for _, job := range jobs {
		out, err := a.runner.Run(cmd.Context(), job)
		if err != nil {
			logger.Error("job failed", "job", job.Name, "error", err)
			failed++
			continue
		}
		printOutput(cmd, out)
	}
	if failed > 0 {
		a.close()
		fmt.Fprintf(os.Stderr, "Error: %d of %d job(s) failed\n", failed, len(jobs))
		os.Exit(1)
	}
}

func init() {
	jobsCmd.PersistentFlags().StringVar(&jobsFile, "jobs", "", "Jobs file (defaults to JOBS_FILE)")
	jobsCmd.AddCommand(jobsListCmd, jobsRunCmd)
}
