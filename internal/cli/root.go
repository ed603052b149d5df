package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/i474232898/airquality-figures/internal/config"
	"github.com/i474232898/airquality-figures/internal/logging"
)

var (
	verbose bool
	offline bool
	outDir  string
	logger  *slog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "airquality-figures",
	Short: "Air quality and weather charts",
	Long: `Draws air quality and weather charts from the measurement database.

Measures charts plot pollutant series per station, history charts plot one
annual curve per station typology and meteo charts plot the parameters of a
weather station. Charts are written as PNG files, optionally along with an
xlsx export of the plotted data.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "Read measurements from the archive instead of the remote sources")
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o", "", "Figures directory (defaults to FIGURES_DIR)")

	rootCmd.AddCommand(measuresCmd, historyCmd, meteoCmd)
	rootCmd.AddCommand(stationsCmd, checkCmd)
	rootCmd.AddCommand(jobsCmd, serveCmd)
}

// setupLogger configures the logger from the configuration and the verbose flag
func setupLogger(cfg *config.AppConfig) {
	level := logging.ParseLevel(cfg.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}

	logger = logging.New(os.Stderr, cfg.Env, level)
	slog.SetDefault(logger)
}

// fail reports err and exits with status 1.
func fail(msg string, err error) {
	if logger != nil {
		logger.Error(msg, "error", err)
	}
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	os.Exit(1)
}
