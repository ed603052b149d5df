package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/i474232898/airquality-figures/internal/measures"
	"github.com/i474232898/airquality-figures/internal/referential"
)

var stationsOpts struct {
	network string
	codes   []string
	json    bool
}

// stationsCmd represents the stations command
var stationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "List measurement codes with their station",
	Long: `List the measurement codes of a network, or describe given codes.

Examples:
  airquality-figures stations --network OZONE
  airquality-figures stations --codes O3_GAR,O3_MER --json`,
	Args: cobra.NoArgs,
	Run:  runStations,
}

func runStations(cmd *cobra.Command, args []string) {
	if stationsOpts.network == "" && len(stationsOpts.codes) == 0 {
		fmt.Fprintln(os.Stderr, "Error: --network or --codes is required")
		os.Exit(1)
	}

	a := initializeApp()
	defer a.close()

	infos, err := a.service.ListMeasures(cmd.Context(), measures.Filter{
		Network: stationsOpts.network,
		Codes:   stationsOpts.codes,
	})
	if err != nil {
		a.close()
		fail("failed to list measures", err)
	}
	logger.Debug("measures listed", "count", len(infos))

	if stationsOpts.json {
		output, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			fail("failed to format response", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(output))
		return
	}
	if err := writeStations(cmd.OutOrStdout(), a.builder.Referential(), infos); err != nil {
		fail("failed to write stations", err)
	}
}

func writeStations(w io.Writer, ref *referential.Referential, infos []measures.MeasureInfo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tSTATION\tNAME\tPOLLUTANT\tNETWORK\tTYPOLOGY")
	for _, info := range infos {
		name, err := ref.StationName(info.Station)
		if err != nil {
			name = "-"
		}
		typology := "-"
		if t, ok := ref.Classify(info.Code); ok {
			typology = string(t.ID)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", info.Code, info.Station, name, info.Pollutant, info.Network, typology)
	}
	return tw.Flush()
}

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the classification tables",
	Long: `Check that every code of every pollutant group belongs to exactly one
station typology. Exits with status 1 when an issue is found.`,
	Args: cobra.NoArgs,
	Run:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) {
	issues := referential.Default().Check()
	if len(issues) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "referential is consistent")
		return
	}
	for _, issue := range issues {
		fmt.Fprintln(cmd.OutOrStdout(), issue.String())
	}
	fmt.Fprintf(os.Stderr, "Error: %d referential issue(s)\n", len(issues))
	os.Exit(1)
}

func init() {
	f := stationsCmd.Flags()
	f.StringVarP(&stationsOpts.network, "network", "n", "", "Network name")
	f.StringSliceVarP(&stationsOpts.codes, "codes", "c", nil, "Measurement codes")
	f.BoolVar(&stationsOpts.json, "json", false, "Output as JSON")
}
