package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/i474232898/airquality-figures/internal/config"
	"github.com/i474232898/airquality-figures/internal/report"
)

var errBadGroup = errors.New("group must read POLLUTANT=CODE[,CODE...] or POLLUTANT@NETWORK")

// figureOptions are the flags shared by the figure commands.
type figureOptions struct {
	figure        string
	size          string
	from          string
	to            string
	period        string
	thresholds    []string
	ymax          float64
	markerSize    float64
	legendColumns int
	stats         bool
	export        bool
}

func (o *figureOptions) register(cmd *cobra.Command, window bool) {
	f := cmd.Flags()
	f.StringVarP(&o.figure, "figure", "f", "", "Output file name, without extension")
	f.StringVarP(&o.size, "size", "s", "", "Figure size: L or S")
	f.StringSliceVarP(&o.thresholds, "thresholds", "t", nil, "Threshold overlays: ALERT, VL, OQ, OMS")
	f.Float64Var(&o.ymax, "ymax", 0, "Force the y axis ceiling")
	f.Float64Var(&o.markerSize, "marker-size", 0, "Marker size in points")
	f.IntVar(&o.legendColumns, "legend-columns", 0, "Number of legend columns")
	f.BoolVar(&o.stats, "stats", false, "Print statistics of the plotted series")
	f.BoolVar(&o.export, "export", false, "Write the plotted data to an xlsx file")
	if window {
		f.StringVar(&o.from, "from", "", "First day (2015-07-01, 01/07/2015...)")
		f.StringVar(&o.to, "to", "", "Last day, inclusive (defaults to --from)")
		f.StringVar(&o.period, "period", "", "Relative period: previous-day, previous-month, previous-year, current-month")
	}
}

func (o *figureOptions) job(name, kind string) config.Job {
	if o.figure != "" {
		name = o.figure
	}
	return config.Job{
		Name:          name,
		Kind:          kind,
		Size:          o.size,
		From:          o.from,
		To:            o.to,
		Period:        o.period,
		Thresholds:    o.thresholds,
		YMax:          o.ymax,
		MarkerSize:    o.markerSize,
		LegendColumns: o.legendColumns,
		Stats:         o.stats,
		Export:        o.export,
	}
}

var measuresOpts struct {
	figureOptions
	groups     []string
	frequency  string
	rolling    int
	validRatio float64
	dailyMax   bool
	annualMax  bool
}

// measuresCmd represents the measures command
var measuresCmd = &cobra.Command{
	Use:     "measures",
	Aliases: []string{"ma"},
	Short:   "Chart pollutant measurements per station",
	Long: `Chart pollutant measurements per station, raw or aggregated.

Examples:
  airquality-figures measures -g O3@OZONE --from 2015-07-01 --to 2015-07-31 --rolling 8 --daily-max -t VL
  airquality-figures measures -g NO2=NO2_PRE,NO2_AIN --period previous-month -t ALERT`,
	Args: cobra.NoArgs,
	Run:  runMeasures,
}

func runMeasures(cmd *cobra.Command, args []string) {
	job, err := measuresJob()
	if err != nil {
		fail("invalid measures options", err)
	}
	runJob(cmd, job)
}

func measuresJob() (config.Job, error) {
	if len(measuresOpts.groups) == 0 {
		return config.Job{}, fmt.Errorf("at least one --group is required")
	}
	var (
		groups     []config.JobGroup
		pollutants []string
	)
	for _, raw := range measuresOpts.groups {
		g, err := parseGroup(raw)
		if err != nil {
			return config.Job{}, err
		}
		groups = append(groups, g)
		pollutants = append(pollutants, g.Pollutant)
	}

	job := measuresOpts.job("ma_"+strings.Join(pollutants, "_"), config.KindMeasures)
	job.Groups = groups
	job.Frequency = measuresOpts.frequency
	job.Rolling = measuresOpts.rolling
	job.ValidRatio = measuresOpts.validRatio
	job.DailyMax = measuresOpts.dailyMax
	job.AnnualMax = measuresOpts.annualMax
	return job, nil
}

// parseGroup reads POLLUTANT=CODE,CODE or POLLUTANT@NETWORK.
func parseGroup(raw string) (config.JobGroup, error) {
	if pollutant, network, ok := strings.Cut(raw, "@"); ok {
		pollutant, network = strings.TrimSpace(pollutant), strings.TrimSpace(network)
		if pollutant == "" || network == "" {
			return config.JobGroup{}, fmt.Errorf("%w: %q", errBadGroup, raw)
		}
		return config.JobGroup{Pollutant: strings.ToUpper(pollutant), Network: network}, nil
	}

	pollutant, list, ok := strings.Cut(raw, "=")
	if !ok || strings.TrimSpace(pollutant) == "" {
		return config.JobGroup{}, fmt.Errorf("%w: %q", errBadGroup, raw)
	}
	var codes []string
	for _, code := range strings.Split(list, ",") {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		return config.JobGroup{}, fmt.Errorf("%w: %q", errBadGroup, raw)
	}
	return config.JobGroup{Pollutant: strings.ToUpper(strings.TrimSpace(pollutant)), Codes: codes}, nil
}

var historyOpts struct {
	figureOptions
	year  int
	since int
}

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:     "history <pollutant>",
	Aliases: []string{"typo"},
	Short:   "Chart the annual history of a pollutant per station typology",
	Long: `Chart one annual curve per station typology, from the first year the
typology measured the pollutant up to --year (the previous year by default).

Examples:
  airquality-figures history NO2 -t VL,OMS
  airquality-figures history PM10 --year 2015 --since 2000`,
	Args: cobra.ExactArgs(1),
	Run:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) {
	runJob(cmd, historyJob(args[0]))
}

func historyJob(pollutant string) config.Job {
	pollutant = strings.ToUpper(pollutant)
	job := historyOpts.job("typo_"+pollutant, config.KindHistory)
	job.Pollutant = pollutant
	job.Year = historyOpts.year
	job.Since = historyOpts.since
	return job
}

var meteoOpts struct {
	figureOptions
	station    string
	parameters []string
	cumulative bool
}

// meteoCmd represents the meteo command
var meteoCmd = &cobra.Command{
	Use:     "meteo",
	Aliases: []string{"mf"},
	Short:   "Chart meteorological parameters of a weather station",
	Long: `Chart hourly meteorological parameters of a weather station.

Examples:
  airquality-figures meteo -p T,U --from 2015-07-01 --to 2015-07-07
  airquality-figures meteo -p RR1 --cumul --period previous-month --stats`,
	Args: cobra.NoArgs,
	Run:  runMeteo,
}

func runMeteo(cmd *cobra.Command, args []string) {
	runJob(cmd, meteoJob())
}

func meteoJob() config.Job {
	name := "mf"
	if meteoOpts.station != "" {
		name += "_" + meteoOpts.station
	}
	job := meteoOpts.job(name, config.KindMeteo)
	job.Station = meteoOpts.station
	job.Parameters = meteoOpts.parameters
	job.Cumulative = meteoOpts.cumulative
	return job
}

// runJob validates and runs an ad hoc job, then prints where its files went.
func runJob(cmd *cobra.Command, job config.Job) {
	if err := job.Validate(); err != nil {
		fail("invalid options", err)
	}

	a := initializeApp()
	defer a.close()

	out, err := a.runner.Run(cmd.Context(), job)
	if err != nil {
		a.close()
		fail("failed to build figure", err)
	}
	printOutput(cmd, out)
}

func printOutput(cmd *cobra.Command, out report.Output) {
	fmt.Fprintf(cmd.OutOrStdout(), "figure: %s\n", out.Figure)
	if out.Workbook != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "workbook: %s\n", out.Workbook)
	}
}

func init() {
	measuresOpts.register(measuresCmd, true)
	mf := measuresCmd.Flags()
	mf.StringArrayVarP(&measuresOpts.groups, "group", "g", nil, "Curve group: POLLUTANT=CODE[,CODE...] or POLLUTANT@NETWORK (repeatable)")
	mf.StringVar(&measuresOpts.frequency, "freq", "", "Plotted frequency: 15T, H, D, M, A (defaults to the pollutant frequency)")
	mf.IntVar(&measuresOpts.rolling, "rolling", 0, "Rolling mean window in samples")
	mf.Float64Var(&measuresOpts.validRatio, "valid-ratio", report.DefaultValidRatio, "Share of valid samples a rolling window needs")
	mf.BoolVar(&measuresOpts.dailyMax, "daily-max", false, "Plot the daily maximum")
	mf.BoolVar(&measuresOpts.annualMax, "annual-max", false, "Plot the annual maximum")

	historyOpts.register(historyCmd, false)
	hf := historyCmd.Flags()
	hf.IntVar(&historyOpts.year, "year", 0, "Last year drawn (defaults to the previous year)")
	hf.IntVar(&historyOpts.since, "since", 0, "First year for typologies without their own start (defaults to HISTORY_START)")

	meteoOpts.register(meteoCmd, true)
	tf := meteoCmd.Flags()
	tf.StringVar(&meteoOpts.station, "station", "", "Weather station (defaults to LIMOGES-BELLEGARDE)")
	tf.StringSliceVarP(&meteoOpts.parameters, "params", "p", nil, "Parameters: T, U, RR1")
	tf.BoolVar(&meteoOpts.cumulative, "cumul", false, "Add the cumulative precipitation (needs RR1)")
}
