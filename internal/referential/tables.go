package referential

import "github.com/i474232898/airquality-figures/internal/timeseries"

const (
	unitMicrogram = "µg/m³"
	unitMilligram = "mg/m³"
)

// Default returns the tables of the regional monitoring network.
func Default() *Referential {
	return &Referential{
		Groups: map[string][]string{
			"NO2_U":    {"NO2_PRE", "NO2_DAL", "NO2_NIC", "NO2_HUG", "NO2_FON"},
			"NO2_I":    {"NO2_IPA"},
			"NO2_T":    {"NO2_AIN", "NO2_VIC"},
			"O3_U":     {"O3_PRE", "O3_DAL", "O3_NIC", "O3_HUG", "O3_FON"},
			"O3_P":     {"O3_GAR"},
			"O3_R":     {"O3_MER"},
			"SO2_U":    {"SO2_PRE", "SO2_FON"},
			"SO2_P":    {"SO2_GAR"},
			"SO2_I":    {"SO2_IPA", "SO2_FA"},
			"PM10C_U":  {"PM10C_PRE", "PM10C_DAL", "PM10C_NIC", "PM10C_HUG", "PM10C_FON"},
			"PM10C_P":  {"PM10C_GAR"},
			"PM10C_I":  {"PM10C_IPA"},
			"PM10C_T":  {"PM10C_AIN"},
			"PM25_U":   {"PM25_PRE"},
			"PM25_T":   {"PM25_VIC"},
			"CO_U":     {"CO_NIC"},
			"CO_T":     {"CO_AIN"},
			"TRS_I":    {"TRS_IPA"},
			"PM10NC_U": {"PM10NC_PRE", "PM10_DAL", "PM10_NIC", "PM10_HUG", "PM10_FON"},
			"PM10NC_P": {"PM10_GAR"},
			"PM10NC_I": {"PM10_IPA"},
			"PM10NC_T": {"PM10_AIN"},
		},

		Pollutants: map[string]Pollutant{
			"NO2": {Code: "NO2", Display: "NO₂", Unit: unitMicrogram, Frequency: timeseries.Hourly, HistoryFrequency: timeseries.Hourly,
				Groups: []string{"NO2_U", "NO2_I", "NO2_T"}},
			"O3": {Code: "O3", Display: "O₃", Unit: unitMicrogram, Frequency: timeseries.Hourly, HistoryFrequency: timeseries.Hourly,
				Groups: []string{"O3_U", "O3_P", "O3_R"}},
			"SO2": {Code: "SO2", Display: "SO₂", Unit: unitMicrogram, Frequency: timeseries.Hourly, HistoryFrequency: timeseries.Hourly,
				Groups: []string{"SO2_U", "SO2_P", "SO2_I"}},
			"PM10": {Code: "PM10", Display: "PM10", Unit: unitMicrogram, Frequency: timeseries.Hourly, HistoryFrequency: timeseries.Daily,
				Groups: []string{"PM10C_U", "PM10C_P", "PM10C_I", "PM10C_T"}},
			"PM10NC": {Code: "PM10NC", Display: "PM10 - SANS fraction semi-volatile", Unit: unitMicrogram,
				Frequency: timeseries.Hourly, HistoryFrequency: timeseries.Daily},
			"PM25": {Code: "PM25", Display: "PM2.5", Unit: unitMicrogram, Frequency: timeseries.Hourly, HistoryFrequency: timeseries.Daily,
				Groups: []string{"PM25_U", "PM25_T"}},
			"CO": {Code: "CO", Display: "CO", Unit: unitMilligram, Frequency: timeseries.Hourly, HistoryFrequency: timeseries.Hourly,
				Groups: []string{"CO_U", "CO_T"}},
			"TRS": {Code: "TRS", Display: "TRS", Unit: unitMicrogram, Frequency: timeseries.Hourly, HistoryFrequency: timeseries.Hourly,
				Groups: []string{"TRS_I"}},
			"H2S": {Code: "H2S", Display: "H₂S", Unit: unitMicrogram, Frequency: timeseries.QuarterHour, HistoryFrequency: timeseries.QuarterHour},
		},

		Typologies: []Typology{
			{
				ID: Urban, Label: "Station(s) urbaine(s)", Color: "#0033ff",
				Groups:       []string{"NO2_U", "O3_U", "SO2_U", "PM10C_U", "PM25_U", "CO_U"},
				History:      map[string]int{"NO2": 0, "O3": 0, "SO2": 0, "PM10": 0, "PM25": 2009, "CO": 2010},
				NonCorrected: "PM10NC_U",
			},
			{
				ID: PeriUrban, Label: "Station(s) périurbaine(s)", Color: "#802600",
				Groups:       []string{"O3_P", "SO2_P", "PM10C_P"},
				History:      map[string]int{"NO2": 0, "O3": 0, "SO2": 0, "PM10": 0, "PM25": 2009, "CO": 2010},
				NonCorrected: "PM10NC_P",
			},
			{
				ID: Traffic, Label: "Station(s) trafic(s)", Color: "#ff0000",
				Groups:       []string{"NO2_T", "PM10C_T", "PM25_T", "CO_T"},
				History:      map[string]int{"NO2": 2009, "PM10": 2009, "PM25": 2013, "CO": 2010},
				NonCorrected: "PM10NC_T",
			},
			{
				ID: Industrial, Label: "Station(s) industrielle(s)", Color: "#ff8000",
				Groups:       []string{"NO2_I", "SO2_I", "PM10C_I", "TRS_I"},
				History:      map[string]int{"NO2": 2008, "SO2": 2002, "PM10": 2008, "TRS": 2008},
				NonCorrected: "PM10NC_I",
			},
			{
				ID: Rural, Label: "Station(s) rurale(s)", Color: "#00ff00",
				Groups:  []string{"O3_R"},
				History: map[string]int{"O3": 2003},
			},
		},

		Thresholds: defaultThresholds(),

		Stations: map[string]string{
			"AINE":       "Limoges / Place d'Aine",
			"PRESID":     "Limoges / Présidial",
			"MADOUM":     "Limoges / Madoumier",
			"GARROS":     "Limoges / Palais sur Vienne",
			"DALTON":     "Brive la Gaillarde / Dalton",
			"NICOLA":     "Guéret / Nicolas",
			"HUGO":       "Tulle / Hugo",
			"VICTOR":     "Tulle / Victor",
			"FONTAI":     "Saint Junien / Fontaine",
			"IPAPER":     "Saillat sur Vienne / IPaper",
			"MERA":       "La Nouaille / MERA",
			"RIVAILLES":  "Limoges / Palais sur Vienne",
			"ALVEOL2015": "Alvéol / Le Vignaud",
		},

		Palette: []string{"#ff0000", "#00ff00", "#0033ff", "#802600", "#ff80ff", "#ff8000", "#00ffff", "#808080"},

		Meteo: map[string]MeteoParameter{
			"T":     {Code: "T", Name: "Température (°C)", Color: "#ff0000"},
			"U":     {Code: "U", Name: "Humidité relative (%)", Color: "#00ff00"},
			"RR1":   {Code: "RR1", Name: "Hauteur de précipitations (mm)", Color: "#0033ff"},
			"cumul": {Code: "cumul", Name: "Cumul de précipitations (mm)", Color: "#00ffff"},
		},

		CorrectedSince: 2007,
		DefaultStation: "LIMOGES-BELLEGARDE",
	}
}

func defaultThresholds() map[ThresholdKind]ThresholdDef {
	return map[ThresholdKind]ThresholdDef{
		RegionalVigilance: {
			Label:  "Seuil de mise en vigilance régionale",
			Color:  "#ff0000",
			Values: map[string]float64{"NO2": 135, "SO2": 200, "O3": 150},
		},
		Information: {
			Label:  "Seuil d'information et de recommandations",
			Color:  "#cc0000",
			Values: map[string]float64{"NO2": 200, "SO2": 300, "O3": 180, "PM10": 50, "PM10NC": 50},
		},
		Alert: {
			Label:  "Seuil d'alerte",
			Color:  "#6a0000",
			Values: map[string]float64{"NO2": 400, "SO2": 500, "O3": 240, "PM10": 80, "PM10NC": 80},
		},
		LimitValue: {
			Label:  "Valeur limite annuelle",
			Color:  "#ffa500",
			Values: map[string]float64{"NO2": 40, "O3": 120, "PM10": 40, "PM25": 25, "CO": 10},
		},
		QualityObjective: {
			Label:  "Objectif de qualité annuel",
			Color:  "#cc0000",
			Values: map[string]float64{"NO2": 40, "O3": 120, "PM10": 30, "PM25": 10},
		},
		WHOGuideline: {
			Label:  "Valeur guide OMS",
			Color:  "#800000",
			Values: map[string]float64{"NO2": 40, "O3": 100, "PM10": 20, "PM25": 10, "H2S": 7},
			Labels: map[string]string{"H2S": "Seuil de gêne olfactive (OMS) sur 30 min"},
		},
	}
}
