package registry

// Static reference tables for the transparency platform. Loaded once at
// process start; never mutated.

// areaCodes maps ISO 3166-1 alpha-2 style identifiers to EIC area codes.
var areaCodes = map[string]string{
	"AL":       "10YAL-KESH-----5",
	"AT":       "10YAT-APG------L",
	"BA":       "10YBA-JPCC-----D",
	"BE":       "10YBE----------2",
	"BG":       "10YCA-BULGARIA-R",
	"CH":       "10YCH-SWISSGRIDZ",
	"CZ":       "10YCZ-CEPS-----N",
	"DE":       "10Y1001A1001A83F",
	"DE_LU":    "10Y1001A1001A82H",
	"DE_AT_LU": "10Y1001A1001A63L",
	"DK":       "10Y1001A1001A65H",
	"DK_1":     "10YDK-1--------W",
	"DK_2":     "10YDK-2--------M",
	"EE":       "10Y1001A1001A39I",
	"ES":       "10YES-REE------0",
	"FI":       "10YFI-1--------U",
	"FR":       "10YFR-RTE------C",
	"GB":       "10YGB----------A",
	"GR":       "10YGR-HTSO-----Y",
	"HR":       "10YHR-HEP------M",
	"HU":       "10YHU-MAVIR----U",
	"IE":       "10YIE-1001A00010",
	"IE_SEM":   "10Y1001A1001A59C",
	"IT":       "10YIT-GRTN-----B",
	"IT_NORTH": "10Y1001A1001A73I",
	"IT_CNOR":  "10Y1001A1001A70O",
	"IT_CSUD":  "10Y1001A1001A71M",
	"IT_SUD":   "10Y1001A1001A788",
	"IT_SICI":  "10Y1001A1001A74G",
	"IT_SARD":  "10Y1001A1001A75E",
	"LT":       "10YLT-1001A0008Q",
	"LU":       "10YLU-CEGEDEL-NQ",
	"LV":       "10YLV-1001A00074",
	"ME":       "10YCS-CG-TSO---S",
	"MK":       "10YMK-MEPSO----8",
	"MT":       "10Y1001A1001A93C",
	"NL":       "10YNL----------L",
	"NO":       "10YNO-0--------C",
	"NO_1":     "10YNO-1--------2",
	"NO_2":     "10YNO-2--------T",
	"NO_3":     "10YNO-3--------J",
	"NO_4":     "10YNO-4--------9",
	"NO_5":     "10Y1001A1001A48H",
	"PL":       "10YPL-AREA-----S",
	"PT":       "10YPT-REN------W",
	"RO":       "10YRO-TEL------P",
	"RS":       "10YCS-SERBIATSOV",
	"SE":       "10YSE-1--------K",
	"SE_1":     "10Y1001A1001A44P",
	"SE_2":     "10Y1001A1001A45N",
	"SE_3":     "10Y1001A1001A46L",
	"SE_4":     "10Y1001A1001A47J",
	"SI":       "10YSI-ELES-----O",
	"SK":       "10YSK-SEPS-----K",
	"TR":       "10YTR-TEIAS----W",
	"UA":       "10Y1001C--00003F",
	"UK":       "10Y1001A1001A92E",
	"XK":       "10Y1001C--00100H",
}

// countryNames maps ISO identifiers to display names.
var countryNames = map[string]string{
	"AL":       "Albania",
	"AT":       "Austria",
	"BA":       "Bosnia and Herzegovina",
	"BE":       "Belgium",
	"BG":       "Bulgaria",
	"CH":       "Switzerland",
	"CZ":       "Czech Republic",
	"DE":       "Germany",
	"DE_LU":    "Germany/Luxembourg",
	"DE_AT_LU": "Germany/Austria/Luxembourg",
	"DK":       "Denmark",
	"DK_1":     "Denmark (West)",
	"DK_2":     "Denmark (East)",
	"EE":       "Estonia",
	"ES":       "Spain",
	"FI":       "Finland",
	"FR":       "France",
	"GB":       "Great Britain",
	"GR":       "Greece",
	"HR":       "Croatia",
	"HU":       "Hungary",
	"IE":       "Ireland",
	"IE_SEM":   "Ireland (SEM)",
	"IT":       "Italy",
	"IT_NORTH": "Italy (North)",
	"IT_CNOR":  "Italy (Central North)",
	"IT_CSUD":  "Italy (Central South)",
	"IT_SUD":   "Italy (South)",
	"IT_SICI":  "Italy (Sicily)",
	"IT_SARD":  "Italy (Sardinia)",
	"LT":       "Lithuania",
	"LU":       "Luxembourg",
	"LV":       "Latvia",
	"ME":       "Montenegro",
	"MK":       "North Macedonia",
	"MT":       "Malta",
	"NL":       "Netherlands",
	"NO":       "Norway",
	"NO_1":     "Norway (South-East)",
	"NO_2":     "Norway (South-West)",
	"NO_3":     "Norway (Central)",
	"NO_4":     "Norway (North)",
	"NO_5":     "Norway (West)",
	"PL":       "Poland",
	"PT":       "Portugal",
	"RO":       "Romania",
	"RS":       "Serbia",
	"SE":       "Sweden",
	"SE_1":     "Sweden (Luleå)",
	"SE_2":     "Sweden (Sundsvall)",
	"SE_3":     "Sweden (Stockholm)",
	"SE_4":     "Sweden (Malmö)",
	"SI":       "Slovenia",
	"SK":       "Slovakia",
	"TR":       "Turkey",
	"UA":       "Ukraine",
	"UK":       "United Kingdom",
	"XK":       "Kosovo",
}

// psrTypes maps power system resource type codes to fuel names.
var psrTypes = map[string]string{
	"B01": "Biomass",
	"B02": "Fossil Brown coal/Lignite",
	"B03": "Fossil Coal-derived gas",
	"B04": "Fossil Gas",
	"B05": "Fossil Hard coal",
	"B06": "Fossil Oil",
	"B07": "Fossil Oil shale",
	"B08": "Fossil Peat",
	"B09": "Geothermal",
	"B10": "Hydro Pumped Storage",
	"B11": "Hydro Run-of-river and poundage",
	"B12": "Hydro Water Reservoir",
	"B13": "Marine",
	"B14": "Nuclear",
	"B15": "Other renewable",
	"B16": "Solar",
	"B17": "Waste",
	"B18": "Wind Offshore",
	"B19": "Wind Onshore",
	"B20": "Other",
}

// processTypes maps friendly names to process type codes.
var processTypes = map[string]string{
	"realised":       "A16",
	"day_ahead":      "A01",
	"intraday_total": "A18",
	"week_ahead":     "A31",
	"month_ahead":    "A32",
	"year_ahead":     "A33",
}

// priceCategories maps imbalance price category codes to display names.
var priceCategories = map[string]string{
	"A04": "Excess balance",
	"A05": "Insufficient balance",
}
