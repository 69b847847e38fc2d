package lookup

// DefaultColor is used for categories the table does not know.
const DefaultColor = "#808080"

// Defaults returns the built-in lookup document.
func Defaults() Document {
	return Document{
		Sessions: map[string]string{
			"fp1":              "Practice 1",
			"fp2":              "Practice 2",
			"fp3":              "Practice 3",
			"sprintQualifying": "Sprint Quali",
			"sprint":           "Sprint",
			"qualifying":       "Qualifying",
			"race":             "Race",
		},
		Teams: map[string]TeamInfo{
			"red_bull":     {Color: "#3671C6", Shorthand: "RBR", Name: "Red Bull"},
			"mercedes":     {Color: "#27F4D2", Shorthand: "MER", Name: "Mercedes"},
			"ferrari":      {Color: "#E80020", Shorthand: "FER", Name: "Ferrari"},
			"mclaren":      {Color: "#FF8000", Shorthand: "MCL", Name: "McLaren"},
			"aston_martin": {Color: "#229971", Shorthand: "AST", Name: "Aston Martin"},
			"alpine":       {Color: "#00A1E8", Shorthand: "ALP", Name: "Alpine"},
			"williams":     {Color: "#005AFF", Shorthand: "WIL", Name: "Williams"},
			"rb":           {Color: "#6692FF", Shorthand: "RB", Name: "Racing Bulls"},
			"sauber":       {Color: "#52E252", Shorthand: "SAU", Name: "Sauber"},
			"haas":         {Color: "#B6BABD", Shorthand: "HAA", Name: "Haas"},
		},
		Circuits: map[string]string{
			"albert_park": "AUS", "shanghai": "CHN", "suzuka": "JPN", "bahrain": "BHR",
			"jeddah": "SAU", "miami": "USA", "imola": "ITA", "monaco": "MCO", "catalunya": "ESP",
			"villeneuve": "CAN", "red_bull_ring": "AUT", "silverstone": "GBR", "spa": "BEL",
			"hungaroring": "HUN", "zandvoort": "NLD", "monza": "ITA", "baku": "AZE",
			"marina_bay": "SGP", "americas": "USA", "rodriguez": "MEX", "interlagos": "BRA",
			"vegas": "USA", "losail": "QAT", "yas_marina": "ARE",
		},
	}
}
