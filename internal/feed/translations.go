package feed

// UI string tables for the two supported languages. This is a static lookup,
// not a translation pipeline; unknown languages fall back to English.
var translations = map[string]map[string]string{
	"en": {
		"home":           "Home",
		"map":            "Map",
		"report":         "Report",
		"profile":        "Profile",
		"allPosts":       "All Posts",
		"filters":        "Filters",
		"like":           "Like",
		"comment":        "Comment",
		"share":          "Share",
		"uploadReport":   "Upload Report",
		"takePhoto":      "Take Photo",
		"selectHazard":   "Select Hazard Type",
		"addDescription": "Add Description (Optional)",
		"location":       "Location",
		"preview":        "Preview",
		"submit":         "Submit Report",
		"myProfile":      "My Profile",
		"myReports":      "My Reports",
		"badges":         "Badges",
		"settings":       "Settings",
		"language":       "Language",
	},
	"hi": {
		"home":           "होम",
		"map":            "मैप",
		"report":         "रिपोर्ट",
		"profile":        "प्रोफाइल",
		"allPosts":       "सभी पोस्ट",
		"filters":        "फिल्टर",
		"like":           "पसंद",
		"comment":        "टिप्पणी",
		"share":          "साझा करें",
		"uploadReport":   "रिपोर्ट अपलोड करें",
		"takePhoto":      "फोटो लें",
		"selectHazard":   "खतरे का प्रकार चुनें",
		"addDescription": "विवरण जोड़ें (वैकल्पिक)",
		"location":       "स्थान",
		"preview":        "पूर्वावलोकन",
		"submit":         "रिपोर्ट जमा करें",
		"myProfile":      "मेरी प्रोफाइल",
		"myReports":      "मेरी रिपोर्ट्स",
		"badges":         "बैज",
		"settings":       "सेटिंग्स",
		"language":       "भाषा",
	},
}

// Translations returns the string table for a language, falling back to
// English for anything unsupported.
func Translations(lang string) map[string]string {
	if table, ok := translations[lang]; ok {
		return table
	}
	return translations["en"]
}
