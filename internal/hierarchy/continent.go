package hierarchy

import "strings"

// continentByCountry maps lowercase country names to their continent. The
// table covers the destinations the travel CMS actually publishes; unknown
// countries resolve to "" and the continental level is omitted.
var continentByCountry = map[string]string{
	// Europe
	"france": "Europe", "spain": "Europe", "portugal": "Europe",
	"italy": "Europe", "germany": "Europe", "austria": "Europe",
	"switzerland": "Europe", "netherlands": "Europe", "belgium": "Europe",
	"united kingdom": "Europe", "ireland": "Europe", "iceland": "Europe",
	"norway": "Europe", "sweden": "Europe", "denmark": "Europe",
	"finland": "Europe", "poland": "Europe", "czech republic": "Europe",
	"czechia": "Europe", "slovakia": "Europe", "hungary": "Europe",
	"romania": "Europe", "bulgaria": "Europe", "greece": "Europe",
	"croatia": "Europe", "slovenia": "Europe", "albania": "Europe",
	"montenegro": "Europe", "serbia": "Europe", "bosnia and herzegovina": "Europe",
	"north macedonia": "Europe", "estonia": "Europe", "latvia": "Europe",
	"lithuania": "Europe", "malta": "Europe", "cyprus": "Europe",
	"ukraine": "Europe", "georgia": "Europe",

	// Africa
	"morocco": "Africa", "tunisia": "Africa", "egypt": "Africa",
	"kenya": "Africa", "tanzania": "Africa", "south africa": "Africa",
	"namibia": "Africa", "botswana": "Africa", "ethiopia": "Africa",
	"uganda": "Africa", "rwanda": "Africa", "madagascar": "Africa",
	"senegal": "Africa", "ghana": "Africa", "nigeria": "Africa",
	"zimbabwe": "Africa", "zambia": "Africa", "mozambique": "Africa",
	"algeria": "Africa", "cape verde": "Africa", "mauritius": "Africa",
	"seychelles": "Africa",

	// Asia
	"japan": "Asia", "china": "Asia", "south korea": "Asia",
	"thailand": "Asia", "vietnam": "Asia", "cambodia": "Asia",
	"laos": "Asia", "myanmar": "Asia", "malaysia": "Asia",
	"singapore": "Asia", "indonesia": "Asia", "philippines": "Asia",
	"india": "Asia", "nepal": "Asia", "sri lanka": "Asia",
	"bhutan": "Asia", "maldives": "Asia", "mongolia": "Asia",
	"uzbekistan": "Asia", "kazakhstan": "Asia", "kyrgyzstan": "Asia",
	"taiwan": "Asia", "hong kong": "Asia", "israel": "Asia",
	"jordan": "Asia", "turkey": "Asia", "united arab emirates": "Asia",
	"oman": "Asia", "qatar": "Asia", "saudi arabia": "Asia",

	// North America
	"united states": "North America", "usa": "North America",
	"canada": "North America", "mexico": "North America",
	"costa rica": "North America", "panama": "North America",
	"guatemala": "North America", "belize": "North America",
	"nicaragua": "North America", "honduras": "North America",
	"cuba": "North America", "jamaica": "North America",
	"dominican republic": "North America", "bahamas": "North America",

	// South America
	"brazil": "South America", "argentina": "South America",
	"chile": "South America", "peru": "South America",
	"bolivia": "South America", "colombia": "South America",
	"ecuador": "South America", "uruguay": "South America",
	"paraguay": "South America", "venezuela": "South America",
	"guyana": "South America", "suriname": "South America",

	// Oceania
	"australia": "Oceania", "new zealand": "Oceania",
	"fiji": "Oceania", "french polynesia": "Oceania",
	"samoa": "Oceania", "tonga": "Oceania", "vanuatu": "Oceania",
	"papua new guinea": "Oceania", "cook islands": "Oceania",
}

// ContinentOf returns the continent for a country name, or "" when the
// country is unknown or empty.
func ContinentOf(country string) string {
	return continentByCountry[strings.ToLower(strings.TrimSpace(country))]
}
