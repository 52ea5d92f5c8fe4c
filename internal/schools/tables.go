package schools

import "strings"

// stopWords are generic institutional tokens that never distinguish one
// school from another. "college" is deliberately absent: it is dropped only
// when it leads the token list (see Canonicalize), so "Boston College"
// survives intact.
var stopWords = map[string]bool{
	"university": true,
	"univ":       true,
	"institute":  true,
	"academy":    true,
	"the":        true,
	"of":         true,
	"at":         true,
	"in":         true,
	"and":        true,
	"for":        true,
}

// mascotWords are nickname tokens providers append to team names. Ambiguous
// mascots that are needed to tell same-name schools apart (hurricanes,
// redhawks) stay out of this set and are resolved by the override table
// instead.
var mascotWords = map[string]bool{
	"buckeyes": true, "wolverines": true, "crimson": true, "tide": true,
	"tigers": true, "bulldogs": true, "gators": true, "sooners": true,
	"longhorns": true, "aggies": true, "seminoles": true, "wildcats": true,
	"huskies": true, "ducks": true, "beavers": true, "cougars": true,
	"trojans": true, "bruins": true, "spartans": true, "badgers": true,
	"hawkeyes": true, "cyclones": true, "jayhawks": true, "razorbacks": true,
	"commodores": true, "volunteers": true, "vols": true, "gamecocks": true,
	"cornhuskers": true, "huskers": true, "boilermakers": true,
	"hoosiers": true, "illini": true, "fighting": true, "irish": true,
	"golden": true, "bears": true, "gophers": true, "panthers": true,
	"cardinal": true, "cardinals": true, "eagles": true, "falcons": true,
	"owls": true, "bearcats": true, "hokies": true, "terrapins": true,
	"tar": true, "heels": true, "blue": true, "raiders": true,
	"demon": true, "deacons": true, "yellow": true, "jackets": true,
	"mountaineers": true, "knights": true, "bulls": true, "wolfpack": true,
	"cavaliers": true, "orange": true, "buffaloes": true, "utes": true,
	"broncos": true, "rams": true, "horned": true, "frogs": true,
	"nittany": true, "lions": true, "sun": true, "devils": true,
	"mustangs": true, "terriers": true, "midshipmen": true, "cadets": true,
	"minutemen": true, "rebels": true, "paladins": true, "salukis": true,
	"hilltoppers": true, "chanticleers": true, "zips": true,
	"rockets": true, "flashes": true, "chippewas": true, "hurricane": true,
	"lobos": true, "aztecs": true, "vandals": true, "scarlet": true,
	"hoyas": true, "wave": true, "jaguars": true, "gauchos": true,
	"leathernecks": true, "sycamores": true, "penguins": true,
	"bobcats": true, "catamounts": true, "colonels": true,
	"governors": true, "skyhawks": true, "blazers": true, "roadrunners": true,
	"miners": true, "mean": true, "thundering": true, "herd": true,
}

// irregulars maps odd spellings onto a fixed token before lookup.
var irregulars = map[string]string{
	"st":          "st",
	"saint":       "saint",
	"ste":         "saint",
	"tech":        "tech",
	"technology":  "tech",
	"polytechnic": "polytechnic",
}

// stateCodes is the set of two-letter US state and territory codes used when
// stripping trailing location tokens and when deciding whether a
// parenthetical aside is a disambiguator worth keeping.
var stateCodes = map[string]bool{
	"al": true, "ak": true, "az": true, "ar": true, "ca": true, "co": true,
	"ct": true, "de": true, "fl": true, "ga": true, "hi": true, "id": true,
	"il": true, "in": true, "ia": true, "ks": true, "ky": true, "la": true,
	"me": true, "md": true, "ma": true, "mi": true, "mn": true, "ms": true,
	"mo": true, "mt": true, "ne": true, "nv": true, "nh": true, "nj": true,
	"nm": true, "ny": true, "nc": true, "nd": true, "oh": true, "ok": true,
	"or": true, "pa": true, "ri": true, "sc": true, "sd": true, "tn": true,
	"tx": true, "ut": true, "vt": true, "va": true, "wa": true, "wv": true,
	"wi": true, "wy": true, "dc": true, "pr": true,
}

// stateNames maps spelled-out state names to their codes, for parenthetical
// asides like "Miami (Ohio)".
var stateNames = map[string]string{
	"alabama": "al", "alaska": "ak", "arizona": "az", "arkansas": "ar",
	"california": "ca", "colorado": "co", "connecticut": "ct",
	"delaware": "de", "florida": "fl", "georgia": "ga", "hawaii": "hi",
	"idaho": "id", "illinois": "il", "indiana": "in", "iowa": "ia",
	"kansas": "ks", "kentucky": "ky", "louisiana": "la", "maine": "me",
	"maryland": "md", "massachusetts": "ma", "michigan": "mi",
	"minnesota": "mn", "mississippi": "ms", "missouri": "mo",
	"montana": "mt", "nebraska": "ne", "nevada": "nv",
	"ohio": "oh", "oklahoma": "ok", "oregon": "or", "pennsylvania": "pa",
	"tennessee": "tn", "texas": "tx", "utah": "ut", "vermont": "vt",
	"virginia": "va", "washington": "wa", "wisconsin": "wi", "wyoming": "wy",
}

// cityTokens are single-token city/venue names some providers append after
// the team name. Never includes a token that is itself a school name.
var cityTokens = map[string]bool{
	"columbus": true, "tuscaloosa": true, "gainesville": true,
	"tallahassee": true, "eugene": true, "corvallis": true, "norman": true,
	"stillwater": true, "lincoln": true, "madison": true, "knoxville": true,
	"lexington": true, "waco": true, "lubbock": true, "tempe": true,
	"tucson": true, "boulder": true, "provo": true, "pullman": true,
	"berkeley": true, "pasadena": true, "austin": true, "athens": true,
	"oxford": true, "starkville": true, "fayetteville": true,
	"bloomington": true, "evanston": true, "piscataway": true,
	"charlottesville": true, "blacksburg": true, "durham": true,
	"raleigh": true, "morgantown": true, "annapolis": true,
	"amherst": true, "storrs": true,
}

// cityPairs are two-token city names stripped as a unit.
var cityPairs = map[string]bool{
	"los angeles":     true,
	"ann arbor":       true,
	"baton rouge":     true,
	"college station": true,
	"chapel hill":     true,
	"east lansing":    true,
	"south bend":      true,
	"fort worth":      true,
	"west lafayette":  true,
	"las vegas":       true,
	"san diego":       true,
	"salt lake":       true,
	"west point":      true,
	"college park":    true,
	"new brunswick":   true,
	"state college":   true,
}

// specialCase fixes the rendering of tokens that do not title-case cleanly.
var specialCase = map[string]string{
	"lsu": "LSU", "usc": "USC", "ucla": "UCLA", "byu": "BYU", "tcu": "TCU",
	"smu": "SMU", "ucf": "UCF", "usf": "USF", "uab": "UAB", "utsa": "UTSA",
	"utep": "UTEP", "fau": "FAU", "fiu": "FIU", "ecu": "ECU",
	"uconn": "UConn", "umass": "UMass",
}

// aliasGroups maps each canonical display name to the token sequences that
// should resolve to it. Keys on the right are the post-normalization token
// join (lower-cased, stop/mascot words already removed), so an alias must be
// written the way the tokenizer would leave it. Looked up twice per input:
// once with trailing location tokens intact, once with them stripped.
var aliasGroups = map[string][]string{
	"Ohio State":        {"ohio st", "osu"},
	"Oklahoma State":    {"oklahoma st", "okla state", "okst"},
	"LSU":               {"lsu", "louisiana state", "louisiana st", "la state"},
	"Ole Miss":          {"ole miss", "mississippi", "miss"},
	"Mississippi State": {"mississippi state", "mississippi st", "miss state", "miss st", "msst"},
	"Miami (FL)":        {"miami", "miami fl", "miami florida", "miami hurricanes"},
	"Miami (OH)":        {"miami oh", "miami ohio", "miami redhawks"},
	"USC":               {"usc", "southern california", "southern cal", "so cal"},
	"UCLA":              {"ucla"},
	"BYU":               {"byu", "brigham young"},
	"TCU":               {"tcu", "texas christian"},
	"SMU":               {"smu", "southern methodist"},
	"UCF":               {"ucf", "central florida"},
	"USF":               {"usf", "south florida"},
	"UAB":               {"uab", "alabama birmingham"},
	"UTSA":              {"utsa", "texas san antonio"},
	"UTEP":              {"utep", "texas el paso"},
	"FAU":               {"fau", "florida atlantic"},
	"FIU":               {"fiu", "florida international"},
	"ECU":               {"ecu", "east carolina"},
	"UConn":             {"uconn", "connecticut"},
	"UMass":             {"umass", "massachusetts"},
	"UNLV":              {"unlv", "nevada las vegas"},
	"Pitt":              {"pitt", "pittsburgh"},
	"Penn State":        {"penn st", "psu"},
	"Michigan State":    {"michigan st", "mich state", "mich st"},
	"Florida State":     {"florida st", "fsu"},
	"Georgia Tech":      {"georgia tech", "ga tech", "georgia institute tech"},
	"Virginia Tech":     {"virginia tech", "va tech", "virginia polytechnic", "virginia polytechnic st"},
	"Texas A&M":         {"texas am", "texas a m", "tamu"},
	"Texas Tech":        {"texas tech"},
	"Louisiana Tech":    {"louisiana tech", "la tech"},
	"North Carolina":    {"north carolina", "unc"},
	"NC State":          {"nc state", "nc st", "north carolina state", "north carolina st", "ncsu"},
	"South Carolina":    {"south carolina"},
	"Appalachian State": {"appalachian st", "app state", "app st"},
	"Boise State":       {"boise st"},
	"San Diego State":   {"san diego state", "san diego st", "sdsu"},
	"San Jose State":    {"san jose state", "san jose st", "sjsu"},
	"Fresno State":      {"fresno st"},
	"Arizona State":     {"arizona st", "asu"},
	"Washington State":  {"washington st", "wazzu", "wsu"},
	"Oregon State":      {"oregon st"},
	"Iowa State":        {"iowa st"},
	"Kansas State":      {"kansas st", "k state", "kstate"},
	"Colorado State":    {"colorado st"},
	"Utah State":        {"utah st"},
	"Ball State":        {"ball st"},
	"Kent State":        {"kent st"},
	"Arkansas State":    {"arkansas st"},
	"Georgia State":     {"georgia st"},
	"Texas State":       {"texas st"},
	"Notre Dame":        {"notre dame", "nd"},
	"William & Mary":    {"william mary", "william m"},
	"Wake Forest":       {"wake forest", "wake"},
	"Boston College":    {"boston college", "bc"},
	"Cal":               {"cal", "california"},
	"Army":              {"army", "united states military"},
	"Navy":              {"navy", "united states naval"},
	"Air Force":         {"air force", "united states air force"},
	"Middle Tennessee":  {"middle tennessee", "middle tennessee state", "middle tennessee st", "mtsu"},
	"Western Kentucky":  {"western kentucky", "wku"},
	"Bowling Green":     {"bowling green", "bowling green state", "bowling green st", "bgsu"},
	"Central Michigan":  {"central michigan", "cmu"},
	"Western Michigan":  {"western michigan", "wmu"},
	"Eastern Michigan":  {"eastern michigan", "emu"},
	"Northern Illinois": {"northern illinois", "niu"},
	"Southern Miss":     {"southern miss", "southern mississippi", "usm"},
	"St. John's":        {"st john s", "st johns", "saint john s", "saint johns"},
	"Hawaii":            {"hawaii", "hawai i"},
	"McNeese State":     {"mcneese", "mcneese st"},
	"Grambling State":   {"grambling", "grambling st"},
	"Jackson State":     {"jackson st"},
	"Alcorn State":      {"alcorn st"},
	"Bethune-Cookman":   {"bethune cookman"},
	"Louisiana":         {"louisiana lafayette", "ul lafayette", "ragin cajuns", "louisiana ragin cajuns"},
	"UL Monroe":         {"louisiana monroe", "ul monroe", "ulm"},
	"Charlotte":         {"charlotte", "unc charlotte"},
	"Coastal Carolina":  {"coastal carolina"},
	"Georgia Southern":  {"georgia southern"},
	"Old Dominion":      {"old dominion", "odu"},
	"Florida A&M":       {"florida am", "florida a m", "famu"},
	"Alabama A&M":       {"alabama am", "alabama a m"},
	"Prairie View A&M":  {"prairie view", "prairie view am", "prairie view a m"},
	"North Carolina A&T": {"north carolina at", "north carolina a t", "nc at", "nc a t"},
	"VMI":               {"vmi", "virginia military"},
	"The Citadel":       {"citadel"},
	"Sam Houston":       {"sam houston", "sam houston state", "sam houston st"},
	"Stephen F. Austin": {"stephen f austin", "sfa"},
	"Incarnate Word":    {"incarnate word", "uiw"},
	"Youngstown State":  {"youngstown st"},
	"Eastern Washington": {"eastern washington", "ewu"},
	"Northern Arizona":  {"northern arizona", "nau"},
	"Cal Poly":          {"cal poly", "california polytechnic"},
	"Washington":        {"washington", "udub", "uw"},
	"Memphis":           {"memphis", "memphis state", "memphis st"},
	"Tulane":            {"tulane", "tulane green"},
	"Wisconsin":         {"wisconsin", "wisc"},
	"Minnesota":         {"minnesota", "minn"},
	"Illinois":          {"illinois", "ill"},
	"Indiana":           {"indiana", "iu"},
	"Purdue":            {"purdue"},
	"Northwestern":      {"northwestern"},
	"Rutgers":           {"rutgers"},
	"Maryland":          {"maryland"},
	"Virginia":          {"virginia", "uva"},
	"West Virginia":     {"west virginia", "wvu"},
	"Kentucky":          {"kentucky", "uk"},
	"Tennessee":         {"tennessee", "tenn"},
	"Vanderbilt":        {"vanderbilt", "vandy"},
	"Missouri":          {"missouri", "mizzou"},
	"Auburn":            {"auburn"},
	"Alabama":           {"alabama", "bama"},
	"Georgia":           {"georgia", "uga"},
	"Florida":           {"florida", "uf"},
	"Clemson":           {"clemson"},
	"Duke":              {"duke"},
	"Syracuse":          {"syracuse", "cuse"},
	"Louisville":        {"louisville"},
	"Cincinnati":        {"cincinnati", "cincy"},
	"Houston":           {"houston", "uh"},
	"Baylor":            {"baylor"},
	"Texas":             {"texas", "ut austin"},
	"Oklahoma":          {"oklahoma", "ou"},
	"Kansas":            {"kansas", "ku"},
	"Nebraska":          {"nebraska"},
	"Colorado":          {"colorado", "cu buffs"},
	"Utah":              {"utah"},
	"Arizona":           {"arizona", "zona"},
	"Oregon":            {"oregon", "uo"},
	"Stanford":          {"stanford"},
	"Temple":            {"temple"},
	"Tulsa":             {"tulsa"},
	"Rice":              {"rice"},
	"Wyoming":           {"wyoming"},
	"Nevada":            {"nevada", "nevada reno"},
	"New Mexico":        {"new mexico", "unm"},
	"New Mexico State":  {"new mexico state", "new mexico st", "nmsu"},
	"Idaho":             {"idaho"},
	"Idaho State":       {"idaho st"},
	"Montana":           {"montana"},
	"Montana State":     {"montana st"},
	"North Dakota State": {"north dakota state", "north dakota st", "ndsu"},
	"South Dakota State": {"south dakota state", "south dakota st", "sdsu jackrabbits"},
	"James Madison":     {"james madison", "jmu"},
	"Liberty":           {"liberty"},
	"Marshall":          {"marshall"},
	"Toledo":            {"toledo"},
	"Akron":             {"akron"},
	"Buffalo":           {"buffalo"},
	"Ohio":              {"ohio"},
	"Troy":              {"troy"},
	"South Alabama":     {"south alabama"},
	"North Texas":       {"north texas", "unt"},
	"SUNY Albany":       {"albany", "suny albany"},
}

// overrides is the flattened alias table: normalized token join -> canonical
// display name. Built once at init.
var overrides = buildOverrides()

func buildOverrides() map[string]string {
	out := make(map[string]string, 256)
	for canonical, aliases := range aliasGroups {
		for _, a := range aliases {
			out[a] = canonical
		}
		// The canonical name itself must round-trip: normalize it the same
		// way inputs are normalized and point it back at itself.
		key := strings.Join(normalizeTokens(canonical), " ")
		if key != "" {
			if _, taken := out[key]; !taken {
				out[key] = canonical
			}
		}
	}
	return out
}
