package nlp

// Swedish financial vocabularies. These tables are compiled-in and
// read-only after construction; they may be shared across goroutines.

// positiveLexicon lists phrases signalling positive financial events.
var positiveLexicon = []string{
	"resultatlyft", "vinstlyft", "marginallyft", "stark rapport", "överträffar förväntningarna", "bättre än väntat",
	"bättre än prognos", "höjer prognos", "höjer guidning", "guidning över väntan", "höjer utsikter", "starkare utsikter",
	"stark orderingång", "rekordorderingång", "rekordorder", "stororder", "miljardorder", "betydande order", "flerårigt avtal",
	"ramavtal", "förlängt avtal", "ny kund", "stor kund", "strategiskt avtal", "strategiskt partnerskap", "samarbete", "joint venture",
	"exklusivt avtal", "licensavtal", "distributionsavtal", "lanserar", "produktlansering", "marknadslansering", "kommersialisering",
	"kommersiellt genombrott", "genombrottsorder", "regulatoriskt godkännande", "godkännande", "godkänd", "CE-märkning", "CE-märke",
	"FDA-godkännande", "marknadsgodkännande", "patent beviljat", "patentportfölj stärks", "indexinträde", "tas in i index",
	"inkluderas i index", "återinförs i index", "IPO klar", "noteras på First North", "notering godkänd", "uppgraderas", "uppgradering",
	"höjd rekommendation", "höjd riktkurs", "köpråd", "stark köprekommendation", "höjer riktkurs", "övervikt", "outperform",
	"överträffar guidning", "överträffar estimat", "höjer utdelning", "extrautdelning", "återköp", "aktieåterköp",
	"omvänd vinstvarning", "preliminärt över förväntan", "stark inledning av året", "stark avslutning", "växer snabbare än marknaden",
	"stark organisk tillväxt", "rekordförsäljning", "rekordomsättning", "rekordvinst", "vänder till vinst", "tillbaka till vinst",
	"lönsamhet förbättras", "bruttomarginal upp", "rörelsemarginal upp", "kassaflöde förbättras", "skuldsättning minskar",
	"soliditet förbättras", "mål uppnås i förtid", "överträffar finansiella mål", "höjer finansiella mål", "upprepar stark guidning",
	"ny marknad", "expansion", "etablerar sig i", "vinner upphandling", "viktig upphandling", "upphandlingsseger", "stor leverans",
	"uppskalning", "kapacitet utökas", "produktionsökning", "investering i kapacitet", "fabrik byggs", "orderbok växer",
	"stark efterfrågan", "övertecknad emission", "insiderköp", "vd köper aktier", "ledning ökar innehav", "storägares köp",
	"ankarinvesterare", "positivt besked", "positiv nyhet", "positiv kursreaktion", "stark öppning väntas", "stark morgon",
	"uppåt på börsen", "starkt sentiment", "riskaptit ökar", "stark sektorutveckling", "vinner marknadsandelar", "lyckad pilot",
	"lyckat test", "valideringsdata positiva", "klinisk framgång", "fas 2 lyckas", "fas 3 lyckas", "myndighetsgodkännande",
	"intäktsdelning", "royaltyintäkter", "exklusivitetsperiod", "prisjustering upp", "prishöjning", "stark orderpipeline",
	"backlog växer", "lönsam tillväxt", "höjer långsiktiga mål", "delägare", "bekräftat",
}

// catalystLexicon lists phrases signalling discrete near-term events.
var catalystLexicon = []string{
	"bevakningsstart", "bevakning inledd", "initierar bevakning", "höjd bevakning", "konferenscall", "kapitalmarknadsdag", "CMD",
	"kapitalmarknadsuppdatering", "produktuppdatering", "uppdaterar marknaden", "trading update", "månadsrapport", "försäljningssiffror",
	"trafiksiffror", "kundtillväxt", "abonnenttillväxt", "bokslut", "delårsrapport", "Q1", "Q2", "Q3", "Q4", "preliminär rapport",
	"årsredovisning", "guidance upprepas", "outlook upprepas", "affärsuppgörelse", "LOI", "letter of intent", "MOU", "avsiktsförklaring",
	"strategisk översyn", "avknoppning", "spin-off", "särnotering", "listbyte", "flytt till huvudlista", "stigande ägarandel", "ny styrelseledamot",
	"ny vd", "ny CFO", "ägarförändring", "flaggning", "flaggar upp", "flaggar över tröskel", "ökat institutionsintresse", "täcker emissionsbehov",
	"säkrar finansiering", "grönt ljus", "tilldelning klar", "lyckad book-building", "positiva förhandsbokningar", "förhandsintresse starkt",
	"exportorder", "marknadspenetration", "återstart", "produktionsstart", "produktionsåterupptag", "leveranser återupptas",
	"legala hinder undanröjda", "tvist löst", "skiljedom positiv", "skattefråga löst", "godkänd ansökan", "tillstånd beviljat",
	"miljötillstånd klart", "nätverksavtal", "operatörsavtal", "återförsäljarnät växer", "certifiering klar", "kvalitetsmärkning",
	"pilotkund", "referenskund", "lyckad POC", "proof of concept", "förbättrad visibilitet", "orderingång framåtblick", "pipeline indikatorer",
	"sektorn i fokus", "tematisk medvind",
}

// negativeLexicon lists phrases signalling negative financial events.
var negativeLexicon = []string{
	"vinstvarning", "sänker prognos", "sänker guidning", "prognos under väntan", "lägre än väntat", "svag rapport",
	"missar förväntningarna", "svag orderingång", "ordertapp", "förlorar upphandling", "tappar kund", "avslutar avtal",
	"samarbetet avslutas", "försenad lansering", "försening", "leveransproblem", "produktionsstopp", "produktionsproblem",
	"flaskhalsar", "kapacitetsbrist", "komponentbrist", "kvalitetsproblem", "återkallelse", "återkallar produkt",
	"regulatorisk försening", "regulatoriskt avslag", "avslag", "FDA-brev", "varningsbrev", "CE-problem", "säkerhetsbrister",
	"data otillräckliga", "studie misslyckas", "negativt utfall", "negativ studie", "utredning", "granskning", "tillsyn",
	"myndighetsprövning", "rättsprocess", "stämning", "dom mot bolaget", "sanktionsrisk", "cyberattack", "dataintrång",
	"bedrägeriutredning", "negativ press", "miljöböter", "tvist", "leverantörsproblem", "kundförlust", "prispress", "marginalpress",
	"bruttomarginal ner", "rörelsemarginal ner", "lönsamhet försämras", "kassaflöde försvagas", "skuldsättning ökar", "covenant-risk",
	"refinansieringsrisk", "kreditfacilitet sägs upp", "räntenetto pressas", "svag efterfrågan", "lagerökning", "försäljningsnedgång",
	"avyttrar till reapris", "nedskrivning", "impairment", "goodwillnedskrivning", "varulagernedskrivning", "VD avgår", "CFO avgår",
	"ledningsavhopp", "styrelsekris", "ägarkonflikt", "negativt besked", "negativ kursreaktion", "sänkt rekommendation", "sänkt riktkurs",
	"säljråd", "undervikt", "underperform", "handelsstopp", "handelsstoppas", "observationslista", "granskning av börsen",
	"företrädesemission", "nyemission", "riktad emission", "utspädning", "konvertibler", "teckningsoptioner", "likviditetsbrist",
	"going concern-varning", "konkursansökan", "företagsrekonstruktion", "rekonstruktion", "kontrollbalansräkning", "förlorar indexplats",
	"lämnar index",
}

// industryLexicon maps industries to their marker terms, used for the
// per-industry relevance breakdown.
var industryLexicon = map[string][]string{
	"tech":        {"AI", "maskininlärning", "blockchain", "cloud", "cybersäkerhet", "digitalisering", "IoT", "5G", "edge computing"},
	"healthcare":  {"läkemedel", "klinisk studie", "FDA", "CE-märkning", "terapi", "diagnostik", "medicinteknik", "biotech"},
	"finance":     {"bank", "försäkring", "kapitalförvaltning", "kredit", "hypotek", "investering", "trading", "fintech"},
	"energy":      {"solenergi", "vindkraft", "batterier", "elektriska fordon", "grön energi", "hållbarhet", "klimat", "CO2"},
	"real_estate": {"fastighet", "byggande", "infrastruktur", "logistik", "kontor", "bostäder", "hyresfastighet", "utveckling"},
}

// riskLexicon is the flat negative list the risk-factor detector counts over.
var riskLexicon = []string{
	"varning", "warning", "förlust", "loss", "nedgång", "decline",
	"konkurrens", "competition", "reglering", "regulation threat",
	"skulder", "debt", "lawsuit", "stämning", "investigation",
}

// categoryRule maps substrings of matched phrases to a taxonomy category.
// Rules are evaluated in order; the first hit wins for a given phrase.
type categoryRule struct {
	category string
	markers  []string
}

var categoryRules = []categoryRule{
	{"earnings", []string{"resultat", "vinst", "förlust", "rapport", "bokslut"}},
	{"orders", []string{"order", "kontrakt", "avtal", "leverans"}},
	{"guidance", []string{"prognos", "guidning", "utsikter", "mål"}},
	{"regulatory", []string{"godkännande", "regulatorisk", "tillstånd"}},
	{"market", []string{"börs", "handel", "kurs", "index"}},
	{"financial", []string{"emission", "finansiering", "lån", "kredit"}},
	{"industry", []string{"sektor", "bransch", "trend"}},
}
