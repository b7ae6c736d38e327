package mapping

// companyEntry binds one listed company to its Stockholm exchange ticker.
// Aliases cover common short forms and spellings seen in headlines.
type companyEntry struct {
	name    string
	ticker  string
	aliases []string
}

// companyTable lists the covered large and mid caps. Order matters: the
// mapper scans it top to bottom and the first match wins, so more specific
// names must precede shorter ones they contain.
var companyTable = []companyEntry{
	{"Atlas Copco", "ATCO-A", []string{"atlas copco ab"}},
	{"Alfa Laval", "ALFA", nil},
	{"Assa Abloy", "ASSA-B", []string{"assaabloy"}},
	{"AstraZeneca", "AZN", []string{"astra zeneca"}},
	{"Autoliv", "ALIV-SDB", nil},
	{"Boliden", "BOL", nil},
	{"Electrolux", "ELUX-B", nil},
	{"Epiroc", "EPI-A", nil},
	{"Ericsson", "ERIC-B", []string{"telefonaktiebolaget lm ericsson", "lm ericsson"}},
	{"Essity", "ESSITY-B", nil},
	{"Evolution", "EVO", []string{"evolution gaming"}},
	{"Getinge", "GETI-B", nil},
	{"Handelsbanken", "SHB-A", []string{"svenska handelsbanken"}},
	{"Hennes & Mauritz", "HM-B", []string{"h&m", "hennes och mauritz"}},
	{"Hexagon", "HEXA-B", nil},
	{"Husqvarna", "HUSQ-B", nil},
	{"Investor", "INVE-B", []string{"investor ab"}},
	{"Kinnevik", "KINV-B", nil},
	{"NIBE", "NIBE-B", []string{"nibe industrier"}},
	{"Nordea", "NDA-SE", []string{"nordea bank"}},
	{"Saab", "SAAB-B", nil},
	{"Sandvik", "SAND", nil},
	{"SCA", "SCA-B", []string{"svenska cellulosa"}},
	{"SEB", "SEB-A", []string{"skandinaviska enskilda banken"}},
	{"Securitas", "SECU-B", nil},
	{"Sinch", "SINCH", nil},
	{"Skanska", "SKA-B", nil},
	{"SKF", "SKF-B", nil},
	{"SSAB", "SSAB-A", nil},
	{"Swedbank", "SWED-A", nil},
	{"Tele2", "TEL2-B", nil},
	{"Telia", "TELIA", []string{"telia company"}},
	{"Volvo Cars", "VOLCAR-B", nil},
	{"Volvo", "VOLV-B", []string{"ab volvo", "volvo group"}},
}
