package universe

import "MarketVault/internal/model"

// defaultCandidates seeds the candidate pool when no CSV exists yet: a broad
// set of liquid non-US listings and ADRs. More rows are always welcome.
var defaultCandidates = []model.Candidate{
	{Symbol: "TSM", Name: "Taiwan Semiconductor Manufacturing"},
	{Symbol: "BABA", Name: "Alibaba Group"},
	{Symbol: "ASML", Name: "ASML Holding"},
	{Symbol: "TM", Name: "Toyota Motor"},
	{Symbol: "NVO", Name: "Novo Nordisk"},
	{Symbol: "NSRGY", Name: "Nestle"},
	{Symbol: "RHHBY", Name: "Roche Holding"},
	{Symbol: "LVMUY", Name: "LVMH Moet Hennessy Louis Vuitton"},
	{Symbol: "SHEL", Name: "Shell"},
	{Symbol: "BP", Name: "BP"},
	{Symbol: "RIO", Name: "Rio Tinto"},
	{Symbol: "BHP", Name: "BHP Group"},
	{Symbol: "HSBC", Name: "HSBC Holdings"},
	{Symbol: "SONY", Name: "Sony Group"},
	{Symbol: "SAP", Name: "SAP"},
	{Symbol: "UL", Name: "Unilever"},
	{Symbol: "NVS", Name: "Novartis"},
	{Symbol: "AZN", Name: "AstraZeneca"},
	{Symbol: "GSK", Name: "GSK"},
	{Symbol: "SNY", Name: "Sanofi"},
	{Symbol: "VWAGY", Name: "Volkswagen"},
	{Symbol: "OR", Name: "L'Oreal"},
	{Symbol: "BUD", Name: "Anheuser-Busch InBev"},
	{Symbol: "TTE", Name: "TotalEnergies"},
	{Symbol: "ENB", Name: "Enbridge"},
	{Symbol: "EQNR", Name: "Equinor"},
	{Symbol: "SU", Name: "Suncor Energy"},
	{Symbol: "CNQ", Name: "Canadian Natural Resources"},
	{Symbol: "SHOP", Name: "Shopify"},
	{Symbol: "TCEHY", Name: "Tencent"},
	{Symbol: "JD", Name: "JD.com"},
	{Symbol: "PDD", Name: "PDD Holdings"},
	{Symbol: "NIO", Name: "NIO"},
	{Symbol: "LI", Name: "Li Auto"},
	{Symbol: "XPEV", Name: "XPeng"},
	{Symbol: "HMC", Name: "Honda Motor"},
	{Symbol: "SMFG", Name: "Sumitomo Mitsui Financial"},
	{Symbol: "MFG", Name: "Mizuho Financial"},
	{Symbol: "MUFG", Name: "Mitsubishi UFJ Financial"},
	{Symbol: "SFTBY", Name: "SoftBank Group"},
	{Symbol: "KB", Name: "KB Financial Group"},
	{Symbol: "KT", Name: "KT Corporation"},
	{Symbol: "SKM", Name: "SK Telecom"},
	{Symbol: "CHT", Name: "Chunghwa Telecom"},
	{Symbol: "SNP", Name: "China Petroleum & Chemical"},
	{Symbol: "PTR", Name: "PetroChina"},
	{Symbol: "LFC", Name: "China Life Insurance"},
	{Symbol: "PNGAY", Name: "Ping An Insurance"},
	{Symbol: "BIDU", Name: "Baidu"},
	{Symbol: "NTES", Name: "NetEase"},
	{Symbol: "CM", Name: "Canadian Imperial Bank of Commerce"},
	{Symbol: "BMO", Name: "Bank of Montreal"},
	{Symbol: "RY", Name: "Royal Bank of Canada"},
	{Symbol: "TD", Name: "Toronto-Dominion Bank"},
	{Symbol: "BNS", Name: "Bank of Nova Scotia"},
	{Symbol: "ING", Name: "ING Groep"},
	{Symbol: "BBVA", Name: "Banco Bilbao Vizcaya Argentaria"},
	{Symbol: "SAN", Name: "Banco Santander"},
	{Symbol: "UBS", Name: "UBS Group"},
	{Symbol: "DB", Name: "Deutsche Bank"},
	{Symbol: "PHG", Name: "Koninklijke Philips"},
	{Symbol: "AEG", Name: "Aegon"},
	{Symbol: "ABB", Name: "ABB"},
	{Symbol: "NOK", Name: "Nokia"},
	{Symbol: "ERIC", Name: "Ericsson"},
	{Symbol: "STLA", Name: "Stellantis"},
	{Symbol: "BYDDY", Name: "BYD"},
	{Symbol: "LPL", Name: "LG Display"},
	{Symbol: "CRH", Name: "CRH plc"},
	{Symbol: "AMX", Name: "America Movil"},
	{Symbol: "IBN", Name: "ICICI Bank"},
	{Symbol: "HDB", Name: "HDFC Bank"},
	{Symbol: "VOD", Name: "Vodafone"},
	{Symbol: "TEF", Name: "Telefonica"},
	{Symbol: "CHA", Name: "China Telecom"},
	{Symbol: "LYG", Name: "Lloyds Banking Group"},
	{Symbol: "RELX", Name: "RELX"},
	{Symbol: "DTEGY", Name: "Deutsche Telekom"},
	{Symbol: "SIEGY", Name: "Siemens"},
	{Symbol: "DEO", Name: "Diageo"},
	{Symbol: "BTI", Name: "British American Tobacco"},
	{Symbol: "IMBBY", Name: "Imperial Brands"},
	{Symbol: "HEINY", Name: "Heineken"},
	{Symbol: "ADRNY", Name: "Ahold Delhaize"},
	{Symbol: "ITOCY", Name: "Itochu"},
	{Symbol: "MITSY", Name: "Mitsui"},
	{Symbol: "IX", Name: "ORIX"},
	{Symbol: "CAJ", Name: "Canon"},
	{Symbol: "FUJHY", Name: "Subaru"},
	{Symbol: "PKX", Name: "POSCO"},
	{Symbol: "YUMC", Name: "Yum China"},
	{Symbol: "EDU", Name: "New Oriental Education"},
	{Symbol: "TAL", Name: "TAL Education"},
	{Symbol: "VIPS", Name: "Vipshop"},
	{Symbol: "GRFS", Name: "Grifols"},
	{Symbol: "SID", Name: "Companhia Siderurgica Nacional"},
	{Symbol: "VALE", Name: "Vale"},
	{Symbol: "SBSW", Name: "Sibanye Stillwater"},
	{Symbol: "GLNCY", Name: "Glencore"},
	{Symbol: "NGLOY", Name: "Anglo American"},
	{Symbol: "GOLD", Name: "Barrick Gold"},
	{Symbol: "AEM", Name: "Agnico Eagle Mines"},
	{Symbol: "WPM", Name: "Wheaton Precious Metals"},
	{Symbol: "FNV", Name: "Franco-Nevada"},
	{Symbol: "FMX", Name: "Fomento Economico Mexicano"},
	{Symbol: "CPNG", Name: "Coupang"},
	{Symbol: "SE", Name: "Sea Limited"},
	{Symbol: "ARM", Name: "Arm Holdings"},
	{Symbol: "NGG", Name: "National Grid"},
	{Symbol: "PUK", Name: "Prudential plc"},
	{Symbol: "ENLAY", Name: "Enel"},
	{Symbol: "EDPFY", Name: "EDP - Energias de Portugal"},
	{Symbol: "IBDRY", Name: "Iberdrola"},
	{Symbol: "ORAN", Name: "Orange"},
	{Symbol: "TEVA", Name: "Teva Pharmaceutical"},
	{Symbol: "GELYF", Name: "Geely Automobile"},
	{Symbol: "CKHUY", Name: "CK Hutchison"},
}

// DefaultCandidates returns a copy of the built-in candidate pool.
func DefaultCandidates() []model.Candidate {
	out := make([]model.Candidate, len(defaultCandidates))
	copy(out, defaultCandidates)
	return out
}
