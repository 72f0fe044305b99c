package normalize

// DefaultTables returns the shipped lookup tables. The lists skew
// toward the NZ retail market the chains sell into.
func DefaultTables() Tables {
	return Tables{
		Brands: []string{
			// beer
			"Asahi", "Steinlager", "Speight's", "Tui", "Export Gold", "Lion Red",
			"Corona", "Heineken", "Stella Artois", "Peroni", "Guinness", "Sapporo",
			"Garage Project", "Panhead", "Parrotdog", "Sawmill", "Emerson's",
			"Monteith's", "Mac's", "Behemoth", "Epic", "Tuatara",
			// wine
			"Oyster Bay", "Villa Maria", "Cloudy Bay", "Brancott Estate",
			"Stoneleigh", "Matua", "Wither Hills", "Mission Estate", "Church Road",
			"Yealands", "Lindauer", "Moet & Chandon", "Veuve Clicquot",
			// whisky
			"Jim Beam", "Jack Daniel's", "Johnnie Walker", "Glenfiddich",
			"Glenmorangie", "Laphroaig", "Jameson", "Chivas Regal", "Maker's Mark",
			"Woodford Reserve", "Wild Turkey", "Canadian Club", "Famous Grouse",
			// other spirits
			"Smirnoff", "Absolut", "Grey Goose", "Ketel One", "Gordon's",
			"Bombay Sapphire", "Tanqueray", "Hendrick's", "Scapegrace", "Bacardi",
			"Captain Morgan", "Appleton Estate", "Jose Cuervo", "Patron",
			"Baileys", "Kahlua", "Malibu", "Jagermeister",
			// cider and RTD
			"Old Mout", "Rekorderlig", "Somersby", "Zeffer", "Pals",
			"Part Time Rangers", "Long White", "Cruiser", "Codys", "KGB",
		},
		CategoryRules: []CategoryRule{
			{Keyword: "craft beer", Top: "beer", Sub: "craft_beer"},
			{Keyword: "hazy ipa", Top: "beer", Sub: "craft_beer"},
			{Keyword: "ipa", Top: "beer", Sub: "craft_beer"},
			{Keyword: "pale ale", Top: "beer", Sub: "craft_beer"},
			{Keyword: "xpa", Top: "beer", Sub: "craft_beer"},
			{Keyword: "pilsner", Top: "beer", Sub: "lager"},
			{Keyword: "lager", Top: "beer", Sub: "lager"},
			{Keyword: "stout", Top: "beer", Sub: "dark_beer"},
			{Keyword: "porter", Top: "beer", Sub: "dark_beer"},
			{Keyword: "beer", Top: "beer"},
			{Keyword: "sauvignon blanc", Top: "wine", Sub: "white_wine"},
			{Keyword: "chardonnay", Top: "wine", Sub: "white_wine"},
			{Keyword: "pinot gris", Top: "wine", Sub: "white_wine"},
			{Keyword: "riesling", Top: "wine", Sub: "white_wine"},
			{Keyword: "pinot noir", Top: "wine", Sub: "red_wine"},
			{Keyword: "merlot", Top: "wine", Sub: "red_wine"},
			{Keyword: "cabernet", Top: "wine", Sub: "red_wine"},
			{Keyword: "syrah", Top: "wine", Sub: "red_wine"},
			{Keyword: "shiraz", Top: "wine", Sub: "red_wine"},
			{Keyword: "malbec", Top: "wine", Sub: "red_wine"},
			{Keyword: "rosé", Top: "wine", Sub: "rose_wine"},
			{Keyword: "prosecco", Top: "wine", Sub: "sparkling_wine"},
			{Keyword: "champagne", Top: "wine", Sub: "sparkling_wine"},
			{Keyword: "sparkling", Top: "wine", Sub: "sparkling_wine"},
			{Keyword: "wine", Top: "wine"},
			{Keyword: "single malt", Top: "spirits", Sub: "whisky"},
			{Keyword: "scotch", Top: "spirits", Sub: "whisky"},
			{Keyword: "bourbon", Top: "spirits", Sub: "bourbon"},
			{Keyword: "whisky", Top: "spirits", Sub: "whisky"},
			{Keyword: "whiskey", Top: "spirits", Sub: "whisky"},
			{Keyword: "gin", Top: "spirits", Sub: "gin"},
			{Keyword: "vodka", Top: "spirits", Sub: "vodka"},
			{Keyword: "rum", Top: "spirits", Sub: "rum"},
			{Keyword: "tequila", Top: "spirits", Sub: "tequila"},
			{Keyword: "liqueur", Top: "spirits", Sub: "liqueur"},
			{Keyword: "schnapps", Top: "spirits", Sub: "liqueur"},
			{Keyword: "brandy", Top: "spirits", Sub: "brandy"},
			{Keyword: "cognac", Top: "spirits", Sub: "brandy"},
			{Keyword: "cider", Top: "cider"},
			{Keyword: "seltzer", Top: "rtd"},
			{Keyword: "premix", Top: "rtd"},
			{Keyword: "rtd", Top: "rtd"},
		},
		BrandCategories: map[string]Category{
			"Steinlager":      {Top: "beer", Sub: "lager"},
			"Heineken":        {Top: "beer", Sub: "lager"},
			"Corona":          {Top: "beer", Sub: "lager"},
			"Garage Project":  {Top: "beer", Sub: "craft_beer"},
			"Panhead":         {Top: "beer", Sub: "craft_beer"},
			"Parrotdog":       {Top: "beer", Sub: "craft_beer"},
			"Guinness":        {Top: "beer", Sub: "dark_beer"},
			"Oyster Bay":      {Top: "wine"},
			"Villa Maria":     {Top: "wine"},
			"Cloudy Bay":      {Top: "wine"},
			"Lindauer":        {Top: "wine", Sub: "sparkling_wine"},
			"Moet & Chandon":  {Top: "wine", Sub: "sparkling_wine"},
			"Johnnie Walker":  {Top: "spirits", Sub: "whisky"},
			"Glenfiddich":     {Top: "spirits", Sub: "whisky"},
			"Jim Beam":        {Top: "spirits", Sub: "bourbon"},
			"Jack Daniel's":   {Top: "spirits", Sub: "whisky"},
			"Smirnoff":        {Top: "spirits", Sub: "vodka"},
			"Absolut":         {Top: "spirits", Sub: "vodka"},
			"Gordon's":        {Top: "spirits", Sub: "gin"},
			"Scapegrace":      {Top: "spirits", Sub: "gin"},
			"Bacardi":         {Top: "spirits", Sub: "rum"},
			"Captain Morgan":  {Top: "spirits", Sub: "rum"},
			"Baileys":         {Top: "spirits", Sub: "liqueur"},
			"Old Mout":        {Top: "cider"},
			"Zeffer":          {Top: "cider"},
			"Pals":            {Top: "rtd"},
			"Long White":      {Top: "rtd"},
		},
	}
}
