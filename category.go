package tdv

// Category is a relation kind. Each category owns a contiguous block of
// the feature space, vocabulary-size wide (the POS block is as wide as the
// number of distinct POS tags).
type Category int

const (
	CatWeak Category = iota
	CatStrong
	CatContext
	CatSynonym
	CatHypernym
	CatHomonym
	CatAbbreviation
	CatEtymLink
	CatPrefix
	CatSuffix
	CatConfix
	CatAffix
	CatStem
	CatTranslation
	CatPOS
)

var categoryNames = [...]string{
	"WEAK", "STRONG", "CONTEXT", "SYNONYM", "HYPERNYM", "HOMONYM", "ABBREVIATION",
	"ETYM_LINK", "PREFIX", "SUFFIX", "CONFIX", "AFFIX", "STEM", "TRANSLATION", "POS",
}

// String returns the upper-case category name used in named exports.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "UNKNOWN"
	}
	return categoryNames[c]
}

// decompCategory maps an etymology decomposition field to its category.
func decompCategory(field string) Category {
	switch field {
	case "prefix":
		return CatPrefix
	case "suffix":
		return CatSuffix
	case "confix":
		return CatConfix
	case "affix":
		return CatAffix
	default:
		return CatStem
	}
}
