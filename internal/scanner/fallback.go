package scanner

import "resellscan/internal/models"

// Fallback is a local, barcode-keyed dataset consulted only when the remote
// lookup fails for a non-"not found" reason. It is injectable so tests and
// deployments can substitute their own table.
type Fallback interface {
	Lookup(barcode string) (models.ScanResult, bool)
}

// StaticFallback is a fixed in-memory fallback table.
type StaticFallback struct {
	results map[string]models.ScanResult
}

func NewStaticFallback(results map[string]models.ScanResult) *StaticFallback {
	if results == nil {
		results = map[string]models.ScanResult{}
	}
	return &StaticFallback{results: results}
}

func (f *StaticFallback) Lookup(barcode string) (models.ScanResult, bool) {
	result, ok := f.results[barcode]
	return result, ok
}

// DefaultResult is the hard-coded result used when a failed lookup has no
// fallback table entry either.
func DefaultResult() models.ScanResult {
	return models.ScanResult{
		Title:          "Unknown Item",
		Category:       "Unknown",
		ItemType:       models.ItemTypeOther,
		Recommendation: models.RecommendationDiscard,
		Margin:         "0%",
	}
}

// DefaultFallback returns the built-in offline table. It covers a handful
// of common test barcodes so scanning stays usable during API outages.
func DefaultFallback() *StaticFallback {
	return NewStaticFallback(map[string]models.ScanResult{
		"0000000000001": {
			Title:          "The Pragmatic Programmer",
			Category:       "Books",
			ItemType:       models.ItemTypeBooks,
			CurrentPrice:   12.50,
			SuggestedPrice: 18.99,
			Recommendation: models.RecommendationKeep,
			Profit:         6.49,
			Margin:         "34%",
			Author:         "Hunt & Thomas",
			Publisher:      "Addison-Wesley",
		},
		"0000000000002": {
			Title:          "The Legend of Zelda: Breath of the Wild",
			Category:       "Video Games",
			ItemType:       models.ItemTypeVideoGames,
			CurrentPrice:   29.99,
			SuggestedPrice: 34.50,
			Recommendation: models.RecommendationWarn,
			Profit:         4.51,
			Margin:         "13%",
			Platform:       "Nintendo Switch",
		},
		"0000000000003": {
			Title:          "Abbey Road (Remastered)",
			Category:       "Music",
			ItemType:       models.ItemTypeMusic,
			CurrentPrice:   9.99,
			SuggestedPrice: 9.49,
			Recommendation: models.RecommendationDiscard,
			Profit:         -0.50,
			Margin:         "-5%",
			Publisher:      "Apple Records",
		},
	})
}
