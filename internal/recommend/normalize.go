package recommend

// UnnamedPlace is used when a result carries no name.
const UnnamedPlace = "Unnamed place"

// Normalize flattens every result group into one list, defaulting each field
// independently. Flat legacy items are accepted alongside groups. A nil
// response yields an empty list.
func Normalize(resp *Response, w Weights) []Recommendation {
	out := []Recommendation{}
	if resp == nil {
		return out
	}

	for _, item := range resp.Results {
		if item.RecommendedPlaces != nil {
			for _, p := range item.RecommendedPlaces {
				out = append(out, fromPlace(p, w))
			}
			continue
		}
		if item.Name != nil {
			out = append(out, fromLegacy(item))
		}
	}
	return out
}

func fromPlace(p PlaceItem, w Weights) Recommendation {
	sim := p.Similarity
	if sim == nil {
		sim = &SimilarityItem{}
	}
	coords := p.Coordinates
	if coords == nil {
		coords = &CoordinatesItem{}
	}

	r := Recommendation{
		Name:              orString(p.Name, UnnamedPlace),
		Rating:            orZero(p.Rating),
		Address:           orString(p.Address, ""),
		DrivingDistanceKm: orZero(p.DrivingDistanceKm),
		GeminiSimilarity:  orZero(sim.GeminiSimilarity),
		SimilarityScore:   orZero(sim.SimilarityScore),
		DistanceScore:     orZero(sim.DistanceScore),
		DensityScore:      orZero(sim.DensityScore),
		Reasoning:         orString(sim.Reasoning, ""),
		Pros:              firstList(sim.Pros, p.Pros),
		Cons:              firstList(sim.Cons, p.Cons),
		Latitude:          orZero(coords.Lat),
		Longitude:         orZero(coords.Lng),
	}
	r.SimilarityPercent = w.Percent(r.GeminiSimilarity, r.SimilarityScore, r.DistanceScore, r.DensityScore)
	return r
}

// fromLegacy maps the flat shape, whose score is already a 0..1 blend.
func fromLegacy(item ResultItem) Recommendation {
	return Recommendation{
		Name:              orString(item.Name, UnnamedPlace),
		Rating:            orZero(item.UserRating),
		DrivingDistanceKm: orZero(item.DistanceKm),
		Pros:              firstList(item.Pros),
		Cons:              firstList(item.Cons),
		SimilarityPercent: clampPercent(orZero(item.Score) * 100),
	}
}

func orZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func orString(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}

func firstList(lists ...[]string) []string {
	for _, l := range lists {
		if l != nil {
			return l
		}
	}
	return []string{}
}
