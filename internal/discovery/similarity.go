package discovery

// Component weights. They sum to 100, so a pair score is already a
// percentage.
const (
	interestWeight  = 40.0
	valuesWeight    = 30.0
	locationWeight  = 15.0
	lifestyleWeight = 10.0
	goalsWeight     = 5.0

	// Distance at which the location component bottoms out.
	locationDecayKm = 30.0
)

// overlapScore scores two tag sets by shared-element ratio, normalized by the
// larger set. Either set empty means no signal, not a mismatch: score 0.
func overlapScore(a, b []string, weight float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	seen := make(map[string]struct{}, len(a))
	for _, tag := range a {
		seen[tag] = struct{}{}
	}

	shared := 0
	counted := make(map[string]struct{}, len(b))
	for _, tag := range b {
		if _, dup := counted[tag]; dup {
			continue
		}
		counted[tag] = struct{}{}
		if _, ok := seen[tag]; ok {
			shared++
		}
	}

	larger := len(seen)
	if len(counted) > larger {
		larger = len(counted)
	}

	return float64(shared) / float64(larger) * weight
}

// fieldPair is one categorical field from two records of the same shape.
type fieldPair struct {
	a, b *string
}

// fieldMatchScore scores field-by-field equality across two records. Only
// fields answered on both sides count toward the denominator; a record with
// no comparable answers scores 0.
func fieldMatchScore(pairs []fieldPair, weight float64) float64 {
	matches := 0
	checked := 0
	for _, p := range pairs {
		if p.a == nil || p.b == nil {
			continue
		}
		checked++
		if *p.a == *p.b {
			matches++
		}
	}

	if checked == 0 {
		return 0
	}
	return float64(matches) / float64(checked) * weight
}

// locationScore decays linearly from full weight at 0 km to nothing at
// locationDecayKm and beyond. Missing coordinates contribute 0.
func locationScore(a, b *Coordinate) float64 {
	if a == nil || b == nil {
		return 0
	}

	dist := HaversineKm(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
	if dist > locationDecayKm {
		dist = locationDecayKm
	}

	score := (1 - dist/locationDecayKm) * locationWeight
	if score < 0 {
		return 0
	}
	return score
}

// lifestylePairs lists the lifestyle fields the scorer compares.
func lifestylePairs(a, b *LifestylePreferences) []fieldPair {
	return []fieldPair{
		{a.Smoking, b.Smoking},
		{a.Drinking, b.Drinking},
		{a.Diet, b.Diet},
		{a.SocialLifestyle, b.SocialLifestyle},
	}
}

// goalsPairs lists the life-goal fields the scorer compares.
func goalsPairs(a, b *LifeGoals) []fieldPair {
	return []fieldPair{
		{a.WantsKids, b.WantsKids},
		{a.MarriageTimeline, b.MarriageTimeline},
		{a.RelationshipType, b.RelationshipType},
	}
}
