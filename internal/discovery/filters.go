package discovery

// Candidate predicates shared by the two feeds. Verification and soft-delete
// are hard requirements enforced here even though the pool query already
// filters on them, so a stale or hand-built pool cannot leak a deactivated
// profile.

func passesHardRequirements(c *Candidate) bool {
	return c.IsVerified && c.DeletedAt == nil
}

// passesAgeBand applies the viewer's age range. Candidates without a stated
// age pass; the band only constrains known ages.
func passesAgeBand(c *Candidate, minAge, maxAge int) bool {
	if c.Age == nil {
		return true
	}
	return *c.Age >= minAge && *c.Age <= maxAge
}

// passesDistance applies a radius bound. The bound only applies when both
// sides have a coordinate.
func passesDistance(c *Candidate, viewer *Coordinate, maxKm float64) bool {
	loc := c.Coordinate()
	if loc == nil || viewer == nil {
		return true
	}
	return HaversineKm(viewer.Latitude, viewer.Longitude, loc.Latitude, loc.Longitude) <= maxKm
}

// passesPhotoRequirement applies the saved show_only_with_photo switch.
func passesPhotoRequirement(c *Candidate, required bool) bool {
	return !required || c.PhotoCount > 0
}
