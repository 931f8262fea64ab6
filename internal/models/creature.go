package models

import (
	"strings"
	"time"
)

// Creature ids are a fixed enum shared by sightings, filters, and stats.
const (
	CreatureGhost   = 1
	CreatureBigfoot = 2
	CreatureDragon  = 3
	CreatureAlien   = 4
	CreatureVampire = 5
)

var creatureNames = map[int]string{
	CreatureGhost:   "ghost",
	CreatureBigfoot: "bigfoot",
	CreatureDragon:  "dragon",
	CreatureAlien:   "alien",
	CreatureVampire: "vampire",
}

// CreatureName returns the display name for a creature id, or "Unknown".
func CreatureName(id int) string {
	if name, ok := creatureNames[id]; ok {
		return name
	}
	return "Unknown"
}

// CreatureIDByName maps a case-insensitive creature name to its id.
func CreatureIDByName(name string) (int, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for id, n := range creatureNames {
		if n == name {
			return id, true
		}
	}
	return 0, false
}

// ValidCreatureID reports whether id is in the enum.
func ValidCreatureID(id int) bool {
	_, ok := creatureNames[id]
	return ok
}

// Season buckets group calendar months; used by the geospatial filter.
const (
	SeasonSpring = "spring"
	SeasonSummer = "summer"
	SeasonFall   = "fall"
	SeasonWinter = "winter"
)

// SeasonOf maps a month to its bucket: Mar-May spring, Jun-Aug summer,
// Sep-Nov fall, Dec-Feb winter.
func SeasonOf(t time.Time) string {
	switch t.Month() {
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	case time.September, time.October, time.November:
		return SeasonFall
	default:
		return SeasonWinter
	}
}

// ValidSeason reports whether s is a recognized season bucket.
func ValidSeason(s string) bool {
	switch strings.ToLower(s) {
	case SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter:
		return true
	}
	return false
}
