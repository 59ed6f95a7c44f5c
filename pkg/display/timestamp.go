package display

import (
	"time"

	"github.com/fueltrust/ship-estimator/pkg/constants"
	"github.com/fueltrust/ship-estimator/pkg/datetime"
)

// LoadZone resolves the display timezone by name, falling back to UTC when
// the zone database does not know it.
func LoadZone(name string) *time.Location {
	if name == "" {
		name = constants.DefaultDisplayZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Timestamp renders an externally-supplied timestamp in the display zone as
// "02 January 2006 15:04 MST". A timestamp without a zone offset is assumed
// UTC. An unparsable timestamp is returned unchanged.
func Timestamp(raw string, zone *time.Location) string {
	t, err := datetime.ParseInstant(raw)
	if err != nil {
		return raw
	}
	if zone == nil {
		zone = time.UTC
	}
	return t.In(zone).Format(constants.DisplayTimeLayout)
}
