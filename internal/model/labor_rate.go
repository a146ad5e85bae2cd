package model

import "strings"

// LaborRateGroup maps a set of vehicle makes to the labor rate the shop charges for them.
type LaborRateGroup struct {
	Name      string   `json:"name"`
	Makes     []string `json:"makes"`
	LaborRate int      `json:"laborRate"` // cents
}

// HasMake reports whether the group contains the given make, ignoring case.
func (g LaborRateGroup) HasMake(vehicleMake string) bool {
	vehicleMake = strings.TrimSpace(vehicleMake)
	if vehicleMake == "" {
		return false
	}
	for _, m := range g.Makes {
		if strings.EqualFold(strings.TrimSpace(m), vehicleMake) {
			return true
		}
	}
	return false
}

// FindLaborRateGroup returns the first group in groups that contains the given vehicle make.
func FindLaborRateGroup(groups []LaborRateGroup, vehicleMake string) (LaborRateGroup, bool) {
	for _, g := range groups {
		if g.HasMake(vehicleMake) {
			return g, true
		}
	}
	return LaborRateGroup{}, false
}
