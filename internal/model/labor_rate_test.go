package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLaborRateGroup_HasMake(t *testing.T) {
	group := LaborRateGroup{Name: "Asian", Makes: []string{"Honda", " Toyota "}, LaborRate: 16000}

	assert.True(t, group.HasMake("honda"))
	assert.True(t, group.HasMake("TOYOTA"))
	assert.False(t, group.HasMake("Ford"))
	assert.False(t, group.HasMake(""))
	assert.False(t, group.HasMake("   "))
}

func TestFindLaborRateGroup(t *testing.T) {
	groups := []LaborRateGroup{
		{Name: "Domestic", Makes: []string{"Ford", "Chevrolet"}, LaborRate: 14000},
		{Name: "Asian", Makes: []string{"Honda", "Toyota"}, LaborRate: 16000},
		{Name: "Overlap", Makes: []string{"honda"}, LaborRate: 99000},
	}

	tests := []struct {
		name     string
		make     string
		wantName string
		wantOK   bool
	}{
		{name: "first group", make: "ford", wantName: "Domestic", wantOK: true},
		{name: "first match wins over later overlap", make: "Honda", wantName: "Asian", wantOK: true},
		{name: "no group", make: "BMW", wantOK: false},
		{name: "empty make", make: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindLaborRateGroup(groups, tt.make)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, got.Name)
		})
	}
}
