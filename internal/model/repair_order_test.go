package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairOrderSnapshot_UnmarshalJSON(t *testing.T) {
	body := `{
		"id": 1001,
		"laborRate": 15000,
		"vehicle": {"make": " Honda ", "model": "Civic"},
		"appointmentOption": {"id": 2, "code": "WAIT"},
		"customerTimeIn": "2024-03-01T08:00:00Z",
		"technicianId": 42,
		"keytag": "K-7",
		"notes": null,
		"saveCustomerParts": false
	}`

	var snap RepairOrderSnapshot
	require.NoError(t, json.Unmarshal([]byte(body), &snap))

	assert.Equal(t, 15000, snap.LaborRate)
	assert.Equal(t, "Honda", snap.VehicleMake)
	assert.Len(t, snap.PassThrough, 6)
	assert.JSONEq(t, `{"id": 2, "code": "WAIT"}`, string(snap.PassThrough["appointmentOption"]))
	assert.Equal(t, "42", string(snap.PassThrough["technicianId"]))
	assert.Equal(t, "false", string(snap.PassThrough["saveCustomerParts"]))
	assert.Equal(t, "null", string(snap.PassThrough["notes"]))
	assert.NotContains(t, snap.PassThrough, "poNumber")
}

func TestRepairOrderSnapshot_MissingVehicle(t *testing.T) {
	var snap RepairOrderSnapshot
	require.NoError(t, json.Unmarshal([]byte(`{"laborRate": 12000, "vehicle": null}`), &snap))

	assert.Equal(t, 12000, snap.LaborRate)
	assert.Empty(t, snap.VehicleMake)
}

func TestRepairOrderSnapshot_SummaryUpdate(t *testing.T) {
	var snap RepairOrderSnapshot
	require.NoError(t, json.Unmarshal([]byte(`{"laborRate": 15000, "keytag": "K-7", "leadSource": "Google"}`), &snap))

	payload := snap.SummaryUpdate(16000)
	data, err := json.Marshal(payload)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.EqualValues(t, 16000, decoded["laborRate"])
	assert.Equal(t, "K-7", decoded["keytag"])
	assert.Equal(t, "Google", decoded["leadSource"])
	assert.Len(t, decoded, 3)
}

func TestRepairOrderSnapshot_SummaryUpdateOmitsAbsentFields(t *testing.T) {
	var snap RepairOrderSnapshot
	body := `{"laborRate": 15000, "vehicle": {"make": "Honda"}, "notes": "hi", "poNumber": null}`
	require.NoError(t, json.Unmarshal([]byte(body), &snap))

	data, err := json.Marshal(snap.SummaryUpdate(16000))
	require.NoError(t, err)

	assert.JSONEq(t, `{"laborRate": 16000, "notes": "hi", "poNumber": null}`, string(data))
}

func TestAuthSession_Valid(t *testing.T) {
	assert.True(t, AuthSession{Token: "abc", ShopID: "469"}.Valid())
	assert.False(t, AuthSession{Token: "abc"}.Valid())
	assert.False(t, AuthSession{ShopID: "469"}.Valid())
	assert.False(t, AuthSession{}.Valid())
}
