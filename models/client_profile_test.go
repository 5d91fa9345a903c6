package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientTypeValid(t *testing.T) {
	assert.True(t, ClientTypeMRO.Valid())
	assert.True(t, ClientTypeVerisma.Valid())
	assert.True(t, ClientTypeDatavant.Valid())
	assert.False(t, ClientType("").Valid())
	assert.False(t, ClientType("unknown").Valid())
}

func TestClientTypeValue(t *testing.T) {
	v, err := ClientTypeMRO.Value()
	require.NoError(t, err)
	assert.Equal(t, "mro", v)

	_, err = ClientType("bogus").Value()
	assert.Error(t, err)
}

func TestClientTypeScan(t *testing.T) {
	var ct ClientType
	require.NoError(t, ct.Scan("verisma"))
	assert.Equal(t, ClientTypeVerisma, ct)

	require.NoError(t, ct.Scan([]byte("datavant")))
	assert.Equal(t, ClientTypeDatavant, ct)

	require.NoError(t, ct.Scan(nil))
	assert.Equal(t, ClientType(""), ct)

	assert.Error(t, ct.Scan(42))
}

func TestAllClientTypes(t *testing.T) {
	assert.Equal(t, []ClientType{ClientTypeMRO, ClientTypeVerisma, ClientTypeDatavant}, AllClientTypes())
}

func TestProfileFor(t *testing.T) {
	tests := []struct {
		name             string
		client           ClientType
		displayName      string
		allowsMultiCount bool
	}{
		{name: "mro", client: ClientTypeMRO, displayName: "MRO", allowsMultiCount: false},
		{name: "verisma", client: ClientTypeVerisma, displayName: "Verisma", allowsMultiCount: true},
		{name: "datavant", client: ClientTypeDatavant, displayName: "Datavant", allowsMultiCount: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, ok := ProfileFor(tt.client)
			require.True(t, ok)
			assert.Equal(t, tt.client, profile.Client)
			assert.Equal(t, tt.displayName, profile.DisplayName)
			assert.Equal(t, tt.allowsMultiCount, profile.AllowsMultiCount)

			// Every client identifies duplicates against the same primary type
			assert.Equal(t, RequestTypeNewRequest, profile.PrimaryRequestType)
			assert.Equal(t, RequestTypeDuplicate, profile.FallbackRequestType)
			assert.True(t, profile.IsPrimary(RequestTypeNewRequest))
			assert.False(t, profile.IsPrimary(RequestTypeDuplicate))
		})
	}

	_, ok := ProfileFor(ClientType("unknown"))
	assert.False(t, ok)
}

func TestValidRequestType(t *testing.T) {
	tests := []struct {
		name        string
		client      ClientType
		requestType RequestType
		expected    bool
	}{
		{name: "mro accepts key", client: ClientTypeMRO, requestType: RequestTypeKey, expected: true},
		{name: "mro accepts follow up", client: ClientTypeMRO, requestType: RequestTypeFollowUp, expected: true},
		{name: "mro rejects batch", client: ClientTypeMRO, requestType: RequestTypeBatch, expected: false},
		{name: "verisma accepts batch", client: ClientTypeVerisma, requestType: RequestTypeBatch, expected: true},
		{name: "verisma rejects key", client: ClientTypeVerisma, requestType: RequestTypeKey, expected: false},
		{name: "datavant accepts key", client: ClientTypeDatavant, requestType: RequestTypeKey, expected: true},
		{name: "datavant rejects follow up", client: ClientTypeDatavant, requestType: RequestTypeFollowUp, expected: false},
		{name: "empty request type rejected", client: ClientTypeMRO, requestType: RequestType(""), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, ok := ProfileFor(tt.client)
			require.True(t, ok)
			assert.Equal(t, tt.expected, profile.ValidRequestType(tt.requestType))
		})
	}
}

func TestValidRequestorType(t *testing.T) {
	mro, ok := ProfileFor(ClientTypeMRO)
	require.True(t, ok)
	datavant, ok := ProfileFor(ClientTypeDatavant)
	require.True(t, ok)

	// Empty is always accepted since not every client tracks requestors
	assert.True(t, mro.ValidRequestorType(""))
	assert.True(t, datavant.ValidRequestorType(""))

	assert.True(t, mro.ValidRequestorType(RequestorTypeAttorney))
	assert.False(t, mro.ValidRequestorType(RequestorTypePayer))

	assert.True(t, datavant.ValidRequestorType(RequestorTypePayer))
	assert.False(t, datavant.ValidRequestorType(RequestorTypePatient))
}

func TestValidTaskType(t *testing.T) {
	mro, ok := ProfileFor(ClientTypeMRO)
	require.True(t, ok)
	datavant, ok := ProfileFor(ClientTypeDatavant)
	require.True(t, ok)

	// Empty passes everywhere; a concrete task type needs the client to define some
	assert.True(t, mro.ValidTaskType(""))
	assert.False(t, mro.ValidTaskType(TaskTypeSTAT))

	assert.True(t, datavant.ValidTaskType(""))
	assert.True(t, datavant.ValidTaskType(TaskTypeSTAT))
	assert.True(t, datavant.ValidTaskType(TaskTypeCertified))
}

func TestGetRequestTypeDisplayName(t *testing.T) {
	assert.Equal(t, "New Request", GetRequestTypeDisplayName(RequestTypeNewRequest))
	assert.Equal(t, "Duplicate", GetRequestTypeDisplayName(RequestTypeDuplicate))
	assert.Equal(t, "Follow Up", GetRequestTypeDisplayName(RequestTypeFollowUp))
	assert.Equal(t, "custom", GetRequestTypeDisplayName(RequestType("custom")))
}
