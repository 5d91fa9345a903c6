package models

import (
	"database/sql/driver"
	"fmt"
)

// ClientType identifies which client ledger an allocation entry belongs to
type ClientType string

const (
	ClientTypeMRO      ClientType = "mro"
	ClientTypeVerisma  ClientType = "verisma"
	ClientTypeDatavant ClientType = "datavant"
)

// String returns the string representation of the client type
func (ct ClientType) String() string {
	return string(ct)
}

// Valid checks if the client type is valid
func (ct ClientType) Valid() bool {
	switch ct {
	case ClientTypeMRO, ClientTypeVerisma, ClientTypeDatavant:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for ClientType
func (ct *ClientType) Scan(value any) error {
	if value == nil {
		*ct = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*ct = ClientType(v)
	case []byte:
		*ct = ClientType(string(v))
	default:
		return fmt.Errorf("cannot scan %T into ClientType", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for ClientType
func (ct ClientType) Value() (driver.Value, error) {
	if !ct.Valid() {
		return nil, fmt.Errorf("invalid ClientType: %s", ct)
	}
	return string(ct), nil
}

// AllClientTypes lists every configured client ledger in a stable order
func AllClientTypes() []ClientType {
	return []ClientType{ClientTypeMRO, ClientTypeVerisma, ClientTypeDatavant}
}

// RequestType classifies an allocation entry within its client ledger. The set
// of legal values differs per client; see ClientProfile.
type RequestType string

const (
	RequestTypeNewRequest RequestType = "new_request"
	RequestTypeDuplicate  RequestType = "duplicate"
	RequestTypeKey        RequestType = "key"
	RequestTypeFollowUp   RequestType = "follow_up"
	RequestTypeBatch      RequestType = "batch"
)

// String returns the string representation of the request type
func (rt RequestType) String() string {
	return string(rt)
}

// Scan implements the sql.Scanner interface for RequestType
func (rt *RequestType) Scan(value any) error {
	if value == nil {
		*rt = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*rt = RequestType(v)
	case []byte:
		*rt = RequestType(string(v))
	default:
		return fmt.Errorf("cannot scan %T into RequestType", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for RequestType
func (rt RequestType) Value() (driver.Value, error) {
	return string(rt), nil
}

// GetRequestTypeDisplayName returns a human-readable request type name
func GetRequestTypeDisplayName(rt RequestType) string {
	switch rt {
	case RequestTypeNewRequest:
		return "New Request"
	case RequestTypeDuplicate:
		return "Duplicate"
	case RequestTypeKey:
		return "Key"
	case RequestTypeFollowUp:
		return "Follow Up"
	case RequestTypeBatch:
		return "Batch"
	default:
		return string(rt)
	}
}

// RequestorType identifies who asked for the work behind an entry. Client
// specific; may be empty for clients that do not track it.
type RequestorType string

const (
	RequestorTypeAttorney   RequestorType = "attorney"
	RequestorTypeInsurance  RequestorType = "insurance"
	RequestorTypePatient    RequestorType = "patient"
	RequestorTypeProvider   RequestorType = "provider"
	RequestorTypeGovernment RequestorType = "government"
	RequestorTypeDisability RequestorType = "disability"
	RequestorTypeSubpoena   RequestorType = "subpoena"
	RequestorTypePortal     RequestorType = "patient_portal"
	RequestorTypePayer      RequestorType = "payer"
	RequestorTypeAudit      RequestorType = "audit"
	RequestorTypeLegal      RequestorType = "legal"
	RequestorTypeOther      RequestorType = "other"
)

// Scan implements the sql.Scanner interface for RequestorType
func (rt *RequestorType) Scan(value any) error {
	if value == nil {
		*rt = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*rt = RequestorType(v)
	case []byte:
		*rt = RequestorType(string(v))
	default:
		return fmt.Errorf("cannot scan %T into RequestorType", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for RequestorType
func (rt RequestorType) Value() (driver.Value, error) {
	return string(rt), nil
}

// TaskType is an optional secondary classification used by some clients
type TaskType string

const (
	TaskTypeStandard  TaskType = "standard"
	TaskTypeSTAT      TaskType = "stat"
	TaskTypeCertified TaskType = "certified"
)

// Scan implements the sql.Scanner interface for TaskType
func (tt *TaskType) Scan(value any) error {
	if value == nil {
		*tt = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*tt = TaskType(v)
	case []byte:
		*tt = TaskType(string(v))
	default:
		return fmt.Errorf("cannot scan %T into TaskType", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for TaskType
func (tt TaskType) Value() (driver.Value, error) {
	return string(tt), nil
}

// ClientProfile captures per-client ledger behavior in one place: the legal
// classification enums, which request type is the primary one for a business
// identifier, the deterministic fallback suggested when the primary is already
// taken, and whether multi-count entries are accepted.
type ClientProfile struct {
	Client              ClientType
	DisplayName         string
	RequestTypes        []RequestType
	PrimaryRequestType  RequestType
	FallbackRequestType RequestType
	RequestorTypes      []RequestorType
	TaskTypes           []TaskType
	AllowsMultiCount    bool
}

var clientProfiles = map[ClientType]*ClientProfile{
	ClientTypeMRO: {
		Client:              ClientTypeMRO,
		DisplayName:         "MRO",
		RequestTypes:        []RequestType{RequestTypeNewRequest, RequestTypeDuplicate, RequestTypeKey, RequestTypeFollowUp},
		PrimaryRequestType:  RequestTypeNewRequest,
		FallbackRequestType: RequestTypeDuplicate,
		RequestorTypes: []RequestorType{
			RequestorTypeAttorney, RequestorTypeInsurance, RequestorTypePatient,
			RequestorTypeProvider, RequestorTypeGovernment, RequestorTypeOther,
		},
		TaskTypes:        nil,
		AllowsMultiCount: false,
	},
	ClientTypeVerisma: {
		Client:              ClientTypeVerisma,
		DisplayName:         "Verisma",
		RequestTypes:        []RequestType{RequestTypeNewRequest, RequestTypeDuplicate, RequestTypeFollowUp, RequestTypeBatch},
		PrimaryRequestType:  RequestTypeNewRequest,
		FallbackRequestType: RequestTypeDuplicate,
		RequestorTypes: []RequestorType{
			RequestorTypeAttorney, RequestorTypeInsurance, RequestorTypeDisability,
			RequestorTypeSubpoena, RequestorTypePortal, RequestorTypeOther,
		},
		TaskTypes:        nil,
		AllowsMultiCount: true,
	},
	ClientTypeDatavant: {
		Client:              ClientTypeDatavant,
		DisplayName:         "Datavant",
		RequestTypes:        []RequestType{RequestTypeNewRequest, RequestTypeDuplicate, RequestTypeKey, RequestTypeBatch},
		PrimaryRequestType:  RequestTypeNewRequest,
		FallbackRequestType: RequestTypeDuplicate,
		RequestorTypes: []RequestorType{
			RequestorTypePayer, RequestorTypeProvider, RequestorTypeAudit,
			RequestorTypeLegal, RequestorTypeOther,
		},
		TaskTypes:        []TaskType{TaskTypeStandard, TaskTypeSTAT, TaskTypeCertified},
		AllowsMultiCount: true,
	},
}

// ProfileFor returns the ledger profile for a client type
func ProfileFor(ct ClientType) (*ClientProfile, bool) {
	p, ok := clientProfiles[ct]
	return p, ok
}

// ValidRequestType checks whether rt is legal for this client
func (p *ClientProfile) ValidRequestType(rt RequestType) bool {
	for _, t := range p.RequestTypes {
		if t == rt {
			return true
		}
	}
	return false
}

// ValidRequestorType checks whether rt is legal for this client; empty is
// always accepted since not every client tracks requestors
func (p *ClientProfile) ValidRequestorType(rt RequestorType) bool {
	if rt == "" {
		return true
	}
	for _, t := range p.RequestorTypes {
		if t == rt {
			return true
		}
	}
	return false
}

// ValidTaskType checks whether tt is legal for this client; empty is always
// accepted, non-empty values require the client to define task types
func (p *ClientProfile) ValidTaskType(tt TaskType) bool {
	if tt == "" {
		return true
	}
	for _, t := range p.TaskTypes {
		if t == tt {
			return true
		}
	}
	return false
}

// IsPrimary reports whether rt is this client's primary request type
func (p *ClientProfile) IsPrimary(rt RequestType) bool {
	return rt == p.PrimaryRequestType
}
