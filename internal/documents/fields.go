package documents

import (
	"encoding/json"
	"fmt"
)

// Fields is the tagged union of per-type document payloads. The concrete type
// is determined by Document.Type (normalized); DecodeFields enforces that at
// the storage boundary, so an unknown type can never reach a repository.
type Fields interface {
	// FieldsType reports which normalized document type this payload belongs to.
	FieldsType() Type
}

// AgreementFields is the payload for settlement agreements.
type AgreementFields struct {
	ClientName       string `json:"client_name,omitempty"`
	ClientIDNumber   string `json:"client_id_number,omitempty"`
	ClientAddress    string `json:"client_address,omitempty"`
	OpponentName     string `json:"opponent_name,omitempty"`
	IncidentDate     string `json:"incident_date,omitempty"`
	IncidentLocation string `json:"incident_location,omitempty"`

	// Not derivable from a case; entered by hand.
	SettlementAmount string `json:"settlement_amount,omitempty"`
	Terms            string `json:"terms,omitempty"`
}

func (*AgreementFields) FieldsType() Type { return TypeAgreement }

// PowerOfAttorneyFields is the payload for general powers of attorney.
type PowerOfAttorneyFields struct {
	PrincipalName     string `json:"principal_name,omitempty"`
	PrincipalIDNumber string `json:"principal_id_number,omitempty"`
	PrincipalAddress  string `json:"principal_address,omitempty"`
	AttorneyName      string `json:"attorney_name,omitempty"`
	CourtName         string `json:"court_name,omitempty"`
	CourtCaseNumber   string `json:"court_case_number,omitempty"`

	// Not derivable from a case; entered by hand.
	ScopeOfAuthority string `json:"scope_of_authority,omitempty"`
}

func (*PowerOfAttorneyFields) FieldsType() Type { return TypePowerOfAttorney }

// AttorneyAppointmentFields is the payload for attorney appointment notices.
type AttorneyAppointmentFields struct {
	ClientName      string `json:"client_name,omitempty"`
	ClientAddress   string `json:"client_address,omitempty"`
	ClientPhone     string `json:"client_phone,omitempty"`
	AttorneyName    string `json:"attorney_name,omitempty"`
	CourtName       string `json:"court_name,omitempty"`
	CourtCaseNumber string `json:"court_case_number,omitempty"`

	// Not derivable from a case; entered by hand.
	RetainerTerms string `json:"retainer_terms,omitempty"`
}

func (*AttorneyAppointmentFields) FieldsType() Type { return TypeAttorneyAppointment }

// LitigationPowerFields is the payload for litigation powers of attorney.
type LitigationPowerFields struct {
	ClientName      string `json:"client_name,omitempty"`
	ClientIDNumber  string `json:"client_id_number,omitempty"`
	OpponentName    string `json:"opponent_name,omitempty"`
	CourtName       string `json:"court_name,omitempty"`
	CourtCaseNumber string `json:"court_case_number,omitempty"`

	// Not derivable from a case; entered by hand.
	DelegatedPowers string `json:"delegated_powers,omitempty"`
}

func (*LitigationPowerFields) FieldsType() Type { return TypeLitigationPower }

// InsuranceConsentFields is the payload for insurance information consents.
type InsuranceConsentFields struct {
	ClientName       string `json:"client_name,omitempty"`
	ClientIDNumber   string `json:"client_id_number,omitempty"`
	InsuranceCompany string `json:"insurance_company,omitempty"`
	PolicyNumber     string `json:"policy_number,omitempty"`
	VehicleNumber    string `json:"vehicle_number,omitempty"`

	// Not derivable from a case; entered by hand.
	ConsentScope string `json:"consent_scope,omitempty"`
}

func (*InsuranceConsentFields) FieldsType() Type { return TypeInsuranceConsent }

// NewFields returns the zero payload for a document type.
func NewFields(t Type) (Fields, error) {
	switch t.Normalize() {
	case TypeAgreement:
		return &AgreementFields{}, nil
	case TypePowerOfAttorney:
		return &PowerOfAttorneyFields{}, nil
	case TypeAttorneyAppointment:
		return &AttorneyAppointmentFields{}, nil
	case TypeLitigationPower:
		return &LitigationPowerFields{}, nil
	case TypeInsuranceConsent:
		return &InsuranceConsentFields{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDocumentType, t)
	}
}

// DecodeFields parses a stored JSON payload into the payload type for t.
func DecodeFields(t Type, raw []byte) (Fields, error) {
	f, err := NewFields(t)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(raw, f); err != nil {
		return nil, fmt.Errorf("decode %s fields: %w", t, err)
	}
	return f, nil
}

// EncodeFields serializes a payload for storage.
func EncodeFields(f Fields) ([]byte, error) {
	if f == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(f)
}
