package documents

import (
	"errors"
	"fmt"

	"lawdesk-platform/internal/cases"
)

// ErrUnsupportedDocumentType signals a document type outside the closed
// enumeration. Callers running a batch must abort without partial writes.
var ErrUnsupportedDocumentType = errors.New("unsupported document type")

// MapCaseToDocument derives a fresh payload for t from case facts.
// Pure: no I/O, deterministic. Only fields derivable from the case are set;
// hand-entered fields (settlement amount, scopes, terms) stay empty.
func MapCaseToDocument(cf cases.CaseFields, t Type) (Fields, error) {
	f, err := NewFields(t)
	if err != nil {
		return nil, err
	}
	applyCaseFields(f, cf, false)
	return f, nil
}

// UpdateDocumentFromCase merges case facts into an existing payload.
// Merge semantics: a derivable field is overwritten only when the case holds a
// non-empty value; hand-entered fields are never touched. Idempotent.
func UpdateDocumentFromCase(existing Fields, cf cases.CaseFields, t Type) (Fields, error) {
	if existing == nil {
		return MapCaseToDocument(cf, t)
	}
	if existing.FieldsType() != t.Normalize() {
		return nil, fmt.Errorf("%w: payload is %s, document is %s", ErrUnsupportedDocumentType, existing.FieldsType(), t)
	}

	out, err := cloneFields(existing)
	if err != nil {
		return nil, err
	}
	applyCaseFields(out, cf, true)
	return out, nil
}

func cloneFields(f Fields) (Fields, error) {
	raw, err := EncodeFields(f)
	if err != nil {
		return nil, err
	}
	return DecodeFields(f.FieldsType(), raw)
}

// applyCaseFields copies derivable case facts into the payload.
// merge=false overwrites unconditionally (fresh generation); merge=true skips
// empty case values so manual edits survive a partial case record.
func applyCaseFields(f Fields, cf cases.CaseFields, merge bool) {
	set := func(dst *string, src string) {
		if merge && src == "" {
			return
		}
		*dst = src
	}

	switch v := f.(type) {
	case *AgreementFields:
		set(&v.ClientName, cf.ClientName)
		set(&v.ClientIDNumber, cf.ClientIDNumber)
		set(&v.ClientAddress, cf.ClientAddress)
		set(&v.OpponentName, cf.OpponentName)
		set(&v.IncidentDate, cf.IncidentDate)
		set(&v.IncidentLocation, cf.IncidentLocation)
	case *PowerOfAttorneyFields:
		set(&v.PrincipalName, cf.ClientName)
		set(&v.PrincipalIDNumber, cf.ClientIDNumber)
		set(&v.PrincipalAddress, cf.ClientAddress)
		set(&v.AttorneyName, cf.AttorneyName)
		set(&v.CourtName, cf.CourtName)
		set(&v.CourtCaseNumber, cf.CourtCaseNumber)
	case *AttorneyAppointmentFields:
		set(&v.ClientName, cf.ClientName)
		set(&v.ClientAddress, cf.ClientAddress)
		set(&v.ClientPhone, cf.ClientPhone)
		set(&v.AttorneyName, cf.AttorneyName)
		set(&v.CourtName, cf.CourtName)
		set(&v.CourtCaseNumber, cf.CourtCaseNumber)
	case *LitigationPowerFields:
		set(&v.ClientName, cf.ClientName)
		set(&v.ClientIDNumber, cf.ClientIDNumber)
		set(&v.OpponentName, cf.OpponentName)
		set(&v.CourtName, cf.CourtName)
		set(&v.CourtCaseNumber, cf.CourtCaseNumber)
	case *InsuranceConsentFields:
		set(&v.ClientName, cf.ClientName)
		set(&v.ClientIDNumber, cf.ClientIDNumber)
		set(&v.InsuranceCompany, cf.InsuranceCompany)
		set(&v.PolicyNumber, cf.InsurancePolicyNumber)
		set(&v.VehicleNumber, cf.VehicleNumber)
	}
}
