package documents

import "time"

// Document is a generated legal instrument. Its Data payload is a tagged
// union keyed by Type: exactly one field-set shape exists per normalized type.
type Document struct {
	ID   string `json:"id" db:"id"`
	Type Type   `json:"document_type" db:"document_type"`

	// Name is the document title. Invariant: when IsCaseLinked is true, Name
	// always equals the linked case's case_name; the service overrides any
	// client-supplied value on every write.
	Name string `json:"name" db:"name"`

	// Date is the nominal document date as entered (free-form, e.g. "2026-03-01").
	Date string `json:"date,omitempty" db:"date"`

	// Locale is the authoring locale of the document (e.g. "ko", "en", "zh-CN").
	Locale string `json:"locale" db:"locale"`

	Data Fields `json:"data" db:"data"`

	CaseID       *string `json:"case_id,omitempty" db:"case_id"`
	IsCaseLinked bool    `json:"is_case_linked" db:"is_case_linked"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Type string

// Supported document types. Each modern template also has a legacy "_old"
// variant that renders with the pre-2020 layout but shares the same field set.
const (
	TypeAgreement              Type = "agreement"
	TypeAgreementOld           Type = "agreement_old"
	TypePowerOfAttorney        Type = "power_of_attorney"
	TypePowerOfAttorneyOld     Type = "power_of_attorney_old"
	TypeAttorneyAppointment    Type = "attorney_appointment"
	TypeAttorneyAppointmentOld Type = "attorney_appointment_old"
	TypeLitigationPower        Type = "litigation_power"
	TypeLitigationPowerOld     Type = "litigation_power_old"
	TypeInsuranceConsent       Type = "insurance_consent"
	TypeInsuranceConsentOld    Type = "insurance_consent_old"
)

// Normalize strips the legacy-template marker: "agreement_old" and
// "agreement" carry identical field sets.
func (t Type) Normalize() Type {
	switch t {
	case TypeAgreementOld:
		return TypeAgreement
	case TypePowerOfAttorneyOld:
		return TypePowerOfAttorney
	case TypeAttorneyAppointmentOld:
		return TypeAttorneyAppointment
	case TypeLitigationPowerOld:
		return TypeLitigationPower
	case TypeInsuranceConsentOld:
		return TypeInsuranceConsent
	default:
		return t
	}
}

func (t Type) Valid() bool {
	switch t {
	case TypeAgreement, TypeAgreementOld,
		TypePowerOfAttorney, TypePowerOfAttorneyOld,
		TypeAttorneyAppointment, TypeAttorneyAppointmentOld,
		TypeLitigationPower, TypeLitigationPowerOld,
		TypeInsuranceConsent, TypeInsuranceConsentOld:
		return true
	default:
		return false
	}
}
