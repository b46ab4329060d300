package documents

import (
	"errors"
	"reflect"
	"testing"

	"lawdesk-platform/internal/cases"
)

func fullCaseFields() cases.CaseFields {
	return cases.CaseFields{
		ClientName:            "Kim Minji",
		ClientIDNumber:        "850101-1234567",
		ClientAddress:         "12 Teheran-ro, Seoul",
		ClientPhone:           "010-1234-5678",
		OpponentName:          "ABC Logistics",
		OpponentAddress:       "3 Harbor St",
		IncidentDate:          "2026-01-15",
		IncidentLocation:      "Gangnam intersection",
		IncidentDescription:   "rear-end collision",
		CourtName:             "Seoul Central District Court",
		CourtCaseNumber:       "2026GaDan1234",
		InsuranceCompany:      "Samsung Fire",
		InsurancePolicyNumber: "POL-9981",
		VehicleNumber:         "12가3456",
		AttorneyName:          "Lee Jiwon",
	}
}

func TestMapCaseToDocumentAgreement(t *testing.T) {
	f, err := MapCaseToDocument(fullCaseFields(), TypeAgreement)
	if err != nil {
		t.Fatalf("MapCaseToDocument: %v", err)
	}
	a, ok := f.(*AgreementFields)
	if !ok {
		t.Fatalf("payload type = %T, want *AgreementFields", f)
	}
	if a.ClientName != "Kim Minji" || a.OpponentName != "ABC Logistics" {
		t.Fatalf("party fields not derived: %+v", a)
	}
	if a.IncidentDate != "2026-01-15" || a.IncidentLocation != "Gangnam intersection" {
		t.Fatalf("incident fields not derived: %+v", a)
	}
	// Hand-entered fields must never be populated from a case.
	if a.SettlementAmount != "" || a.Terms != "" {
		t.Fatalf("hand-entered fields were derived: %+v", a)
	}
}

func TestMapCaseToDocumentPerType(t *testing.T) {
	cf := fullCaseFields()

	tests := []struct {
		docType Type
		want    Fields
	}{
		{TypePowerOfAttorney, &PowerOfAttorneyFields{
			PrincipalName:     cf.ClientName,
			PrincipalIDNumber: cf.ClientIDNumber,
			PrincipalAddress:  cf.ClientAddress,
			AttorneyName:      cf.AttorneyName,
			CourtName:         cf.CourtName,
			CourtCaseNumber:   cf.CourtCaseNumber,
		}},
		{TypeAttorneyAppointment, &AttorneyAppointmentFields{
			ClientName:      cf.ClientName,
			ClientAddress:   cf.ClientAddress,
			ClientPhone:     cf.ClientPhone,
			AttorneyName:    cf.AttorneyName,
			CourtName:       cf.CourtName,
			CourtCaseNumber: cf.CourtCaseNumber,
		}},
		{TypeLitigationPower, &LitigationPowerFields{
			ClientName:      cf.ClientName,
			ClientIDNumber:  cf.ClientIDNumber,
			OpponentName:    cf.OpponentName,
			CourtName:       cf.CourtName,
			CourtCaseNumber: cf.CourtCaseNumber,
		}},
		{TypeInsuranceConsent, &InsuranceConsentFields{
			ClientName:       cf.ClientName,
			ClientIDNumber:   cf.ClientIDNumber,
			InsuranceCompany: cf.InsuranceCompany,
			PolicyNumber:     cf.InsurancePolicyNumber,
			VehicleNumber:    cf.VehicleNumber,
		}},
	}

	for _, tc := range tests {
		got, err := MapCaseToDocument(cf, tc.docType)
		if err != nil {
			t.Fatalf("%s: %v", tc.docType, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s:\n got %+v\nwant %+v", tc.docType, got, tc.want)
		}
	}
}

func TestMapLegacyTypeSharesFieldSet(t *testing.T) {
	modern, err := MapCaseToDocument(fullCaseFields(), TypeAgreement)
	if err != nil {
		t.Fatalf("modern: %v", err)
	}
	legacy, err := MapCaseToDocument(fullCaseFields(), TypeAgreementOld)
	if err != nil {
		t.Fatalf("legacy: %v", err)
	}
	if !reflect.DeepEqual(modern, legacy) {
		t.Fatalf("legacy variant produced a different payload:\n%+v\n%+v", modern, legacy)
	}
}

func TestMapUnsupportedType(t *testing.T) {
	if _, err := MapCaseToDocument(fullCaseFields(), Type("lease_contract")); !errors.Is(err, ErrUnsupportedDocumentType) {
		t.Fatalf("err = %v, want ErrUnsupportedDocumentType", err)
	}
}

func TestUpdateMergePreservesManualEdits(t *testing.T) {
	existing := &AgreementFields{
		ClientName:       "Old Name",
		IncidentLocation: "manually corrected location",
		SettlementAmount: "50,000,000 KRW",
		Terms:            "paid in two installments",
	}

	cf := cases.CaseFields{
		ClientName: "Kim Minji",
		// IncidentLocation intentionally empty: the manual edit must survive.
	}

	got, err := UpdateDocumentFromCase(existing, cf, TypeAgreement)
	if err != nil {
		t.Fatalf("UpdateDocumentFromCase: %v", err)
	}
	a := got.(*AgreementFields)

	if a.ClientName != "Kim Minji" {
		t.Fatalf("ClientName = %q, want refreshed value", a.ClientName)
	}
	if a.IncidentLocation != "manually corrected location" {
		t.Fatalf("empty case value overwrote manual edit: %q", a.IncidentLocation)
	}
	if a.SettlementAmount != "50,000,000 KRW" || a.Terms != "paid in two installments" {
		t.Fatalf("hand-entered fields lost: %+v", a)
	}

	// The input payload must not be mutated.
	if existing.ClientName != "Old Name" {
		t.Fatal("UpdateDocumentFromCase mutated its input")
	}
}

func TestUpdateIdempotent(t *testing.T) {
	cf := fullCaseFields()
	first, err := UpdateDocumentFromCase(&AgreementFields{Terms: "keep me"}, cf, TypeAgreement)
	if err != nil {
		t.Fatalf("first update: %v", err)
	}
	second, err := UpdateDocumentFromCase(first, cf, TypeAgreement)
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("update is not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestUpdateTypeMismatch(t *testing.T) {
	_, err := UpdateDocumentFromCase(&AgreementFields{}, fullCaseFields(), TypePowerOfAttorney)
	if !errors.Is(err, ErrUnsupportedDocumentType) {
		t.Fatalf("err = %v, want ErrUnsupportedDocumentType", err)
	}
}
