package export

import (
	"bytes"
	"fmt"

	"lawdesk-platform/internal/documents"
	"lawdesk-platform/internal/versions"

	"github.com/go-pdf/fpdf"
)

// renderInput is everything the renderer needs; it deliberately excludes any
// clock or randomness so the same input always yields the same bytes.
type renderInput struct {
	Document      documents.Document
	Version       versions.Version
	TargetLocales []string

	// FontPath optionally loads a UTF-8 TTF for CJK values. Empty uses the
	// built-in core fonts (latin-only).
	FontPath string
}

const (
	coreFont = "Helvetica"
	utf8Font = "lawdesk"
)

// renderPDF renders one section per target locale into a single PDF.
// Deterministic: creation/modification dates are pinned to the version's
// CreatedAt, which never changes once the version exists. Status transitions
// bump UpdatedAt, so a re-export after MarkExported must not depend on it.
func renderPDF(in renderInput) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(in.Version.CreatedAt.UTC())
	pdf.SetModificationDate(in.Version.CreatedAt.UTC())

	font := coreFont
	if in.FontPath != "" {
		pdf.AddUTF8Font(utf8Font, "", in.FontPath)
		font = utf8Font
	}

	for _, locale := range in.TargetLocales {
		labels := labelsFor(locale)
		pdf.AddPage()

		pdf.SetFont(font, "", 18)
		pdf.CellFormat(0, 12, fmt.Sprintf("%s (%s)", labels.title(in.Document.Type), locale), "", 1, "C", false, 0, "")
		pdf.Ln(2)

		pdf.SetFont(font, "", 11)
		pdf.CellFormat(0, 7, labels.get("name")+": "+in.Document.Name, "", 1, "L", false, 0, "")
		if in.Document.Date != "" {
			pdf.CellFormat(0, 7, labels.get("date")+": "+in.Document.Date, "", 1, "L", false, 0, "")
		}
		pdf.CellFormat(0, 7, fmt.Sprintf("%s: %d", labels.get("version"), in.Version.Number), "", 1, "L", false, 0, "")
		pdf.Ln(4)

		for _, row := range fieldRows(in.Document.Data) {
			if row.value == "" {
				continue
			}
			pdf.SetFont(font, "", 10)
			pdf.CellFormat(60, 8, labels.get(row.key), "1", 0, "L", false, 0, "")
			pdf.CellFormat(0, 8, row.value, "1", 1, "L", false, 0, "")
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type fieldRow struct {
	key   string
	value string
}

// fieldRows flattens a payload into ordered label-key/value pairs.
// Order is fixed per type so rendering stays deterministic.
func fieldRows(f documents.Fields) []fieldRow {
	switch v := f.(type) {
	case *documents.AgreementFields:
		return []fieldRow{
			{"client_name", v.ClientName},
			{"client_id_number", v.ClientIDNumber},
			{"client_address", v.ClientAddress},
			{"opponent_name", v.OpponentName},
			{"incident_date", v.IncidentDate},
			{"incident_location", v.IncidentLocation},
			{"settlement_amount", v.SettlementAmount},
			{"terms", v.Terms},
		}
	case *documents.PowerOfAttorneyFields:
		return []fieldRow{
			{"principal_name", v.PrincipalName},
			{"principal_id_number", v.PrincipalIDNumber},
			{"principal_address", v.PrincipalAddress},
			{"attorney_name", v.AttorneyName},
			{"court_name", v.CourtName},
			{"court_case_number", v.CourtCaseNumber},
			{"scope_of_authority", v.ScopeOfAuthority},
		}
	case *documents.AttorneyAppointmentFields:
		return []fieldRow{
			{"client_name", v.ClientName},
			{"client_address", v.ClientAddress},
			{"client_phone", v.ClientPhone},
			{"attorney_name", v.AttorneyName},
			{"court_name", v.CourtName},
			{"court_case_number", v.CourtCaseNumber},
			{"retainer_terms", v.RetainerTerms},
		}
	case *documents.LitigationPowerFields:
		return []fieldRow{
			{"client_name", v.ClientName},
			{"client_id_number", v.ClientIDNumber},
			{"opponent_name", v.OpponentName},
			{"court_name", v.CourtName},
			{"court_case_number", v.CourtCaseNumber},
			{"delegated_powers", v.DelegatedPowers},
		}
	case *documents.InsuranceConsentFields:
		return []fieldRow{
			{"client_name", v.ClientName},
			{"client_id_number", v.ClientIDNumber},
			{"insurance_company", v.InsuranceCompany},
			{"policy_number", v.PolicyNumber},
			{"vehicle_number", v.VehicleNumber},
			{"consent_scope", v.ConsentScope},
		}
	default:
		return nil
	}
}
