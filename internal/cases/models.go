package cases

import "time"

// Case is a tracked legal matter. Its fields are the source of truth for
// populating generated documents: see internal/documents mapper.
type Case struct {
	ID string `json:"id" db:"id"`

	// CaseNumber is the court/internal docket reference, optional until filed.
	CaseNumber string `json:"case_number,omitempty" db:"case_number"`

	// CaseName identifies the matter ("Kim v. ABC"). Linked documents mirror
	// this name; the documents service enforces that on every write.
	CaseName string `json:"case_name" db:"case_name"`

	Fields CaseFields `json:"case_data" db:"case_data"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CaseFields is a flat record of optional party/incident facts.
// All fields are free-form strings; empty means "not captured".
// Stored as JSONB in the case_data column.
type CaseFields struct {
	ClientName     string `json:"client_name,omitempty"`
	ClientIDNumber string `json:"client_id_number,omitempty"`
	ClientAddress  string `json:"client_address,omitempty"`
	ClientPhone    string `json:"client_phone,omitempty"`

	OpponentName    string `json:"opponent_name,omitempty"`
	OpponentAddress string `json:"opponent_address,omitempty"`

	IncidentDate        string `json:"incident_date,omitempty"`
	IncidentLocation    string `json:"incident_location,omitempty"`
	IncidentDescription string `json:"incident_description,omitempty"`

	CourtName       string `json:"court_name,omitempty"`
	CourtCaseNumber string `json:"court_case_number,omitempty"`

	InsuranceCompany      string `json:"insurance_company,omitempty"`
	InsurancePolicyNumber string `json:"insurance_policy_number,omitempty"`
	VehicleNumber         string `json:"vehicle_number,omitempty"`

	AttorneyName string `json:"attorney_name,omitempty"`
}
