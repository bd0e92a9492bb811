package booking

// VitalsOverride is the client-supplied overlay for one person's
// vitals. A field counts only when non-empty; empty values never
// clobber stored-profile values.
type VitalsOverride struct {
	BloodType             string `json:"blood_type"`
	Allergies             string `json:"allergies"`
	ChronicConditions     string `json:"chronic_conditions"`
	Medications           string `json:"medications"`
	Height                string `json:"height"`
	Weight                string `json:"weight"`
	EmergencyContactName  string `json:"emergency_contact_name"`
	EmergencyContactPhone string `json:"emergency_contact_phone"`
}

// CreateWithWalletRequest is the inbound payload for the wallet-funded
// booking endpoint.
type CreateWithWalletRequest struct {
	// PatientID, when present, must equal the authenticated caller.
	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`

	// ProviderID is a loose token; a malformed value means "no
	// provider specified", not an error.
	ProviderID string `json:"provider_id"`

	Date      string `json:"date" validate:"required,ymd_date"`
	Time      string `json:"time" validate:"required,hm_time"`
	VisitType string `json:"visit_type" validate:"visit_type"`
	Notes     string `json:"notes"`

	Amount int64 `json:"amount" validate:"required,gt=0"`

	CreateTicket bool `json:"create_ticket"`

	DependentIDs []string `json:"dependent_ids"`
	// DependentVitals is keyed by dependent id.
	DependentVitals map[string]VitalsOverride `json:"dependent_vitals"`
	Vitals          *VitalsOverride           `json:"vitals"`
}

// CreateWithWalletResponse is the success payload: the created booking,
// the ticket number (nullable), and the post-debit balance.
type CreateWithWalletResponse struct {
	Booking      *Booking `json:"booking"`
	TicketNumber *string  `json:"ticket_number"`
	Balance      int64    `json:"balance"`
}

// CancelResponse reports the refund outcome of a cancellation.
type CancelResponse struct {
	Booking *Booking `json:"booking"`
	Balance int64    `json:"balance"`
}
