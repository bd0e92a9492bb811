package booking

import (
	"strconv"
	"strings"
	"time"

	"github.com/fonthenet/sihadz-api/internal/domain/patient"
)

// mergeField resolves one vitals field: the client value wins only
// when non-empty, otherwise the stored-profile value stands.
func mergeField(clientValue, storedValue string) string {
	if strings.TrimSpace(clientValue) != "" {
		return clientValue
	}
	return storedValue
}

// joinStrings flattens a plain string list for display.
func joinStrings(values []string) string {
	return strings.Join(values, ", ")
}

// joinMedications flattens structured medication entries into a
// human-readable comma-joined string.
func joinMedications(meds []patient.Medication) string {
	parts := make([]string, 0, len(meds))
	for _, m := range meds {
		if m.Dosage != "" {
			parts = append(parts, m.Name+" ("+m.Dosage+")")
		} else {
			parts = append(parts, m.Name)
		}
	}
	return strings.Join(parts, ", ")
}

// AgeFromDOB computes whole years from date of birth using a
// 365.25-day year. Derived at read time, never stored on the profile.
func AgeFromDOB(dob, now time.Time) int {
	if dob.After(now) {
		return 0
	}
	days := now.Sub(dob).Hours() / 24
	return int(days / 365.25)
}

func formatMeasure(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// BuildVitals merges one person's stored health profile with a
// client-supplied override into the flattened snapshot.
func BuildVitals(name string, dob *time.Time, hp patient.HealthProfile, ov *VitalsOverride, now time.Time) Vitals {
	if ov == nil {
		ov = &VitalsOverride{}
	}

	v := Vitals{
		PatientName:           name,
		BloodType:             mergeField(ov.BloodType, hp.BloodType),
		Allergies:             mergeField(ov.Allergies, joinStrings(hp.Allergies)),
		ChronicConditions:     mergeField(ov.ChronicConditions, joinStrings(hp.ChronicConditions)),
		Medications:           mergeField(ov.Medications, joinMedications(hp.Medications)),
		Height:                mergeField(ov.Height, formatMeasure(hp.HeightCM)),
		Weight:                mergeField(ov.Weight, formatMeasure(hp.WeightKG)),
		EmergencyContactName:  mergeField(ov.EmergencyContactName, hp.EmergencyContactName),
		EmergencyContactPhone: mergeField(ov.EmergencyContactPhone, hp.EmergencyContactPhone),
	}

	if dob != nil {
		age := AgeFromDOB(*dob, now)
		v.Age = &age
	}
	return v
}
