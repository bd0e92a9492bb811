package booking

import (
	"testing"
	"time"

	"github.com/lib/pq"

	"github.com/fonthenet/sihadz-api/internal/domain/patient"
)

func TestMergeField(t *testing.T) {
	cases := []struct {
		client string
		stored string
		want   string
	}{
		{"", "O+", "O+"},
		{"  ", "O+", "O+"},
		{"A-", "O+", "A-"},
		{"A-", "", "A-"},
		{"", "", ""},
	}

	for _, c := range cases {
		if got := mergeField(c.client, c.stored); got != c.want {
			t.Errorf("mergeField(%q, %q) = %q, want %q", c.client, c.stored, got, c.want)
		}
	}
}

func TestAgeFromDOB(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		dob  time.Time
		want int
	}{
		{"thirty", time.Date(1996, 8, 30, 0, 0, 0, 0, time.UTC), 30},
		{"day before birthday", time.Date(1996, 8, 31, 0, 0, 0, 0, time.UTC), 29},
		{"newborn", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), 0},
		{"future", time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), 0},
	}

	for _, c := range cases {
		if got := AgeFromDOB(c.dob, now); got != c.want {
			t.Errorf("%s: AgeFromDOB = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestBuildVitalsProfileStands(t *testing.T) {
	height := 172.5
	weight := 64.0
	dob := time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	hp := patient.HealthProfile{
		BloodType:             "O+",
		Allergies:             pq.StringArray{"penicillin", "peanuts"},
		ChronicConditions:     pq.StringArray{"asthma"},
		Medications:           patient.MedicationList{{Name: "Salbutamol", Dosage: "100mcg"}, {Name: "Cetirizine"}},
		HeightCM:              &height,
		WeightKG:              &weight,
		EmergencyContactName:  "Sam Doe",
		EmergencyContactPhone: "+77010000000",
	}

	// Empty override: every stored field survives.
	v := BuildVitals("Jane Doe", &dob, hp, &VitalsOverride{}, now)

	if v.PatientName != "Jane Doe" {
		t.Errorf("PatientName = %q", v.PatientName)
	}
	if v.BloodType != "O+" {
		t.Errorf("BloodType = %q, want O+", v.BloodType)
	}
	if v.Allergies != "penicillin, peanuts" {
		t.Errorf("Allergies = %q", v.Allergies)
	}
	if v.ChronicConditions != "asthma" {
		t.Errorf("ChronicConditions = %q", v.ChronicConditions)
	}
	if v.Medications != "Salbutamol (100mcg), Cetirizine" {
		t.Errorf("Medications = %q", v.Medications)
	}
	if v.Height != "172.5" || v.Weight != "64" {
		t.Errorf("Height/Weight = %q/%q", v.Height, v.Weight)
	}
	if v.EmergencyContactName != "Sam Doe" || v.EmergencyContactPhone != "+77010000000" {
		t.Errorf("emergency contact = %q / %q", v.EmergencyContactName, v.EmergencyContactPhone)
	}
	if v.Age == nil || *v.Age != 36 {
		t.Errorf("Age = %v, want 36", v.Age)
	}
}

func TestBuildVitalsOverrideWins(t *testing.T) {
	hp := patient.HealthProfile{
		BloodType: "O+",
		Allergies: pq.StringArray{"penicillin"},
	}
	ov := &VitalsOverride{
		BloodType: "AB-",
		Allergies: "none reported",
		Weight:    "70",
	}

	v := BuildVitals("Jane Doe", nil, hp, ov, time.Now())

	if v.BloodType != "AB-" {
		t.Errorf("BloodType = %q, want AB-", v.BloodType)
	}
	if v.Allergies != "none reported" {
		t.Errorf("Allergies = %q", v.Allergies)
	}
	if v.Weight != "70" {
		t.Errorf("Weight = %q", v.Weight)
	}
	if v.Age != nil {
		t.Errorf("Age = %v, want nil without a date of birth", v.Age)
	}
}

func TestBuildVitalsNilOverride(t *testing.T) {
	hp := patient.HealthProfile{BloodType: "B+"}
	v := BuildVitals("Jane Doe", nil, hp, nil, time.Now())
	if v.BloodType != "B+" {
		t.Errorf("BloodType = %q, want B+", v.BloodType)
	}
}
