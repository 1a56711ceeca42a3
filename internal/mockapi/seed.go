package mockapi

import (
	"fmt"
	"time"

	"clinicbook/internal/domain"
	"clinicbook/internal/logic"
)

var (
	seedPatients = []struct{ id, name string }{
		{"P001", "မောင်သူရိန်လင်း"},
		{"P002", "Daw Khin Myo"},
		{"P003", "U Thein Zaw"},
		{"P004", "Ma Hnin Wai"},
		{"P005", "Ko Min Htet"},
	}
	seedDoctors = []struct{ id, name string }{
		{"DOC001", "Dr. Aung Ko Win"},
		{"DOC002", "Dr. Su Mon"},
		{"DOC003", "Dr. Kyaw Zin"},
	}
	seedStatuses = []string{"booked", "pending", "arrived", "fulfilled", "booked", "cancelled", "pending", "noshow"}
)

// Seed fills store with n appointments spread from a week before now to a
// week after, in chronological order
func Seed(store logic.AppointmentStore, now time.Time, n int) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for i := 0; i < n; i++ {
		offset := i - n/2
		start := day.AddDate(0, 0, offset/2).Add(time.Duration(9+(i%8)) * time.Hour)
		end := start.Add(45 * time.Minute)

		patient := seedPatients[i%len(seedPatients)]
		doctor := seedDoctors[i%len(seedDoctors)]
		diagnosis := seedDiagnosis(i)

		store.AddAppointment(domain.Appointment{
			ID:          fmt.Sprintf("apt-%03d", i+1),
			Status:      seedStatuses[i%len(seedStatuses)],
			Priority:    domain.PriorityOf(i % 6),
			Start:       start.Format(time.RFC3339),
			End:         end.Format(time.RFC3339),
			PatientName: patient.name,
			DoctorName:  doctor.name,
			Diagnosis:   diagnosis,
			Participant: []domain.Participant{
				{Actor: domain.Reference{Reference: "Patient/" + patient.id, Display: patient.name}, Status: "accepted", Required: "required"},
				{Actor: domain.Reference{Reference: "Practitioner/" + doctor.id, Display: doctor.name}, Status: "accepted", Required: "required"},
			},
		})
	}
}

func seedDiagnosis(i int) string {
	samples := []string{"Acute appendicitis", "Type 2 diabetes mellitus", "Essential (primary) hypertension", "Gastritis", "Chronic appendicitis"}
	return samples[i%len(samples)]
}
