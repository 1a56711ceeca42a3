package domain

// StatusLabel is the badge text for an appointment status
func StatusLabel(status string) string {
	switch status {
	case "pending":
		return "Pending"
	case "booked":
		return "Booked"
	case "arrived":
		return "Arrived"
	case "fulfilled":
		return "Completed"
	case "cancelled":
		return "Cancelled"
	case "noshow":
		return "No Show"
	case "":
		return "Unknown"
	}
	return status
}

// Label is the badge text for a priority. Unset and unknown values
// read as Routine.
func (p Priority) Label() string {
	switch p.Value {
	case "1":
		return "Urgent"
	case "2", "4":
		return "ASAP"
	case "3":
		return "STAT"
	default:
		return "Routine"
	}
}
