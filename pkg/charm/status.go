package charm

// StatusName is the workload status reported to the host
type StatusName string

const (
	StatusMaintenance StatusName = "maintenance"
	StatusBlocked     StatusName = "blocked"
	StatusActive      StatusName = "active"
)

// Status is a status plus its optional message
type Status struct {
	Name    StatusName
	Message string
}

func MaintenanceStatus(message string) Status {
	return Status{Name: StatusMaintenance, Message: message}
}

func BlockedStatus(message string) Status {
	return Status{Name: StatusBlocked, Message: message}
}

func ActiveStatus(message string) Status {
	return Status{Name: StatusActive, Message: message}
}

func (s Status) String() string {
	if s.Message == "" {
		return string(s.Name)
	}
	return string(s.Name) + ": " + s.Message
}
