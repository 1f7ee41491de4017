package desktop

// Label condenses the status for single-line displays.
func (s ServerStatus) Label() string {
	switch {
	case s.Ready:
		return "running"
	case s.Running:
		return "starting"
	case s.Error != "":
		return "failed"
	default:
		return "stopped"
	}
}
