package params

// Disposition is the typed input of the getDisposition operation.
type Disposition struct {
	SourceTrackingID string
}

// ParseDisposition reads the getDisposition operation's parameters from p.
func ParseDisposition(p Parameters) (*Disposition, error) {
	id, err := p.RequiredString("sourceTrackingId")
	if err != nil {
		return nil, err
	}
	return &Disposition{SourceTrackingID: id}, nil
}
