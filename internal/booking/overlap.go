package booking

// Overlaps reports whether r and o share at least one day. Both bounds are
// inclusive, so a range ending on the day another starts overlaps it.
func (r DateRange) Overlaps(o DateRange) bool {
	return !r.Start.After(o.End) && !o.Start.After(r.End)
}

// FindConflicts returns the bookings in existing whose range overlaps
// candidate. The booking with id excludeID, if any, is skipped so that an
// update never collides with its own prior record.
func FindConflicts(candidate DateRange, existing []*Booking, excludeID string) []*Booking {
	var conflicts []*Booking
	for _, b := range existing {
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if candidate.Overlaps(b.Range()) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts
}

// Conflicts reports whether any booking in existing overlaps candidate.
func Conflicts(candidate DateRange, existing []*Booking, excludeID string) bool {
	return len(FindConflicts(candidate, existing, excludeID)) > 0
}

// conflictError names the fields of candidate that land inside an existing
// booking. A candidate that swallows a booking whole collides on both ends.
func conflictError(candidate DateRange, conflicts []*Booking) error {
	fields := make(map[string]string, 2)
	startDay := DateRange{Start: candidate.Start, End: candidate.Start}
	endDay := DateRange{Start: candidate.End, End: candidate.End}

	for _, b := range conflicts {
		if b.Range().Overlaps(startDay) {
			fields["startDate"] = "Start date conflicts with an existing booking"
		}
		if b.Range().Overlaps(endDay) {
			fields["endDate"] = "End date conflicts with an existing booking"
		}
	}
	if len(fields) == 0 {
		fields["startDate"] = "Start date conflicts with an existing booking"
		fields["endDate"] = "End date conflicts with an existing booking"
	}
	return ErrConflict.WithFields(fields)
}
