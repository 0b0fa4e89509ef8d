package service

// checkOwner returns ErrNotOwner unless actorID authored the record.
func checkOwner(actorID, authorID int64) error {
	if actorID == Anonymous || actorID != authorID {
		return ErrNotOwner
	}
	return nil
}
