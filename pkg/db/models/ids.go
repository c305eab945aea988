package models

import "github.com/google/uuid"

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All lists every persisted model, in dependency order, for sqlite auto-migration.
func All() []any {
	return []any{
		&User{},
		&Location{},
		&LocationStaff{},
		&LocationEvent{},
		&LocationBlockedTime{},
		&TradeRequest{},
		&TradeSchedule{},
		&LocationFollower{},
		&UserDevice{},
	}
}
