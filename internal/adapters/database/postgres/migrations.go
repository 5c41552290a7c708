package postgres

import "github.com/Badsnus/campus-hub/internal/domain/entity"

// Migrations is a list of all gorm migrations for the database.
var Migrations = []interface{}{
	&entity.User{},
	&entity.Club{},
	&entity.Event{},
	&entity.Registration{},
	&entity.Comment{},
	&entity.Reminder{},
	&entity.Notification{},
}
