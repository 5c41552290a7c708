package dto

import "github.com/Badsnus/campus-hub/internal/domain/entity"

// Session identifies the caller of a request. It is built by the auth
// middleware from the verified token.
type Session struct {
	UserID string
	Email  string
	Name   string
	Role   entity.Role
}

func (s Session) IsAdmin() bool {
	return s.Role == entity.Admin
}

func (s Session) Anonymous() bool {
	return s.UserID == ""
}
